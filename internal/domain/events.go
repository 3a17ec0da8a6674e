package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventScanStarted         EventType = "ScanStarted"
	EventScanCompleted       EventType = "ScanCompleted"
	EventDirectoryUnreadable EventType = "DirectoryUnreadable"
	EventEntrySkipped        EventType = "EntrySkipped"
	EventSearchFinished      EventType = "SearchFinished"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ScanStartedEvent is emitted when traversal of a root begins
type ScanStartedEvent struct {
	Root    string
	Workers int
}

func (e ScanStartedEvent) Type() EventType { return EventScanStarted }

// ScanCompletedEvent is emitted once every descendant of the root has been visited
type ScanCompletedEvent struct {
	Root  string
	Stats ScanStats
	Err   error // non-nil only when the scan was cancelled
}

func (e ScanCompletedEvent) Type() EventType { return EventScanCompleted }

// DirectoryUnreadableEvent is emitted when a directory cannot be listed.
// The subtree is abandoned; the scan continues.
type DirectoryUnreadableEvent struct {
	Path string
	Err  error
}

func (e DirectoryUnreadableEvent) Type() EventType { return EventDirectoryUnreadable }

// EntrySkippedEvent is emitted for entries that cannot be scored, such as
// names that are not valid UTF-8
type EntrySkippedEvent struct {
	Path   string
	Reason string
}

func (e EntrySkippedEvent) Type() EventType { return EventEntrySkipped }

// SearchFinishedEvent is emitted by the orchestrator after the final render
type SearchFinishedEvent struct {
	Query   string
	Matches int
}

func (e SearchFinishedEvent) Type() EventType { return EventSearchFinished }
