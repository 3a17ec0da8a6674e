package ui

import (
	"fmt"
	"io"
	"sync"

	"fuzzwalk/internal/eventbus"
)

// DiagnosticsReporter prints one line per unreadable directory or skipped
// entry. Lines are written whole even when traversal workers report at once.
type DiagnosticsReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewDiagnosticsReporter subscribes a reporter writing to w.
// The returned function unsubscribes it.
func NewDiagnosticsReporter(w io.Writer, bus eventbus.EventBus) func() {
	r := &DiagnosticsReporter{w: w}
	unsubDir := bus.Subscribe(eventbus.EventDirectoryUnreadable, r.handle)
	unsubEntry := bus.Subscribe(eventbus.EventEntrySkipped, r.handle)
	return func() {
		unsubDir()
		unsubEntry()
	}
}

func (r *DiagnosticsReporter) handle(e eventbus.DomainEvent) {
	var line string
	switch ev := e.(type) {
	case eventbus.DirectoryUnreadableEvent:
		line = fmt.Sprintf("Error reading directory: %s: %v\n", ev.Path, ev.Err)
	case eventbus.EntrySkippedEvent:
		line = fmt.Sprintf("Skipping %q: %s\n", ev.Path, ev.Reason)
	default:
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = io.WriteString(r.w, line)
}
