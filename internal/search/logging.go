package search

import (
	"log"

	"fuzzwalk/internal/eventbus"
)

// SubscribeLogging logs the scan lifecycle. Per-directory failures are
// logged as well so they reach the log file even without --verbose.
func SubscribeLogging(bus eventbus.EventBus) {
	bus.Subscribe(eventbus.EventScanStarted, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ScanStartedEvent); ok {
			log.Printf("Scan started: root=%s workers=%d", event.Root, event.Workers)
		}
	})
	bus.Subscribe(eventbus.EventScanCompleted, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ScanCompletedEvent); ok {
			st := event.Stats
			log.Printf("Scan completed: root=%s dirs=%d entries=%d unreadable=%d skipped=%d err=%v",
				event.Root, st.Directories, st.Entries, st.Unreadable, st.Skipped, event.Err)
		}
	})
	bus.Subscribe(eventbus.EventDirectoryUnreadable, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.DirectoryUnreadableEvent); ok {
			log.Printf("Error reading directory %s: %v", event.Path, event.Err)
		}
	})
	bus.Subscribe(eventbus.EventSearchFinished, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.SearchFinishedEvent); ok {
			log.Printf("Search for %q finished with %d matches", event.Query, event.Matches)
		}
	})
}
