package ui

import (
	"sync"
	"sync/atomic"
)

// Signal is the completion flag raised once traversal has fully returned.
// Only the orchestrator raises it; renderers read it.
type Signal struct {
	raised atomic.Bool
	once   sync.Once
	ch     chan struct{}
}

// NewSignal creates a signal that has not been raised
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// Raise sets the flag. Calls after the first have no effect.
func (s *Signal) Raise() {
	s.once.Do(func() {
		s.raised.Store(true)
		close(s.ch)
	})
}

// Raised reports whether Raise has been called
func (s *Signal) Raised() bool {
	return s.raised.Load()
}

// Done is closed when the signal is raised
func (s *Signal) Done() <-chan struct{} {
	return s.ch
}
