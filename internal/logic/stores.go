package logic

import (
	"sync"

	"fuzzwalk/internal/domain"
)

// MatchStore is an append-only, goroutine-safe sequence of candidates.
// Entries are never removed or reordered; ranking happens on snapshots.
type MatchStore struct {
	mu         sync.RWMutex
	candidates []domain.Candidate
	updates    chan struct{}
}

// NewMatchStore creates an empty store
func NewMatchStore() *MatchStore {
	return &MatchStore{
		updates: make(chan struct{}, 1),
	}
}

// Append adds one candidate and wakes the consumer of Updates
func (s *MatchStore) Append(c domain.Candidate) {
	s.mu.Lock()
	s.candidates = append(s.candidates, c)
	s.mu.Unlock()

	select {
	case s.updates <- struct{}{}:
	default:
		// A wake-up is already pending
	}
}

// Snapshot returns a copy of the candidates appended so far
func (s *MatchStore) Snapshot() []domain.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Candidate, len(s.candidates))
	copy(result, s.candidates)
	return result
}

// Len returns the number of candidates appended so far
func (s *MatchStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.candidates)
}

// Updates receives a value after one or more appends. Bursts of appends
// coalesce into a single pending notification, so it has one consumer.
func (s *MatchStore) Updates() <-chan struct{} {
	return s.updates
}
