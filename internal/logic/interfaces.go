package logic

import "fuzzwalk/internal/domain"

// CandidateSink receives candidates from traversal workers
type CandidateSink interface {
	Append(c domain.Candidate)
}

// CandidateSource is read by renderers and the orchestrator
type CandidateSource interface {
	Snapshot() []domain.Candidate
	Len() int
	Updates() <-chan struct{}
}
