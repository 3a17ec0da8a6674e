package logic

import (
	"cmp"
	"slices"

	"fuzzwalk/internal/domain"
)

// DefaultTopK is the number of matches shown when nothing else is configured
const DefaultTopK = 10

// TopK reduces a snapshot to its k best candidates by score. Ties keep
// their snapshot order. The snapshot itself is not modified.
func TopK(snapshot []domain.Candidate, k int) domain.Frame {
	sorted := sortByScore(snapshot)

	n := min(len(sorted), max(k, 0))
	lines := make([]string, n)
	for i := range n {
		lines[i] = sorted[i].Display
	}

	return domain.Frame{
		Lines: lines,
		Extra: len(sorted) - n,
		Total: len(sorted),
	}
}

// RankAll returns every display text in TopK order
func RankAll(snapshot []domain.Candidate) []string {
	sorted := sortByScore(snapshot)
	lines := make([]string, len(sorted))
	for i, c := range sorted {
		lines[i] = c.Display
	}
	return lines
}

func sortByScore(snapshot []domain.Candidate) []domain.Candidate {
	sorted := slices.Clone(snapshot)
	slices.SortStableFunc(sorted, func(a, b domain.Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return sorted
}
