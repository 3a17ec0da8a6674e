// Package matcher scores entry names against a query and decorates the
// matched characters for display.
package matcher

import (
	"slices"
	"sync"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Slab sizes for the fzf scoring matrix. File names are short, so these are
// smaller than fzf's own defaults; longer names fall back to the greedy algorithm.
const (
	slab16Size = 16 * 1024
	slab32Size = 2048
)

var initOnce sync.Once

// Match is a successful scoring result
type Match struct {
	Score     int
	Positions []int // matched rune indices in ascending order
}

// Scorer decides whether a name matches the query, how well, and where
type Scorer interface {
	Score(name string) (Match, bool)
}

// FuzzyScorer is a Scorer backed by fzf's subsequence matcher.
// Safe for concurrent use.
type FuzzyScorer struct {
	pattern       []rune
	caseSensitive bool
	slabs         sync.Pool
}

// NewFuzzyScorer builds a scorer for query using smart case: an all-lowercase
// query matches case-insensitively, any uppercase rune makes it case-sensitive.
func NewFuzzyScorer(query string) *FuzzyScorer {
	initOnce.Do(func() {
		algo.Init("path")
	})

	pattern := []rune(query)
	caseSensitive := slices.ContainsFunc(pattern, unicode.IsUpper)
	if !caseSensitive {
		for i, r := range pattern {
			pattern[i] = unicode.ToLower(r)
		}
	}

	s := &FuzzyScorer{
		pattern:       pattern,
		caseSensitive: caseSensitive,
	}
	s.slabs.New = func() any {
		return util.MakeSlab(slab16Size, slab32Size)
	}
	return s
}

// Score matches name against the query
func (s *FuzzyScorer) Score(name string) (Match, bool) {
	slab := s.slabs.Get().(*util.Slab)
	defer s.slabs.Put(slab)

	chars := util.ToChars([]byte(name))
	result, pos := algo.FuzzyMatchV2(s.caseSensitive, false, true, &chars, s.pattern, true, slab)
	if result.Start < 0 {
		return Match{}, false
	}

	var positions []int
	if pos != nil {
		// The slab is reused, so the positions must be copied out
		positions = slices.Clone(*pos)
		slices.Sort(positions)
	}
	return Match{Score: result.Score, Positions: positions}, true
}
