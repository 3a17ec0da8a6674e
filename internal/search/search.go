// Package search runs one fuzzy name search: it walks the tree on the
// calling goroutine while a renderer shows partial results, then prints the
// final ranking once every entry has been visited.
package search

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"

	"fuzzwalk/internal/discovery"
	"fuzzwalk/internal/domain"
	"fuzzwalk/internal/eventbus"
	"fuzzwalk/internal/logic"
	"fuzzwalk/internal/matcher"
	"fuzzwalk/internal/ui"
)

// RendererFactory builds the live renderer for a search's match store
type RendererFactory func(source logic.CandidateSource) ui.Renderer

// Options configures a Searcher
type Options struct {
	Fs          afero.Fs
	Bus         eventbus.EventBus
	Scorer      matcher.Scorer
	Decorator   matcher.Decorator
	Out         io.Writer       // final render
	Diagnostics io.Writer       // verbose reports; nil discards them
	NewRenderer RendererFactory // nil disables live rendering

	Query   string
	Root    string
	Top     int
	Workers int
	Exclude []string
	Verbose bool
}

// Result is the outcome of one search
type Result struct {
	Frame   domain.Frame
	Matches []domain.Candidate
	Elapsed time.Duration
}

// Searcher runs searches. Each Run owns a fresh store and signal.
type Searcher struct {
	opts Options
}

// New creates a Searcher
func New(opts Options) *Searcher {
	if opts.Bus == nil {
		opts.Bus = eventbus.New()
	}
	if opts.Top < 1 {
		opts.Top = logic.DefaultTopK
	}
	return &Searcher{opts: opts}
}

// Run performs the search. The final frame is always rendered, even when
// ctx is cancelled part way; the context error is then returned with the
// partial result.
func (s *Searcher) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	store := logic.NewMatchStore()
	done := ui.NewSignal()

	if s.opts.Verbose && s.opts.Diagnostics != nil {
		unsubscribe := ui.NewDiagnosticsReporter(s.opts.Diagnostics, s.opts.Bus)
		defer unsubscribe()
	}

	rendered := make(chan struct{})
	if s.opts.NewRenderer != nil {
		renderer := s.opts.NewRenderer(store)
		go func() {
			defer close(rendered)
			renderer.Run(done)
		}()
	} else {
		close(rendered)
	}

	walker := discovery.NewWalker(s.opts.Fs, s.opts.Scorer, s.opts.Decorator, store, s.opts.Bus, discovery.Options{
		Workers: s.opts.Workers,
		Exclude: s.opts.Exclude,
	})
	walkErr := walker.Walk(ctx, s.opts.Root)

	// Walk has returned, so every candidate is in the store
	done.Raise()
	<-rendered

	matches := store.Snapshot()
	frame := logic.TopK(matches, s.opts.Top)
	if err := ui.FinalRender(s.opts.Out, frame); err != nil {
		return nil, fmt.Errorf("failed to write results: %w", err)
	}

	s.opts.Bus.Publish(domain.SearchFinishedEvent{Query: s.opts.Query, Matches: len(matches)})

	return &Result{
		Frame:   frame,
		Matches: matches,
		Elapsed: time.Since(start),
	}, walkErr
}
