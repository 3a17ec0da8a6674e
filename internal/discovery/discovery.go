// Package discovery walks a directory tree in parallel and feeds every entry
// whose name matches the query into a candidate sink.
package discovery

import (
	"context"
	"path/filepath"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"fuzzwalk/internal/domain"
	"fuzzwalk/internal/eventbus"
	"fuzzwalk/internal/logic"
	"fuzzwalk/internal/matcher"
)

// Options configures a Walker
type Options struct {
	Workers int      // goroutines walking at once, the caller included
	Exclude []string // base names that are neither scored nor descended
}

// Walker visits every entry under a root exactly once, scoring each by name
type Walker struct {
	fs        afero.Fs
	scorer    matcher.Scorer
	decorator matcher.Decorator
	sink      logic.CandidateSink
	bus       eventbus.EventBus
	workers   int
	exclude   map[string]bool
}

// NewWalker creates a walker listing directories through fsys
func NewWalker(fsys afero.Fs, scorer matcher.Scorer, decorator matcher.Decorator, sink logic.CandidateSink, bus eventbus.EventBus, opts Options) *Walker {
	exclude := make(map[string]bool, len(opts.Exclude))
	for _, name := range opts.Exclude {
		exclude[name] = true
	}
	return &Walker{
		fs:        fsys,
		scorer:    scorer,
		decorator: decorator,
		sink:      sink,
		bus:       bus,
		workers:   max(opts.Workers, 1),
		exclude:   exclude,
	}
}

// scan holds the state of one Walk call
type scan struct {
	*Walker
	ctx   context.Context
	root  string
	group errgroup.Group

	directories atomic.Int64
	entries     atomic.Int64
	unreadable  atomic.Int64
	skipped     atomic.Int64
}

// Walk traverses root and returns once every descendant has been processed.
// Unreadable directories are reported on the bus and skipped. The only error
// returned is the context's, when the walk was cancelled.
func (w *Walker) Walk(ctx context.Context, root string) error {
	s := &scan{Walker: w, ctx: ctx, root: filepath.Clean(root)}
	// The calling goroutine walks too
	s.group.SetLimit(w.workers - 1)

	w.bus.Publish(domain.ScanStartedEvent{Root: s.root, Workers: w.workers})

	s.visitDir(s.root)
	_ = s.group.Wait()

	err := ctx.Err()
	w.bus.Publish(domain.ScanCompletedEvent{
		Root: s.root,
		Stats: domain.ScanStats{
			Directories: int(s.directories.Load()),
			Entries:     int(s.entries.Load()),
			Unreadable:  int(s.unreadable.Load()),
			Skipped:     int(s.skipped.Load()),
		},
		Err: err,
	})
	return err
}

// spawn runs fn on a pool goroutine, or inline when the pool is full
func (s *scan) spawn(fn func()) {
	if !s.group.TryGo(func() error {
		fn()
		return nil
	}) {
		fn()
	}
}

func (s *scan) visitDir(dir string) {
	if s.ctx.Err() != nil {
		return
	}

	children, err := s.listChildren(dir)
	if err != nil {
		s.unreadable.Add(1)
		s.bus.Publish(domain.DirectoryUnreadableEvent{Path: dir, Err: err})
		return
	}
	s.directories.Add(1)

	for _, entry := range children {
		if s.exclude[entry.Name] {
			continue
		}
		if !utf8.ValidString(entry.Name) {
			s.skipped.Add(1)
			s.bus.Publish(domain.EntrySkippedEvent{Path: entry.Path, Reason: "name is not valid UTF-8"})
			continue
		}
		s.entries.Add(1)

		s.check(entry)

		if entry.IsDir {
			path := entry.Path
			s.spawn(func() { s.visitDir(path) })
		}
	}
}

func (s *scan) listChildren(dir string) ([]domain.Entry, error) {
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.Entry, len(infos))
	for i, info := range infos {
		entries[i] = domain.Entry{
			Path:  filepath.Join(dir, info.Name()),
			Name:  info.Name(),
			IsDir: info.IsDir(),
		}
	}
	return entries, nil
}

// check scores one entry and appends a candidate when it matches
func (s *scan) check(entry domain.Entry) {
	m, ok := s.scorer.Score(entry.Name)
	if !ok {
		return
	}

	rel, err := filepath.Rel(s.root, entry.Path)
	if err != nil {
		rel = entry.Path
	}
	s.sink.Append(domain.Candidate{
		Score:   m.Score,
		Path:    rel,
		IsDir:   entry.IsDir,
		Display: FormatDisplay(rel, s.decorator.Decorate(entry.Name, m.Positions), entry.IsDir),
	})
}

// FormatDisplay builds the text shown for a match: "./parent/name", with a
// trailing separator for directories. rel is relative to the scan root and
// name is the decorated base name.
func FormatDisplay(rel, name string, isDir bool) string {
	sep := string(filepath.Separator)

	var b strings.Builder
	b.WriteString(".")
	b.WriteString(sep)
	if parent := filepath.Dir(rel); parent != "." {
		b.WriteString(parent)
		b.WriteString(sep)
	}
	b.WriteString(name)
	if isDir {
		b.WriteString(sep)
	}
	return b.String()
}
