package search

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/muesli/termenv"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuzzwalk/internal/logic"
	"fuzzwalk/internal/matcher"
	"fuzzwalk/internal/ui"
)

const (
	testRoot    = "/tree"
	clearScreen = "\x1b[2J\x1b[1;1H"
)

type lockedFs struct {
	afero.Fs
	locked string
}

func (f lockedFs) Open(name string) (afero.File, error) {
	if filepath.Clean(name) == f.locked {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return f.Fs.Open(name)
}

func newTree(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for _, f := range files {
		path := filepath.Join(testRoot, f)
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fsys, path, nil, 0644))
	}
	return fsys
}

func options(fsys afero.Fs, query string, out *bytes.Buffer) Options {
	return Options{
		Fs:        fsys,
		Scorer:    matcher.NewFuzzyScorer(query),
		Decorator: matcher.NewHighlighter(termenv.Ascii),
		Out:       out,
		Query:     query,
		Root:      testRoot,
		Workers:   4,
	}
}

func TestRunEndToEndScenario(t *testing.T) {
	fsys := newTree(t, "a/file1.txt", "a/foo.txt", "b/bar.log")
	var out bytes.Buffer

	result, err := New(options(fsys, "fo", &out)).Run(context.Background())
	require.NoError(t, err)

	sep := string(filepath.Separator)
	expected := "." + sep + "a" + sep + "foo.txt"
	assert.Equal(t, []string{expected}, result.Frame.Lines)
	assert.Zero(t, result.Frame.Extra)
	assert.Equal(t, clearScreen+expected+"\n... 0 more matches\n", out.String())
}

func TestRunNoMatches(t *testing.T) {
	fsys := newTree(t, "a/file1.txt")
	var out bytes.Buffer

	result, err := New(options(fsys, "zzz", &out)).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Frame.Lines)
	assert.Equal(t, clearScreen+"... 0 more matches\n", out.String())
}

func TestRunBoundsDisplayedMatches(t *testing.T) {
	var files []string
	for i := 0; i < 25; i++ {
		files = append(files, fmt.Sprintf("d%d/match%02d.txt", i%3, i))
	}
	var out bytes.Buffer

	opts := options(newTree(t, files...), "match", &out)
	opts.Top = 10
	result, err := New(opts).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Matches, 25)
	assert.Len(t, result.Frame.Lines, 10)
	assert.Equal(t, 15, result.Frame.Extra)
	assert.True(t, strings.HasSuffix(out.String(), "... 15 more matches\n"))
}

func TestRunVerboseReportsUnreadableDirectoryOnce(t *testing.T) {
	for _, verbose := range []bool{true, false} {
		t.Run(fmt.Sprintf("verbose=%v", verbose), func(t *testing.T) {
			base := newTree(t, "one/note.txt", "locked/note.txt", "two/note.txt")
			fsys := lockedFs{Fs: base, locked: filepath.Join(testRoot, "locked")}

			var out, diag bytes.Buffer
			opts := options(fsys, "note", &out)
			opts.Diagnostics = &diag
			opts.Verbose = verbose

			result, err := New(opts).Run(context.Background())
			require.NoError(t, err)
			assert.Len(t, result.Matches, 2)

			if verbose {
				assert.Equal(t, 1, strings.Count(diag.String(), "\n"))
				assert.Contains(t, diag.String(), filepath.Join(testRoot, "locked"))
			} else {
				assert.Empty(t, diag.String())
			}
		})
	}
}

// countingRenderer records how many candidates it saw when the signal arrived
type countingRenderer struct {
	source logic.CandidateSource
	mu     sync.Mutex
	seen   int
	ran    bool
}

func (r *countingRenderer) Run(done *ui.Signal) {
	<-done.Done()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ran = true
	r.seen = r.source.Len()
}

func TestRunRaisesSignalAfterTraversal(t *testing.T) {
	var files []string
	for i := 0; i < 40; i++ {
		files = append(files, fmt.Sprintf("x%d/y/item%d", i%5, i))
	}
	var out bytes.Buffer
	opts := options(newTree(t, files...), "item", &out)

	var renderer *countingRenderer
	opts.NewRenderer = func(source logic.CandidateSource) ui.Renderer {
		renderer = &countingRenderer{source: source}
		return renderer
	}

	result, err := New(opts).Run(context.Background())
	require.NoError(t, err)

	renderer.mu.Lock()
	defer renderer.mu.Unlock()
	assert.True(t, renderer.ran, "Run waits for the renderer to exit")
	assert.Equal(t, 40, renderer.seen, "the signal is raised only after every match is stored")
	assert.Len(t, result.Matches, 40)
}

func TestRunWithLiveRendererEndsWithFinalFrame(t *testing.T) {
	fsys := newTree(t, "a/foo.txt", "b/food.txt", "c/other.txt")
	var out bytes.Buffer
	opts := options(fsys, "foo", &out)
	opts.NewRenderer = func(source logic.CandidateSource) ui.Renderer {
		return ui.NewLiveRenderer(&out, source, logic.DefaultTopK, 1000)
	}

	result, err := New(opts).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Frame.Lines, 2)

	final := clearScreen + strings.Join(result.Frame.Lines, "\n") + "\n... 0 more matches\n"
	assert.True(t, strings.HasSuffix(out.String(), final))
}

func TestRunCancelledStillRenders(t *testing.T) {
	fsys := newTree(t, "a/foo.txt")
	var out bytes.Buffer

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(options(fsys, "foo", &out)).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Contains(t, out.String(), "... 0 more matches")
}
