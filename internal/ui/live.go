package ui

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"

	"fuzzwalk/internal/domain"
	"fuzzwalk/internal/logic"
)

// Terminal control sequences
const (
	clearScreen = "\x1b[2J\x1b[1;1H"
	lineStart   = "\r"
)

// Renderer presents results while a search runs. Run returns once the
// renderer has stopped after done is raised.
type Renderer interface {
	Run(done *Signal)
}

// LiveRenderer redraws the top matches on a plain terminal whenever they
// change, and otherwise only rewrites the progress line.
type LiveRenderer struct {
	out     io.Writer
	source  logic.CandidateSource
	k       int
	limiter *rate.Limiter

	last []string // lines of the last full redraw
}

// NewLiveRenderer creates a renderer showing k matches, redrawing at most
// refreshHz times per second
func NewLiveRenderer(out io.Writer, source logic.CandidateSource, k int, refreshHz float64) *LiveRenderer {
	return &LiveRenderer{
		out:     out,
		source:  source,
		k:       k,
		limiter: rate.NewLimiter(rate.Limit(refreshHz), 1),
	}
}

// Run renders until done is raised
func (r *LiveRenderer) Run(done *Signal) {
	for {
		r.render()
		if done.Raised() {
			return
		}
		r.wait(done)
	}
}

// render draws one frame. A full redraw happens only when the visible
// lines differ from the last ones drawn.
func (r *LiveRenderer) render() {
	frame := logic.TopK(r.source.Snapshot(), r.k)

	if slices.Equal(frame.Lines, r.last) {
		_, _ = io.WriteString(r.out, lineStart+moreMatches(frame.Extra))
		return
	}

	var b strings.Builder
	b.WriteString(clearScreen)
	for _, line := range frame.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	_, _ = io.WriteString(r.out, b.String())
	r.last = frame.Lines
}

// wait blocks until the store changes or done is raised, then holds back
// to the refresh rate
func (r *LiveRenderer) wait(done *Signal) {
	select {
	case <-r.source.Updates():
	case <-done.Done():
		return
	}

	delay := r.limiter.Reserve().Delay()
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-done.Done():
	}
}

// FinalRender clears the terminal and prints the final frame followed by
// the count of matches not shown
func FinalRender(w io.Writer, frame domain.Frame) error {
	var b strings.Builder
	b.WriteString(clearScreen)
	for _, line := range frame.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(moreMatches(frame.Extra))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func moreMatches(extra int) string {
	return fmt.Sprintf("... %s more matches", humanize.Comma(int64(extra)))
}
