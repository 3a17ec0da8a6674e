package matcher

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"fuzzwalk/internal/config"
)

// Decorator marks matched positions of a text for display
type Decorator interface {
	Decorate(text string, positions []int) string
}

// Highlighter renders matched runes in bold red
type Highlighter struct {
	style lipgloss.Style
}

// NewHighlighter creates a Highlighter for the given color profile.
// With termenv.Ascii the output is the undecorated text.
func NewHighlighter(profile termenv.Profile) *Highlighter {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)
	return &Highlighter{
		style: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// Decorate styles each run of consecutive matched runes as one span
func (h *Highlighter) Decorate(text string, positions []int) string {
	if len(positions) == 0 {
		return text
	}

	matched := make(map[int]bool, len(positions))
	for _, p := range positions {
		matched[p] = true
	}

	var b strings.Builder
	var run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			b.WriteString(h.style.Render(run.String()))
			run.Reset()
		}
	}

	i := 0
	for _, r := range text {
		if matched[i] {
			run.WriteRune(r)
		} else {
			flush()
			b.WriteRune(r)
		}
		i++
	}
	flush()
	return b.String()
}

// ColorProfile picks the termenv profile for a color mode. Auto honours
// NO_COLOR and falls back to no color when w is not a terminal.
func ColorProfile(mode string, w io.Writer) termenv.Profile {
	switch mode {
	case config.ColorAlways:
		return termenv.ANSI
	case config.ColorNever:
		return termenv.Ascii
	default:
		return termenv.NewOutput(w).EnvColorProfile()
	}
}
