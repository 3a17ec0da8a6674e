package ui

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"fuzzwalk/internal/domain"
	"fuzzwalk/internal/logic"
	"fuzzwalk/internal/ui/views"
)

// TUIModel is the bubbletea model showing the live top matches full-screen
type TUIModel struct {
	source   logic.CandidateSource
	k        int
	interval time.Duration
	root     string
	query    string
	cancel   context.CancelFunc

	done     *Signal
	spinner  spinner.Model
	styles   *views.Styles
	frame    domain.Frame
	finished bool
	width    int
}

// NewTUIModel creates the model. cancel is called when the user interrupts.
func NewTUIModel(source logic.CandidateSource, k int, refreshHz float64, root, query string, cancel context.CancelFunc) TUIModel {
	styles := views.NewStyles()
	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Spinner))
	return TUIModel{
		source:   source,
		k:        k,
		interval: time.Duration(float64(time.Second) / refreshHz),
		root:     root,
		query:    query,
		cancel:   cancel,
		spinner:  s,
		styles:   styles,
	}
}

func (m TUIModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll())
}

func (m TUIModel) poll() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return m.snapshot()
	})
}

// snapshot reads the signal before the store, so a done frame holds every match
func (m TUIModel) snapshot() frameMsg {
	done := m.done != nil && m.done.Raised()
	return frameMsg{frame: logic.TopK(m.source.Snapshot(), m.k), done: done}
}

func (m TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = msg.frame
		if msg.done {
			m.finished = true
			return m, tea.Quit
		}
		return m, m.poll()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m TUIModel) View() string {
	var b strings.Builder

	if m.finished {
		b.WriteString(m.styles.Done.Render("✓"))
	} else {
		b.WriteString(m.spinner.View())
	}
	b.WriteString(" ")
	b.WriteString(m.styles.Title.Render("fuzzwalk"))
	b.WriteString(" ")
	b.WriteString(m.styles.Query.Render(m.query))
	b.WriteString(m.styles.Dim.Render(" in "))
	b.WriteString(m.styles.Scan.Render(m.root))
	b.WriteString("\n\n")

	for _, line := range m.frame.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Dim.Render(moreMatches(m.frame.Extra)))
	b.WriteString("\n")

	return m.styles.Main.Render(b.String())
}

// TUIRenderer runs TUIModel as a bubbletea program until the search is done
type TUIRenderer struct {
	model TUIModel
	opts  []tea.ProgramOption
}

// NewTUIRenderer wraps model; opts are passed to tea.NewProgram
func NewTUIRenderer(model TUIModel, opts ...tea.ProgramOption) *TUIRenderer {
	return &TUIRenderer{model: model, opts: opts}
}

// Run blocks until the program quits, which it does once done is raised
func (r *TUIRenderer) Run(done *Signal) {
	model := r.model
	model.done = done

	p := tea.NewProgram(model, r.opts...)
	if _, err := p.Run(); err != nil {
		log.Printf("TUI exited with error: %v", err)
	}
}
