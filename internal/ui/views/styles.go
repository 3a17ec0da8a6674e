package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the TUI
type Styles struct {
	Title   lipgloss.Style
	Query   lipgloss.Style
	Scan    lipgloss.Style
	Dim     lipgloss.Style
	Done    lipgloss.Style
	Main    lipgloss.Style
	Spinner lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Query:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // yellow
		Scan:    lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Dim:     lipgloss.NewStyle().Faint(true),
		Done:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")), // green
		Main:    lipgloss.NewStyle().Padding(1, 2),
		Spinner: lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
	}
}
