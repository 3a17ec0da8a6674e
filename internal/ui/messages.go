package ui

import (
	"fuzzwalk/internal/domain"
)

// frameMsg carries a freshly ranked frame into the TUI
type frameMsg struct {
	frame domain.Frame
	done  bool // traversal had finished before the snapshot was taken
}
