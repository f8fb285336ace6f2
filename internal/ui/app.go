package ui

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	seekerr "github.com/docuseek/docuseek/internal/errors"
)

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Run starts the interactive frontend and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	if !IsTTY(os.Stdout) {
		return seekerr.New(seekerr.ErrCodeInvalidInput,
			"interactive mode requires a terminal", nil)
	}

	model := NewModel(ctx, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return seekerr.New(seekerr.ErrCodeInternal, "terminal UI failed", err)
	}
	return nil
}
