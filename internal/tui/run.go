package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ErrNotTerminal is returned by Run when stdout is not a terminal.
var ErrNotTerminal = errors.New("the interactive browser needs a terminal; run a subcommand such as 'scout apps' instead")

// Run starts the browser and blocks until the user quits. Pending fetches are
// cancelled on return.
func Run(ctx context.Context, f Fetcher, opts Options) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) { //nolint:gosec // Fd fits in int on supported platforms.
		return ErrNotTerminal
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewBrowser(ctx, f, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
