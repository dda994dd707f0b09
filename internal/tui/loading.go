package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// LoadingState is the spinner and message shown while a fetch is in flight.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState creates a loading indicator.
func NewLoadingState() *LoadingState {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(SelectedStyle),
	)
	return &LoadingState{spinner: s, message: "Loading…"}
}

// Start sets the message and returns the command that starts the spinner.
func (l *LoadingState) Start(message string) tea.Cmd {
	l.message = message
	return l.spinner.Tick
}

// Update advances the spinner.
func (l *LoadingState) Update(msg spinner.TickMsg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// Message returns the current loading message.
func (l *LoadingState) Message() string {
	return l.message
}

// View renders the spinner line.
func (l *LoadingState) View() string {
	return fmt.Sprintf("\n %s %s\n", l.spinner.View(), l.message)
}
