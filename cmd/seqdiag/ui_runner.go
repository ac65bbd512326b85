package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"seqdiag/internal/driver"
	"seqdiag/internal/ui"
)

// runProgressUI blocks until events is closed. If the view exits early the
// rest of the events are drained so the producer never blocks.
func runProgressUI(title string, files []string, events <-chan driver.Event) error {
	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, err := program.Run()
	for range events {
	}
	return err
}
