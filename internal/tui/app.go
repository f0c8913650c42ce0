// Package tui is the terminal front end: one tab per configured screen, each
// driven by its own list controller.
package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/backoffice/internal/app"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	mouse   bool
}

// New creates a new TUI application
func New(rt *app.Runtime, opts Options) (*App, error) {
	model, err := NewModel(rt, opts)
	if err != nil {
		return nil, err
	}
	return &App{model: model, mouse: rt.Config().TUI.Mouse}, nil
}

// Run starts the TUI application and blocks until it exits. An API
// credential failure ends the program and is returned.
func (a *App) Run(ctx context.Context) error {
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if a.mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	a.program = tea.NewProgram(a.model, opts...)

	// Quit cleanly on termination signals so controllers cancel their
	// requests before the process exits.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		if _, ok := <-sigChan; ok {
			a.program.Send(tea.Quit())
		}
	}()

	final, err := a.program.Run()
	signal.Stop(sigChan)
	close(sigChan)

	if m, ok := final.(Model); ok {
		m.Close()
		if m.Err() != nil {
			return m.Err()
		}
	} else {
		a.model.Close()
	}
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
