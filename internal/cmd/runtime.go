package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/backoffice/internal/app"
	"github.com/Iron-Ham/backoffice/internal/config"
	"github.com/Iron-Ham/backoffice/internal/listctl"
	"github.com/Iron-Ham/backoffice/internal/logging"
)

// defaultOfflineLatency keeps loading states visible in offline mode.
const defaultOfflineLatency = 150 * time.Millisecond

// loadRuntime reads the configuration and builds the runtime every command
// works against. The caller closes the returned logger.
func loadRuntime() (*app.Runtime, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := app.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	opts := app.Options{Offline: offlineMode}
	if offlineMode {
		opts.OfflineLatency = offlineLatency
	}
	rt, err := app.New(cfg, logger, opts)
	if err != nil {
		_ = logger.Close()
		return nil, nil, err
	}
	return rt, logger, nil
}

// settle runs cmd and every command it produces against ctl until the
// controller is idle. It stands in for the Bubble Tea runtime in headless
// commands.
func settle(ctx context.Context, ctl *listctl.Controller, cmd tea.Cmd) error {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case listctl.AuthErrorMsg:
			return msg
		default:
			if ctl.Owns(msg) {
				queue = append(queue, ctl.Update(msg))
			}
		}
	}
	return nil
}
