package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Iron-Ham/backoffice/internal/config"
	"github.com/Iron-Ham/backoffice/internal/event"
	"github.com/Iron-Ham/backoffice/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [screen]",
	Short: "Open the interactive back office",
	Long: `Open the interactive back office. Each configured screen gets a tab;
pass a screen name to start on it.

Use --offline to explore the UI with generated sample data.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeScreens,
	RunE:              runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the interactive UI needs a terminal; use 'backoffice list' for scripted output")
	}

	rt, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	screen := ""
	if len(args) > 0 {
		screen = args[0]
	}

	// Edits to the config file are announced; they apply on the next start.
	if path := viper.ConfigFileUsed(); path != "" {
		config.Watch(func(*config.Config) {
			rt.Bus().Publish(event.NewConfigReloadedEvent(path))
		}, func(err error) {
			logger.Warn("ignoring invalid config change", "path", path, "error", err)
		})
	}

	logger.Info("starting tui", "screen", screen, "offline", rt.Offline())
	ui, err := tui.New(rt, tui.Options{Screen: screen})
	if err != nil {
		return err
	}
	if err := ui.Run(cmd.Context()); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// completeScreens offers the configured screen names for shell completion.
func completeScreens(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return config.Get().ScreenNames(), cobra.ShellCompDirectiveNoFileComp
}
