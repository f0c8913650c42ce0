package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/backoffice/internal/app"
	"github.com/Iron-Ham/backoffice/internal/config"
	"github.com/Iron-Ham/backoffice/internal/devserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the demo admin API",
	Long: `Run a local admin API that serves every configured screen from a SQLite
database. Empty resources are seeded with sample records whose shapes vary
the way real admin APIs do (_id vs id, wrapped dates, boolean statuses).

Point api.base_url at http://<addr>/api to browse it with the UI.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr    string
	serveDB      string
	serveRecords int
	serveNoSeed  bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database file, or :memory: (default: server.db_path)")
	serveCmd.Flags().IntVar(&serveRecords, "records", app.OfflineRecords, "sample records per empty resource")
	serveCmd.Flags().BoolVar(&serveNoSeed, "no-seed", false, "do not seed empty resources")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := app.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Close() }()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	dbPath := cfg.Server.DBPath
	if serveDB != "" {
		dbPath = serveDB
	}

	store, err := devserver.OpenStore(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// The server accepts the token the client is configured to send.
	srv := devserver.New(store, cfg.Screens, devserver.Options{
		Token:   cfg.API.Token,
		Metrics: cfg.Server.Metrics,
		Logger:  logger,
	})

	ctx := cmd.Context()
	if cfg.Server.Seed && !serveNoSeed && serveRecords > 0 {
		if err := srv.Seed(ctx, serveRecords); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Serving %d resources on http://%s/api (database: %s)\n", len(cfg.Screens), addr, dbPath)
	if cfg.Server.Metrics {
		fmt.Fprintf(out, "Metrics on http://%s/metrics\n", addr)
	}
	return srv.ListenAndServe(ctx, addr)
}
