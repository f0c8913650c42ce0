package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/backoffice/internal/app"
	"github.com/Iron-Ham/backoffice/internal/errors"
	"github.com/Iron-Ham/backoffice/internal/record"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show record counts for every screen",
	Long: `Load the first page of every configured screen concurrently and report
the total record count, page count and how many rows on the first page are
active.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var (
	statsJSON        bool // Output as JSON
	statsConcurrency int
)

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output statistics as JSON")
	statsCmd.Flags().IntVar(&statsConcurrency, "concurrency", 4, "screens loaded at once")
	rootCmd.AddCommand(statsCmd)
}

// screenStats is what stats reports for one screen.
type screenStats struct {
	index int

	Screen       string        `json:"screen"`
	TotalRecords int           `json:"totalRecords"`
	TotalPages   int           `json:"totalPages"`
	FirstPage    int           `json:"firstPageRows"`
	Active       int           `json:"firstPageActive"`
	Elapsed      time.Duration `json:"elapsedNs"`
	Error        string        `json:"error,omitempty"`
}

func runStats(cmd *cobra.Command, args []string) error {
	rt, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	stats, err := collectStats(cmd.Context(), rt, max(statsConcurrency, 1))
	if err != nil {
		return err
	}

	if statsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	return printStatsText(cmd.OutOrStdout(), stats, rt.Offline())
}

// collectStats loads page 1 of every screen with at most limit screens in
// flight. A failing screen is reported in its row and does not stop the
// others; only an authentication failure aborts the run.
func collectStats(ctx context.Context, rt *app.Runtime, limit int) ([]screenStats, error) {
	p := pool.NewWithResults[screenStats]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(limit)

	for i, s := range rt.Screens() {
		name := s.Schema.Name
		p.Go(func(ctx context.Context) (screenStats, error) {
			st := screenStats{index: i, Screen: name}
			ctl, err := rt.NewController(name, nil)
			if err != nil {
				return st, err
			}
			defer ctl.Close()

			start := time.Now()
			err = settle(ctx, ctl, ctl.Init())
			st.Elapsed = time.Since(start)
			if err != nil {
				return st, errors.Wrap(err, name)
			}

			v := ctl.View()
			if v.ListErr != nil {
				if errors.IsAuth(v.ListErr) {
					return st, errors.Wrap(v.ListErr, name)
				}
				st.Error = errors.Describe(v.ListErr)
				return st, nil
			}
			st.TotalRecords = v.Page.TotalRecords
			st.TotalPages = v.Page.TotalPages
			st.FirstPage = len(v.Rows)
			for _, r := range v.Rows {
				if r.Status == record.StatusActive {
					st.Active++
				}
			}
			return st, nil
		})
	}

	stats, err := p.Wait()
	if err != nil {
		return nil, err
	}
	slices.SortFunc(stats, func(a, b screenStats) int { return a.index - b.index })
	return stats, nil
}

func printStatsText(w io.Writer, stats []screenStats, offline bool) error {
	var sb strings.Builder

	// Header
	sb.WriteString("\nSCREENS")
	if offline {
		sb.WriteString(" (offline sample data)")
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", 64))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%-20s %10s %7s %14s %9s\n", "Screen", "Records", "Pages", "Active (p.1)", "Latency")

	total := 0
	for _, st := range stats {
		if st.Error != "" {
			fmt.Fprintf(&sb, "%-20s %s\n", st.Screen, "error: "+st.Error)
			continue
		}
		total += st.TotalRecords
		fmt.Fprintf(&sb, "%-20s %10s %7d %14s %9s\n",
			st.Screen,
			humanize.Comma(int64(st.TotalRecords)),
			st.TotalPages,
			fmt.Sprintf("%d/%d", st.Active, st.FirstPage),
			st.Elapsed.Round(time.Millisecond))
	}

	sb.WriteString(strings.Repeat("─", 64))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%-20s %10s\n", "Total", humanize.Comma(int64(total)))

	_, err := io.WriteString(w, sb.String())
	return err
}
