package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/backoffice/internal/errors"
	"github.com/Iron-Ham/backoffice/internal/listctl"
	"github.com/Iron-Ham/backoffice/internal/query"
	"github.com/Iron-Ham/backoffice/internal/record"
)

var listCmd = &cobra.Command{
	Use:   "list <screen>",
	Short: "Print one page of a screen",
	Long: `Print one page of a screen without opening the UI. The page is loaded,
searched and sorted exactly as the interactive list would show it.

Examples:
  backoffice list categories
  backoffice list bookings --page 3 --limit 20
  backoffice list faqs --query shipping --sort position:asc
  backoffice list permissions --output json`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeScreens,
	RunE:              runList,
}

var (
	listPage   int
	listLimit  int
	listQuery  string
	listSort   string
	listOutput string
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "page number")
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 0, "rows per page (default: list.default_limit)")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "search term")
	listCmd.Flags().StringVarP(&listSort, "sort", "s", "", "sort column, e.g. name or price:desc")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "output format: table, json or yaml")
}

// listResult is the machine-readable form of one page.
type listResult struct {
	Screen       string              `json:"screen" yaml:"screen"`
	Page         int                 `json:"page" yaml:"page"`
	Limit        int                 `json:"limit" yaml:"limit"`
	TotalPages   int                 `json:"totalPages" yaml:"total_pages"`
	TotalRecords int                 `json:"totalRecords" yaml:"total_records"`
	Query        string              `json:"query,omitempty" yaml:"query,omitempty"`
	Sort         string              `json:"sort,omitempty" yaml:"sort,omitempty"`
	Rows         []map[string]string `json:"rows" yaml:"rows"`
}

func runList(cmd *cobra.Command, args []string) error {
	switch listOutput {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (use table, json or yaml)", listOutput)
	}

	rt, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	ctl, err := rt.NewController(args[0], nil)
	if err != nil {
		return err
	}
	defer ctl.Close()

	ctx := cmd.Context()
	if err := settle(ctx, ctl, ctl.Init()); err != nil {
		return err
	}
	if listLimit > 0 && listLimit != ctl.View().Page.Limit {
		if !slices.Contains(ctl.LimitOptions(), listLimit) {
			return fmt.Errorf("limit must be one of %v", ctl.LimitOptions())
		}
		if err := settle(ctx, ctl, ctl.OnLimitChange(listLimit)); err != nil {
			return err
		}
	}
	// Searching returns to page 1, so it comes before the page change.
	if listQuery != "" {
		if err := settle(ctx, ctl, ctl.OnSearchChange(listQuery)); err != nil {
			return err
		}
	}
	if listPage != 1 {
		p := ctl.View().Page
		if !p.InRange(listPage) {
			return fmt.Errorf("page %d is out of range (1-%d)", listPage, p.TotalPages)
		}
		if err := settle(ctx, ctl, ctl.OnPageChange(listPage)); err != nil {
			return err
		}
	}
	if listSort != "" {
		if err := applySort(ctl, listSort); err != nil {
			return err
		}
	}

	v := ctl.View()
	if v.ListErr != nil {
		return errors.Wrapf(v.ListErr, "loading %s", args[0])
	}

	out := cmd.OutOrStdout()
	switch listOutput {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(pageResult(ctl, v))
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(pageResult(ctl, v))
	}
	return printTable(out, ctl, v)
}

// applySort toggles the sort column until it reaches spec. The controller
// only exposes the operator's toggle, which cycles desc and asc.
func applySort(ctl *listctl.Controller, s string) error {
	spec, err := query.ParseSort(s)
	if err != nil {
		return err
	}
	if !ctl.Engine().Sortable(spec.Key) {
		return fmt.Errorf("column %q is not sortable", spec.Key)
	}
	for range 2 {
		if ctl.View().Sort == spec {
			return nil
		}
		ctl.OnSortToggle(spec.Key)
	}
	return nil
}

func pageResult(ctl *listctl.Controller, v listctl.View) listResult {
	cols := ctl.Schema().Columns
	res := listResult{
		Screen:       ctl.Schema().Name,
		Page:         v.Page.Page,
		Limit:        v.Page.Limit,
		TotalPages:   v.Page.TotalPages,
		TotalRecords: v.Page.TotalRecords,
		Query:        v.Term,
		Rows:         make([]map[string]string, 0, len(v.Rows)),
	}
	if v.Sort.Key != "" {
		res.Sort = v.Sort.Key + ":" + string(v.Sort.Direction)
	}
	for _, rec := range v.Rows {
		row := make(map[string]string, len(cols)+1)
		row["id"] = rec.ID
		for _, c := range cols {
			row[c.Key] = cellValue(ctl.Engine(), rec, c.Key)
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

// printTable renders the page as a bordered table sized to the terminal.
func printTable(w io.Writer, ctl *listctl.Controller, v listctl.View) error {
	schema := ctl.Schema()
	headers := make([]string, 0, len(schema.Columns))
	for _, c := range schema.Columns {
		title := c.Title
		if v.Sort.Key == c.Key {
			title += " " + sortArrow(v.Sort.Direction)
		}
		headers = append(headers, title)
	}

	rows := make([][]string, 0, len(v.Rows))
	for _, rec := range v.Rows {
		row := make([]string, 0, len(schema.Columns))
		for _, c := range schema.Columns {
			row = append(row, strings.ReplaceAll(cellValue(ctl.Engine(), rec, c.Key), "\n", " "))
		}
		rows = append(rows, row)
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1).MaxHeight(1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	if width, ok := terminalWidth(); ok {
		t = t.Width(width)
	}

	if len(v.Rows) == 0 {
		if v.Term != "" {
			_, err := fmt.Fprintf(w, "No matches for %q on page %d.\n", v.Term, v.Page.Page)
			return err
		}
		_, err := fmt.Fprintln(w, "No records.")
		return err
	}
	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s · page %d of %d · %d per page\n",
		pageSummary(v.Page), v.Page.Page, max(v.Page.TotalPages, 1), v.Page.Limit)
	return err
}

func pageSummary(p listctl.PageState) string {
	if p.TotalRecords == 0 {
		return "No records"
	}
	return fmt.Sprintf("Showing %d-%d of %d", p.StartRow(), p.EndRow(), p.TotalRecords)
}

func sortArrow(d query.Direction) string {
	if d == query.Desc {
		return "▼"
	}
	return "▲"
}

// terminalWidth reports the width of stdout when it is a terminal.
func terminalWidth() (int, bool) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, false
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 0, false
	}
	return w, true
}

// cellValue renders a column the way the interactive list shows it.
func cellValue(engine *query.Engine, rec record.Record, key string) string {
	if f, ok := engine.Field(key); ok && f.Display != nil {
		return f.Display(rec)
	}
	return rec.Text(key)
}
