package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/backoffice/internal/config"
)

var screensCmd = &cobra.Command{
	Use:   "screens",
	Short: "List the configured screens",
	Args:  cobra.NoArgs,
	RunE:  runScreens,
}

func init() {
	rootCmd.AddCommand(screensCmd)
}

func runScreens(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	rows := make([][]string, 0, len(cfg.Screens))
	for i, s := range cfg.Screens {
		var flags []string
		if s.NaturalKey != "" {
			flags = append(flags, "key="+s.NaturalKey)
		}
		if s.ServerSearch {
			flags = append(flags, "server search")
		}
		if s.DefaultSort != "" {
			flags = append(flags, "sort="+s.DefaultSort)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Name,
			s.Title,
			"/" + s.ResourcePath(),
			strconv.Itoa(len(s.Columns)),
			strings.Join(flags, ", "),
		})
	}

	header := lipgloss.NewStyle().Bold(true).PaddingRight(2)
	cell := lipgloss.NewStyle().PaddingRight(2)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("#", "Name", "Title", "Path", "Columns", "Notes").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	_, err = fmt.Fprintln(cmd.OutOrStdout(), t.String())
	return err
}
