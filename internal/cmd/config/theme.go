package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/backoffice/internal/tui/styles"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Inspect color themes",
	Long: `Inspect the built-in color themes of the back office UI.

Select one with 'backoffice config set tui.theme <name>'.`,
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available themes",
	RunE:  runThemeList,
}

var themeInfoCmd = &cobra.Command{
	Use:   "info <theme-name>",
	Short: "Show the palette of a theme",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemeInfo,
}

func init() {
	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeInfoCmd)
	configCmd.AddCommand(themeCmd)
}

func runThemeList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Built-in themes:")
	for _, name := range styles.BuiltinThemes() {
		p := styles.GetPalette(styles.ThemeName(name))
		fmt.Fprintf(out, "  %-16s %s\n", name, swatches(p.Primary, p.Secondary, p.Warning, p.Error))
	}
	return nil
}

func runThemeInfo(cmd *cobra.Command, args []string) error {
	themeName := args[0]
	if !styles.IsValidTheme(themeName) {
		return fmt.Errorf("unknown theme: %s\n\nRun 'backoffice config theme list' to see available themes", themeName)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Theme: %s\n", themeName)
	if styles.IsLight(styles.ThemeName(themeName)) {
		fmt.Fprintln(out, "Background: light")
	} else {
		fmt.Fprintln(out, "Background: dark")
	}

	palette := styles.GetPalette(styles.ThemeName(themeName))
	colors := []struct {
		name  string
		color lipgloss.Color
	}{
		{"Primary", palette.Primary},
		{"Secondary", palette.Secondary},
		{"Warning", palette.Warning},
		{"Error", palette.Error},
		{"Muted", palette.Muted},
		{"Surface", palette.Surface},
		{"Text", palette.Text},
		{"Border", palette.Border},
		{"Active", palette.StatusActive},
		{"Inactive", palette.StatusInactive},
		{"Unknown", palette.StatusUnknown},
		{"Selection", palette.Selection},
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Colors:")
	for _, c := range colors {
		fmt.Fprintf(out, "  %-10s %s %s\n", c.name+":", swatches(c.color), c.color)
	}
	return nil
}

// swatches renders a colored block per color.
func swatches(colors ...lipgloss.Color) string {
	var sb strings.Builder
	for _, c := range colors {
		sb.WriteString(lipgloss.NewStyle().Foreground(c).Render("██"))
	}
	return sb.String()
}
