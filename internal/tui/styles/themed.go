package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/backoffice/internal/record"
)

// ThemedStyles holds every style the list screens render with, built from a
// single ColorPalette.
type ThemedStyles struct {
	Name    ThemeName
	Palette ColorPalette

	// Text styles
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Text      lipgloss.Style

	Title       lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	// Table
	TableHeader       lipgloss.Style
	TableHeaderSorted lipgloss.Style
	Row               lipgloss.Style
	RowSelected       lipgloss.Style
	RowPending        lipgloss.Style

	// Row action menu
	Menu             lipgloss.Style
	MenuItem         lipgloss.Style
	MenuItemSelected lipgloss.Style

	// Overlays
	Dialog       lipgloss.Style
	DialogTitle  lipgloss.Style
	Detail       lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style

	// Form
	FormLabel        lipgloss.Style
	FormLabelFocused lipgloss.Style
	FormError        lipgloss.Style

	// Footer
	PageCurrent lipgloss.Style
	PageOther   lipgloss.Style
	StatusBar   lipgloss.Style
	HelpBar     lipgloss.Style
	SearchBar   lipgloss.Style
}

// NewThemedStyles creates a ThemedStyles from the given color palette.
func NewThemedStyles(name ThemeName, p *ColorPalette) *ThemedStyles {
	s := &ThemedStyles{Name: name, Palette: *p}

	s.Primary = lipgloss.NewStyle().Foreground(p.Primary)
	s.Secondary = lipgloss.NewStyle().Foreground(p.Secondary)
	s.Warning = lipgloss.NewStyle().Foreground(p.Warning)
	s.Error = lipgloss.NewStyle().Foreground(p.Error)
	s.Muted = lipgloss.NewStyle().Foreground(p.Muted)
	s.Text = lipgloss.NewStyle().Foreground(p.Text)

	s.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)

	s.TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Surface).
		Background(p.Primary).
		Padding(0, 2)

	s.TabInactive = lipgloss.NewStyle().
		Foreground(p.Muted).
		Padding(0, 2)

	s.TableHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Muted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(p.Border)

	s.TableHeaderSorted = s.TableHeader.
		Foreground(p.Primary)

	s.Row = lipgloss.NewStyle().
		Foreground(p.Text)

	s.RowSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text).
		Background(p.Selection)

	s.RowPending = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)

	s.Menu = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(0, 1)

	s.MenuItem = lipgloss.NewStyle().
		Foreground(p.Text).
		Padding(0, 1)

	s.MenuItemSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Surface).
		Background(p.Primary).
		Padding(0, 1)

	s.Dialog = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Warning).
		Padding(1, 2)

	s.DialogTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Warning).
		MarginBottom(1)

	s.Detail = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)

	s.ToastSuccess = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Surface).
		Background(p.Secondary).
		Padding(0, 1)

	s.ToastError = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text).
		Background(p.Error).
		Padding(0, 1)

	s.FormLabel = lipgloss.NewStyle().
		Foreground(p.Muted).
		Width(16)

	s.FormLabelFocused = s.FormLabel.
		Bold(true).
		Foreground(p.Primary)

	s.FormError = lipgloss.NewStyle().
		Foreground(p.Error).
		PaddingLeft(16)

	s.PageCurrent = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Surface).
		Background(p.Primary).
		Padding(0, 1)

	s.PageOther = lipgloss.NewStyle().
		Foreground(p.Muted).
		Padding(0, 1)

	s.StatusBar = lipgloss.NewStyle().
		Foreground(p.Text).
		Background(p.Surface).
		Padding(0, 1)

	s.HelpBar = lipgloss.NewStyle().
		Foreground(p.Muted).
		MarginTop(1)

	s.SearchBar = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(p.Primary).
		Padding(0, 1)

	return s
}

// StatusColor returns the color for a normalized record status.
func (s *ThemedStyles) StatusColor(st record.Status) lipgloss.Color {
	switch st {
	case record.StatusActive:
		return s.Palette.StatusActive
	case record.StatusInactive:
		return s.Palette.StatusInactive
	default:
		return s.Palette.StatusUnknown
	}
}

// StatusBadge renders a status as a colored icon followed by its name.
func (s *ThemedStyles) StatusBadge(st record.Status) string {
	return lipgloss.NewStyle().Foreground(s.StatusColor(st)).Render(StatusIcon(st) + " " + st.String())
}

// activeTheme holds the currently active themed styles.
var activeTheme = NewThemedStyles(ThemeDefault, DefaultPalette())

// SetActiveTheme switches the styles returned by Active.
//
// Note: This function is not thread-safe. It is designed to be called only
// from the Bubble Tea event loop, which runs on a single goroutine.
func SetActiveTheme(name ThemeName) {
	activeTheme = NewThemedStyles(name, GetPalette(name))
}

// Active returns the currently active themed styles.
func Active() *ThemedStyles {
	return activeTheme
}
