package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault        ThemeName = "default"         // Purple/green dark theme
	ThemeDracula        ThemeName = "dracula"         // Dracula theme colors
	ThemeNord           ThemeName = "nord"            // Nord theme - cool blue-gray
	ThemeMonokai        ThemeName = "monokai"         // Classic Monokai editor colors
	ThemeSolarizedLight ThemeName = "solarized-light" // Solarized Light variant
)

// BuiltinThemes returns all built-in theme names.
func BuiltinThemes() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeDracula),
		string(ThemeNord),
		string(ThemeMonokai),
		string(ThemeSolarizedLight),
	}
}

// IsValidTheme checks if a theme name is a built-in theme.
func IsValidTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// ColorPalette defines the colors used by a theme.
type ColorPalette struct {
	// Core colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
	Surface   lipgloss.Color
	Text      lipgloss.Color
	Border    lipgloss.Color

	// Record status colors
	StatusActive   lipgloss.Color
	StatusInactive lipgloss.Color
	StatusUnknown  lipgloss.Color

	// Selection highlight behind the cursor row
	Selection lipgloss.Color
}

// DefaultPalette returns the default purple/green theme.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
		Secondary: lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#F87171"), // Red (red-400)
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Surface:   lipgloss.Color("#1F2937"), // Dark surface
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500

		StatusActive:   lipgloss.Color("#10B981"),
		StatusInactive: lipgloss.Color("#F59E0B"),
		StatusUnknown:  lipgloss.Color("#9CA3AF"),

		Selection: lipgloss.Color("#374151"),
	}
}

// DraculaPalette returns the Dracula theme.
func DraculaPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#BD93F9"), // Dracula purple
		Secondary: lipgloss.Color("#50FA7B"), // Dracula green
		Warning:   lipgloss.Color("#F1FA8C"), // Dracula yellow
		Error:     lipgloss.Color("#FF5555"), // Dracula red
		Muted:     lipgloss.Color("#6272A4"), // Dracula comment
		Surface:   lipgloss.Color("#282A36"), // Dracula background
		Text:      lipgloss.Color("#F8F8F2"), // Dracula foreground
		Border:    lipgloss.Color("#44475A"), // Dracula selection

		StatusActive:   lipgloss.Color("#50FA7B"),
		StatusInactive: lipgloss.Color("#FFB86C"), // Dracula orange
		StatusUnknown:  lipgloss.Color("#6272A4"),

		Selection: lipgloss.Color("#44475A"),
	}
}

// NordPalette returns the Nord theme.
func NordPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#88C0D0"), // Nord frost (cyan)
		Secondary: lipgloss.Color("#A3BE8C"), // Nord aurora green
		Warning:   lipgloss.Color("#EBCB8B"), // Nord aurora yellow
		Error:     lipgloss.Color("#BF616A"), // Nord aurora red
		Muted:     lipgloss.Color("#4C566A"), // Nord polar night 3
		Surface:   lipgloss.Color("#2E3440"), // Nord polar night 0
		Text:      lipgloss.Color("#ECEFF4"), // Nord snow storm 2
		Border:    lipgloss.Color("#3B4252"), // Nord polar night 1

		StatusActive:   lipgloss.Color("#A3BE8C"),
		StatusInactive: lipgloss.Color("#D08770"), // Aurora orange
		StatusUnknown:  lipgloss.Color("#4C566A"),

		Selection: lipgloss.Color("#434C5E"),
	}
}

// MonokaiPalette returns the Monokai theme.
func MonokaiPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#F92672"), // Monokai pink/magenta
		Secondary: lipgloss.Color("#A6E22E"), // Monokai green
		Warning:   lipgloss.Color("#E6DB74"), // Monokai yellow
		Error:     lipgloss.Color("#F92672"), // Monokai pink (same as primary)
		Muted:     lipgloss.Color("#75715E"), // Monokai comment gray
		Surface:   lipgloss.Color("#272822"), // Monokai background
		Text:      lipgloss.Color("#F8F8F2"), // Monokai foreground
		Border:    lipgloss.Color("#49483E"), // Monokai selection

		StatusActive:   lipgloss.Color("#A6E22E"),
		StatusInactive: lipgloss.Color("#FD971F"), // Monokai orange
		StatusUnknown:  lipgloss.Color("#75715E"),

		Selection: lipgloss.Color("#49483E"),
	}
}

// SolarizedLightPalette returns the light Solarized variant.
func SolarizedLightPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#268BD2"), // Solarized blue
		Secondary: lipgloss.Color("#859900"), // Solarized green
		Warning:   lipgloss.Color("#B58900"), // Solarized yellow
		Error:     lipgloss.Color("#DC322F"), // Solarized red
		Muted:     lipgloss.Color("#93A1A1"), // Base1
		Surface:   lipgloss.Color("#FDF6E3"), // Base3 background
		Text:      lipgloss.Color("#657B83"), // Base00 text
		Border:    lipgloss.Color("#EEE8D5"), // Base2

		StatusActive:   lipgloss.Color("#859900"),
		StatusInactive: lipgloss.Color("#CB4B16"), // Solarized orange
		StatusUnknown:  lipgloss.Color("#93A1A1"),

		Selection: lipgloss.Color("#EEE8D5"),
	}
}

// GetPalette returns the palette for the given theme name, falling back to
// the default palette for unknown names.
func GetPalette(name ThemeName) *ColorPalette {
	switch name {
	case ThemeDracula:
		return DraculaPalette()
	case ThemeNord:
		return NordPalette()
	case ThemeMonokai:
		return MonokaiPalette()
	case ThemeSolarizedLight:
		return SolarizedLightPalette()
	default:
		return DefaultPalette()
	}
}

// IsLight reports whether the theme has a light background. The markdown
// renderer picks its style from it.
func IsLight(name ThemeName) bool {
	return name == ThemeSolarizedLight
}
