package styles

import (
	"slices"
	"testing"

	"github.com/Iron-Ham/backoffice/internal/config"
	"github.com/Iron-Ham/backoffice/internal/record"
)

func TestBuiltinThemesMatchConfig(t *testing.T) {
	got := slices.Clone(BuiltinThemes())
	want := slices.Clone(config.ValidThemes())
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("BuiltinThemes() = %v, config.ValidThemes() = %v", got, want)
	}
}

func TestIsValidTheme(t *testing.T) {
	tests := []struct {
		theme string
		want  bool
	}{
		{"default", true},
		{"dracula", true},
		{"solarized-light", true},
		{"gruvbox", false},
		{"", false},
		{"Default", false},
	}
	for _, tt := range tests {
		t.Run(tt.theme, func(t *testing.T) {
			if got := IsValidTheme(tt.theme); got != tt.want {
				t.Errorf("IsValidTheme(%q) = %v, want %v", tt.theme, got, tt.want)
			}
		})
	}
}

func TestGetPaletteFallsBackToDefault(t *testing.T) {
	if got, want := GetPalette("nope").Primary, DefaultPalette().Primary; got != want {
		t.Errorf("GetPalette(nope).Primary = %q, want %q", got, want)
	}
	if got := GetPalette(ThemeNord).Primary; got != "#88C0D0" {
		t.Errorf("GetPalette(nord).Primary = %q", got)
	}
}

func TestPalettesAreComplete(t *testing.T) {
	for _, name := range BuiltinThemes() {
		t.Run(name, func(t *testing.T) {
			p := GetPalette(ThemeName(name))
			colors := map[string]string{
				"Primary":        string(p.Primary),
				"Secondary":      string(p.Secondary),
				"Warning":        string(p.Warning),
				"Error":          string(p.Error),
				"Muted":          string(p.Muted),
				"Surface":        string(p.Surface),
				"Text":           string(p.Text),
				"Border":         string(p.Border),
				"StatusActive":   string(p.StatusActive),
				"StatusInactive": string(p.StatusInactive),
				"StatusUnknown":  string(p.StatusUnknown),
				"Selection":      string(p.Selection),
			}
			for field, c := range colors {
				if c == "" {
					t.Errorf("%s.%s is empty", name, field)
				}
			}
		})
	}
}

func TestSetActiveTheme(t *testing.T) {
	t.Cleanup(func() { SetActiveTheme(ThemeDefault) })

	SetActiveTheme(ThemeDracula)
	if Active().Name != ThemeDracula {
		t.Errorf("Active().Name = %q, want dracula", Active().Name)
	}
	if Active().Palette.Primary != DraculaPalette().Primary {
		t.Errorf("active palette was not switched")
	}
}

func TestStatusColorAndIcon(t *testing.T) {
	s := NewThemedStyles(ThemeDefault, DefaultPalette())
	tests := []struct {
		status record.Status
		color  string
		icon   string
	}{
		{record.StatusActive, "#10B981", "●"},
		{record.StatusInactive, "#F59E0B", "○"},
		{record.StatusUnknown, "#9CA3AF", "?"},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := s.StatusColor(tt.status); string(got) != tt.color {
				t.Errorf("StatusColor() = %q, want %q", got, tt.color)
			}
			if got := StatusIcon(tt.status); got != tt.icon {
				t.Errorf("StatusIcon() = %q, want %q", got, tt.icon)
			}
		})
	}
}

func TestIsLight(t *testing.T) {
	if !IsLight(ThemeSolarizedLight) || IsLight(ThemeNord) {
		t.Error("only solarized-light is a light theme")
	}
}
