package keymap

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestDefaultKeymapLookup(t *testing.T) {
	km := DefaultKeymap()
	tests := []struct {
		name string
		mode Mode
		msg  tea.KeyMsg
		want Command
		ok   bool
	}{
		{"j moves down", ModeNormal, runeKey('j'), CmdCursorDown, true},
		{"arrow moves down", ModeNormal, tea.KeyMsg{Type: tea.KeyDown}, CmdCursorDown, true},
		{"enter opens menu", ModeNormal, tea.KeyMsg{Type: tea.KeyEnter}, CmdOpenMenu, true},
		{"digit jumps", ModeNormal, runeKey('3'), CmdJumpToScreen, true},
		{"esc closes", ModeNormal, tea.KeyMsg{Type: tea.KeyEsc}, CmdEscape, true},
		{"unbound rune", ModeNormal, runeKey('z'), "", false},
		{"alt is never bound", ModeNormal, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}, Alt: true}, "", false},
		{"search typing is not bound", ModeSearch, runeKey('j'), "", false},
		{"search enter accepts", ModeSearch, tea.KeyMsg{Type: tea.KeyEnter}, CmdAcceptSearch, true},
		{"menu esc closes", ModeMenu, tea.KeyMsg{Type: tea.KeyEsc}, CmdMenuClose, true},
		{"menu d deletes", ModeMenu, runeKey('d'), CmdDelete, true},
		{"form runes go to the input", ModeForm, runeKey('d'), "", false},
		{"form ctrl+s saves", ModeForm, tea.KeyMsg{Type: tea.KeyCtrlS}, CmdSubmit, true},
		{"confirm y", ModeConfirm, runeKey('y'), CmdConfirm, true},
		{"confirm esc", ModeConfirm, tea.KeyMsg{Type: tea.KeyEsc}, CmdCancel, true},
		{"unknown mode", Mode("nope"), runeKey('j'), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := km.GetBinding(tt.msg, tt.mode)
			if got != tt.want || ok != tt.ok {
				t.Errorf("GetBinding() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEveryModeCanQuit(t *testing.T) {
	km := DefaultKeymap()
	for mode := range km.Modes {
		if cmd, ok := km.GetBinding(tea.KeyMsg{Type: tea.KeyCtrlC}, mode); !ok || cmd != CmdQuit {
			t.Errorf("mode %s: ctrl+c = %q, want quit", mode, cmd)
		}
	}
}

func TestNoDuplicateKeysPerMode(t *testing.T) {
	km := DefaultKeymap()
	for mode, mb := range km.Modes {
		seen := make(map[string]Command)
		for _, b := range mb.Bindings {
			if prev, ok := seen[b.String()]; ok {
				t.Errorf("mode %s: key %q bound to both %q and %q", mode, b.String(), prev, b.Command)
			}
			seen[b.String()] = b.Command
		}
	}
}

func TestKeyBindingString(t *testing.T) {
	tests := []struct {
		kb   KeyBinding
		want string
	}{
		{KeyBinding{KeyType: tea.KeyRunes, Rune: 'q'}, "q"},
		{KeyBinding{KeyType: tea.KeySpace}, "space"},
		{KeyBinding{KeyType: tea.KeyCtrlC}, "ctrl+c"},
		{KeyBinding{KeyType: tea.KeyShiftTab}, "shift+tab"},
	}
	for _, tt := range tests {
		if got := tt.kb.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestHelpMergesKeysPerCommand(t *testing.T) {
	h := DefaultKeymap().Help(ModeNormal)

	short := h.ShortHelp()
	if len(short) != len(DefaultKeymap().GetCategories(ModeNormal)) {
		t.Fatalf("ShortHelp() has %d entries, want one per category", len(short))
	}
	if got := short[0].Help().Key; got != "j/down" {
		t.Errorf("first short help key = %q, want j/down", got)
	}

	var total int
	for _, col := range h.FullHelp() {
		for _, b := range col {
			total++
			if b.Help().Desc == "Jump to screen 1" {
				t.Error("screen digits should not be listed")
			}
		}
	}
	if total != 22 {
		t.Errorf("FullHelp() lists %d bindings, want 22", total)
	}
}
