// Package keymap provides key binding definitions and lookup for the TUI.
// Bindings are declared per input mode so the model's Update only deals in
// commands.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents the current input mode of the TUI.
// Different modes have different key bindings active.
type Mode string

const (
	ModeNormal  Mode = "normal"  // Browsing the table
	ModeSearch  Mode = "search"  // Typing into the search box (after /)
	ModeMenu    Mode = "menu"    // A row action menu is open
	ModeForm    Mode = "form"    // Creating or editing a record
	ModeConfirm Mode = "confirm" // Delete confirmation dialog
)

// Command represents a named action that can be triggered by a key binding.
type Command string

// Normal mode commands
const (
	CmdCursorDown     Command = "cursor_down"
	CmdCursorUp       Command = "cursor_up"
	CmdNextPage       Command = "next_page"
	CmdPrevPage       Command = "prev_page"
	CmdFirstPage      Command = "first_page"
	CmdLastPage       Command = "last_page"
	CmdCycleLimit     Command = "cycle_limit"
	CmdNextScreen     Command = "next_screen"
	CmdPrevScreen     Command = "prev_screen"
	CmdJumpToScreen   Command = "jump_to_screen" // 1-9 keys
	CmdEnterSearch    Command = "enter_search"
	CmdSortColumnNext Command = "sort_column_next"
	CmdSortColumnPrev Command = "sort_column_prev"
	CmdToggleSort     Command = "toggle_sort"
	CmdOpenMenu       Command = "open_menu"
	CmdCreate         Command = "create"
	CmdEdit           Command = "edit"
	CmdDelete         Command = "delete"
	CmdRetry          Command = "retry"
	CmdToggleDetail   Command = "toggle_detail"
	CmdToggleHelp     Command = "toggle_help"
	CmdEscape         Command = "escape"
	CmdQuit           Command = "quit"
)

// Search mode commands
const (
	CmdAcceptSearch Command = "accept_search"
	CmdCancelSearch Command = "cancel_search"
)

// Menu mode commands
const (
	CmdMenuDown   Command = "menu_down"
	CmdMenuUp     Command = "menu_up"
	CmdMenuSelect Command = "menu_select"
	CmdMenuClose  Command = "menu_close"
)

// Form mode commands
const (
	CmdFieldNext  Command = "field_next"
	CmdFieldPrev  Command = "field_prev"
	CmdSubmit     Command = "submit"
	CmdCancelForm Command = "cancel_form"
)

// Confirm dialog commands
const (
	CmdConfirm Command = "confirm"
	CmdCancel  Command = "cancel"
)

// KeyBinding represents a single key binding configuration.
type KeyBinding struct {
	// KeyType is the key for this binding. For rune keys, use tea.KeyRunes
	// and set Rune.
	KeyType tea.KeyType

	// Rune is the character for rune-based keys (when KeyType is tea.KeyRunes).
	Rune rune

	// Command is the action to execute when this binding is triggered.
	Command Command

	// Description is a human-readable description for help display.
	Description string

	// Category groups related bindings together in help display.
	Category string
}

// Matches checks if a tea.KeyMsg matches this binding.
func (kb KeyBinding) Matches(msg tea.KeyMsg) bool {
	if msg.Alt {
		return false
	}
	if kb.KeyType != tea.KeyRunes {
		return msg.Type == kb.KeyType
	}
	if msg.Type != tea.KeyRunes || len(msg.Runes) == 0 {
		return false
	}
	return msg.Runes[0] == kb.Rune
}

// String returns a human-readable representation of the key binding.
func (kb KeyBinding) String() string {
	if kb.KeyType == tea.KeySpace {
		return "space"
	}
	if kb.KeyType != tea.KeyRunes {
		return kb.KeyType.String()
	}
	return string(kb.Rune)
}

// ModeBindings holds all key bindings for a specific mode.
type ModeBindings struct {
	Mode     Mode
	Bindings []KeyBinding
}

// GetBinding looks up a command for a key in this mode.
// Returns the command and true if found, or empty command and false if not.
func (mb *ModeBindings) GetBinding(msg tea.KeyMsg) (Command, bool) {
	for _, binding := range mb.Bindings {
		if binding.Matches(msg) {
			return binding.Command, true
		}
	}
	return "", false
}

// Keymap contains all key bindings organized by mode.
type Keymap struct {
	Name  string
	Modes map[Mode]*ModeBindings
}

// GetBinding looks up a command for a key in a specific mode.
func (km *Keymap) GetBinding(msg tea.KeyMsg, mode Mode) (Command, bool) {
	mb, ok := km.Modes[mode]
	if !ok {
		return "", false
	}
	return mb.GetBinding(msg)
}

// GetModeBindings returns all bindings for a specific mode.
func (km *Keymap) GetModeBindings(mode Mode) []KeyBinding {
	mb, ok := km.Modes[mode]
	if !ok {
		return nil
	}
	return mb.Bindings
}

// GetCategories returns the unique categories of a mode's bindings in
// declaration order.
func (km *Keymap) GetCategories(mode Mode) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, b := range km.GetModeBindings(mode) {
		if b.Category != "" && !seen[b.Category] {
			seen[b.Category] = true
			categories = append(categories, b.Category)
		}
	}
	return categories
}

// Help adapts the bindings of mode to the bubbles help component. Keys that
// trigger the same command are merged into one entry.
func (km *Keymap) Help(mode Mode) HelpKeyMap {
	h := HelpKeyMap{}
	index := make(map[Command]int)
	for _, cat := range km.GetCategories(mode) {
		n := 0
		for _, b := range km.GetModeBindings(mode) {
			if b.Category != cat || b.Command == CmdJumpToScreen {
				continue
			}
			if i, ok := index[b.Command]; ok {
				h.keys[i] = append(h.keys[i], b.String())
				continue
			}
			index[b.Command] = len(h.keys)
			h.keys = append(h.keys, []string{b.String()})
			h.descs = append(h.descs, b.Description)
			n++
		}
		h.groups = append(h.groups, n)
	}
	return h
}

// HelpKeyMap implements help.KeyMap for one mode.
type HelpKeyMap struct {
	keys   [][]string
	descs  []string
	groups []int // bindings per category
}

func (h HelpKeyMap) binding(i int) key.Binding {
	keys := h.keys[i]
	label := keys[0]
	if len(keys) > 1 {
		label = keys[0] + "/" + keys[1]
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, h.descs[i]))
}

// ShortHelp returns the first binding of every category.
func (h HelpKeyMap) ShortHelp() []key.Binding {
	var out []key.Binding
	i := 0
	for _, n := range h.groups {
		if n > 0 {
			out = append(out, h.binding(i))
		}
		i += n
	}
	return out
}

// FullHelp returns every binding, one column per category.
func (h HelpKeyMap) FullHelp() [][]key.Binding {
	var out [][]key.Binding
	i := 0
	for _, n := range h.groups {
		col := make([]key.Binding, 0, n)
		for j := range n {
			col = append(col, h.binding(i+j))
		}
		if len(col) > 0 {
			out = append(out, col)
		}
		i += n
	}
	return out
}
