package keymap

import tea "github.com/charmbracelet/bubbletea"

// DefaultKeymap returns the default keymap configuration.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name: "default",
		Modes: map[Mode]*ModeBindings{
			ModeNormal:  defaultNormalBindings(),
			ModeSearch:  defaultSearchBindings(),
			ModeMenu:    defaultMenuBindings(),
			ModeForm:    defaultFormBindings(),
			ModeConfirm: defaultConfirmBindings(),
		},
	}
}

func defaultNormalBindings() *ModeBindings {
	bindings := []KeyBinding{
		// Rows
		{KeyType: tea.KeyRunes, Rune: 'j', Command: CmdCursorDown, Description: "Next row", Category: "Rows"},
		{KeyType: tea.KeyDown, Command: CmdCursorDown, Description: "Next row", Category: "Rows"},
		{KeyType: tea.KeyRunes, Rune: 'k', Command: CmdCursorUp, Description: "Previous row", Category: "Rows"},
		{KeyType: tea.KeyUp, Command: CmdCursorUp, Description: "Previous row", Category: "Rows"},
		{KeyType: tea.KeyEnter, Command: CmdOpenMenu, Description: "Row actions", Category: "Rows"},
		{KeyType: tea.KeySpace, Command: CmdOpenMenu, Description: "Row actions", Category: "Rows"},
		{KeyType: tea.KeyRunes, Rune: 'v', Command: CmdToggleDetail, Description: "Toggle details", Category: "Rows"},

		// Pages
		{KeyType: tea.KeyRunes, Rune: 'l', Command: CmdNextPage, Description: "Next page", Category: "Pages"},
		{KeyType: tea.KeyRight, Command: CmdNextPage, Description: "Next page", Category: "Pages"},
		{KeyType: tea.KeyPgDown, Command: CmdNextPage, Description: "Next page", Category: "Pages"},
		{KeyType: tea.KeyRunes, Rune: 'h', Command: CmdPrevPage, Description: "Previous page", Category: "Pages"},
		{KeyType: tea.KeyLeft, Command: CmdPrevPage, Description: "Previous page", Category: "Pages"},
		{KeyType: tea.KeyPgUp, Command: CmdPrevPage, Description: "Previous page", Category: "Pages"},
		{KeyType: tea.KeyRunes, Rune: 'g', Command: CmdFirstPage, Description: "First page", Category: "Pages"},
		{KeyType: tea.KeyRunes, Rune: 'G', Command: CmdLastPage, Description: "Last page", Category: "Pages"},
		{KeyType: tea.KeyRunes, Rune: 'L', Command: CmdCycleLimit, Description: "Rows per page", Category: "Pages"},

		// Search and sort
		{KeyType: tea.KeyRunes, Rune: '/', Command: CmdEnterSearch, Description: "Search", Category: "Search"},
		{KeyType: tea.KeyRunes, Rune: ']', Command: CmdSortColumnNext, Description: "Next sort column", Category: "Search"},
		{KeyType: tea.KeyRunes, Rune: '[', Command: CmdSortColumnPrev, Description: "Previous sort column", Category: "Search"},
		{KeyType: tea.KeyRunes, Rune: 's', Command: CmdToggleSort, Description: "Sort by column", Category: "Search"},

		// Records
		{KeyType: tea.KeyRunes, Rune: 'n', Command: CmdCreate, Description: "New record", Category: "Records"},
		{KeyType: tea.KeyRunes, Rune: 'e', Command: CmdEdit, Description: "Edit record", Category: "Records"},
		{KeyType: tea.KeyRunes, Rune: 'd', Command: CmdDelete, Description: "Delete record", Category: "Records"},
		{KeyType: tea.KeyRunes, Rune: 'r', Command: CmdRetry, Description: "Reload", Category: "Records"},

		// Screens
		{KeyType: tea.KeyTab, Command: CmdNextScreen, Description: "Next screen", Category: "Screens"},
		{KeyType: tea.KeyShiftTab, Command: CmdPrevScreen, Description: "Previous screen", Category: "Screens"},

		// Application
		{KeyType: tea.KeyEsc, Command: CmdEscape, Description: "Close", Category: "Application"},
		{KeyType: tea.KeyRunes, Rune: '?', Command: CmdToggleHelp, Description: "Toggle help", Category: "Application"},
		{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit, Description: "Quit", Category: "Application"},
		{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application"},
	}
	for r := '1'; r <= '9'; r++ {
		bindings = append(bindings, KeyBinding{
			KeyType: tea.KeyRunes, Rune: r, Command: CmdJumpToScreen,
			Description: "Jump to screen " + string(r), Category: "Screens",
		})
	}
	return &ModeBindings{Mode: ModeNormal, Bindings: bindings}
}

func defaultSearchBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeSearch,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyEnter, Command: CmdAcceptSearch, Description: "Done", Category: "Search"},
			{KeyType: tea.KeyEsc, Command: CmdCancelSearch, Description: "Clear search", Category: "Search"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application"},
		},
	}
}

func defaultMenuBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeMenu,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyRunes, Rune: 'j', Command: CmdMenuDown, Description: "Next action", Category: "Menu"},
			{KeyType: tea.KeyDown, Command: CmdMenuDown, Description: "Next action", Category: "Menu"},
			{KeyType: tea.KeyRunes, Rune: 'k', Command: CmdMenuUp, Description: "Previous action", Category: "Menu"},
			{KeyType: tea.KeyUp, Command: CmdMenuUp, Description: "Previous action", Category: "Menu"},
			{KeyType: tea.KeyEnter, Command: CmdMenuSelect, Description: "Run action", Category: "Menu"},
			{KeyType: tea.KeyRunes, Rune: 'e', Command: CmdEdit, Description: "Edit record", Category: "Menu"},
			{KeyType: tea.KeyRunes, Rune: 'd', Command: CmdDelete, Description: "Delete record", Category: "Menu"},
			{KeyType: tea.KeyEsc, Command: CmdMenuClose, Description: "Close menu", Category: "Menu"},
			{KeyType: tea.KeySpace, Command: CmdMenuClose, Description: "Close menu", Category: "Menu"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application"},
		},
	}
}

func defaultFormBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeForm,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyTab, Command: CmdFieldNext, Description: "Next field", Category: "Form"},
			{KeyType: tea.KeyDown, Command: CmdFieldNext, Description: "Next field", Category: "Form"},
			{KeyType: tea.KeyShiftTab, Command: CmdFieldPrev, Description: "Previous field", Category: "Form"},
			{KeyType: tea.KeyUp, Command: CmdFieldPrev, Description: "Previous field", Category: "Form"},
			{KeyType: tea.KeyCtrlS, Command: CmdSubmit, Description: "Save", Category: "Form"},
			{KeyType: tea.KeyEnter, Command: CmdSubmit, Description: "Save", Category: "Form"},
			{KeyType: tea.KeyEsc, Command: CmdCancelForm, Description: "Cancel", Category: "Form"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application"},
		},
	}
}

func defaultConfirmBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeConfirm,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyRunes, Rune: 'y', Command: CmdConfirm, Description: "Delete", Category: "Confirm"},
			{KeyType: tea.KeyEnter, Command: CmdConfirm, Description: "Delete", Category: "Confirm"},
			{KeyType: tea.KeyRunes, Rune: 'n', Command: CmdCancel, Description: "Keep", Category: "Confirm"},
			{KeyType: tea.KeyEsc, Command: CmdCancel, Description: "Keep", Category: "Confirm"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application"},
		},
	}
}
