package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/backoffice/internal/listctl"
	"github.com/Iron-Ham/backoffice/internal/tui/keymap"
)

// handleKey resolves msg to a command in the current mode. Unbound keys are
// typed into the search box or the focused form field.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	t := m.tab()
	v := t.ctl.View()
	mode := m.mode(v)

	command, ok := m.keymap.GetBinding(msg, mode)
	if !ok {
		switch mode {
		case keymap.ModeSearch:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, tea.Batch(cmd, t.ctl.OnSearchChange(m.search.Value()))
		case keymap.ModeForm:
			if v.Mutation.Pending || t.focus >= len(t.inputs) {
				return m, nil
			}
			var cmd tea.Cmd
			t.inputs[t.focus], cmd = t.inputs[t.focus].Update(msg)
			col := t.schema().FormColumns()[t.focus]
			return m, tea.Batch(cmd, t.ctl.OnFormInput(col.Key, t.inputs[t.focus].Value()))
		}
		return m, nil
	}

	return m.runCommand(command, msg, v)
}

// runCommand executes command against the active tab.
func (m Model) runCommand(command keymap.Command, msg tea.KeyMsg, v listctl.View) (Model, tea.Cmd) {
	t := m.tab()
	ctl := t.ctl

	// In the menu, actions apply to the row the menu belongs to.
	target := m.selectedID(v)
	if v.Menu.IsOpen() {
		target = v.Menu.OpenID
	}

	switch command {
	case keymap.CmdQuit:
		m.quitting = true
		return m, tea.Quit

	case keymap.CmdCursorDown:
		t.cursor = min(t.cursor+1, max(len(v.Rows)-1, 0))
	case keymap.CmdCursorUp:
		t.cursor = max(t.cursor-1, 0)

	case keymap.CmdNextPage:
		return m, ctl.OnPageChange(v.Page.Page + 1)
	case keymap.CmdPrevPage:
		return m, ctl.OnPageChange(v.Page.Page - 1)
	case keymap.CmdFirstPage:
		return m, ctl.OnPageChange(1)
	case keymap.CmdLastPage:
		return m, ctl.OnPageChange(v.Page.TotalPages)
	case keymap.CmdCycleLimit:
		return m, ctl.OnLimitChange(nextLimit(ctl.LimitOptions(), v.Page.Limit))
	case keymap.CmdRetry:
		return m, ctl.OnRetry()

	case keymap.CmdNextScreen:
		return m.switchTab((m.active + 1) % len(m.tabs))
	case keymap.CmdPrevScreen:
		return m.switchTab((m.active - 1 + len(m.tabs)) % len(m.tabs))
	case keymap.CmdJumpToScreen:
		if len(msg.Runes) > 0 {
			return m.switchTab(int(msg.Runes[0] - '1'))
		}

	case keymap.CmdEnterSearch:
		m.searching = true
		m.search.SetValue(v.Input)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case keymap.CmdAcceptSearch:
		m.searching = false
		m.search.Blur()
	case keymap.CmdCancelSearch:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		return m, ctl.OnSearchChange("")

	case keymap.CmdSortColumnNext, keymap.CmdSortColumnPrev:
		if n := len(t.sortableColumns()); n > 0 {
			step := 1
			if command == keymap.CmdSortColumnPrev {
				step = -1
			}
			t.sortCol = (t.sortCol + step + n) % n
		}
	case keymap.CmdToggleSort:
		cols := t.sortableColumns()
		if len(cols) > 0 {
			return m, ctl.OnSortToggle(cols[t.sortCol%len(cols)].Key)
		}

	case keymap.CmdOpenMenu:
		t.menuIdx = 0
		return m, ctl.OnMenuToggle(target)
	case keymap.CmdMenuDown:
		t.menuIdx = (t.menuIdx + 1) % len(menuItems)
	case keymap.CmdMenuUp:
		t.menuIdx = (t.menuIdx - 1 + len(menuItems)) % len(menuItems)
	case keymap.CmdMenuSelect:
		return m.runCommand(menuItems[t.menuIdx].command, msg, v)
	case keymap.CmdMenuClose:
		return m, ctl.OnMenuClose()

	case keymap.CmdToggleDetail:
		ctl.OnMenuClose()
		m.detail = !m.detail
	case keymap.CmdToggleHelp:
		m.help.ShowAll = !m.help.ShowAll
	case keymap.CmdEscape:
		m.detail = false
		m.toast = nil

	case keymap.CmdCreate:
		return m, ctl.OnStartCreate()
	case keymap.CmdEdit:
		return m, ctl.OnStartEdit(target)
	case keymap.CmdDelete:
		return m, ctl.OnDeleteRequest(target)

	case keymap.CmdFieldNext:
		t.focusField(t.focus + 1)
	case keymap.CmdFieldPrev:
		t.focusField(t.focus - 1)
	case keymap.CmdSubmit:
		return m, ctl.OnSubmit(formValues(t))
	case keymap.CmdCancelForm:
		return m, ctl.OnCancelEdit()

	case keymap.CmdConfirm:
		return m, ctl.OnDeleteConfirm()
	case keymap.CmdCancel:
		return m, ctl.OnDeleteCancel()
	}
	return m, nil
}

// handleMouse maps clicks onto rows and the open row menu. A press anywhere
// outside the open menu and its trigger row closes the menu.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	t := m.tab()
	v := t.ctl.View()
	mode := m.mode(v)
	if mode != keymap.ModeNormal && mode != keymap.ModeMenu {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelDown:
		t.cursor = min(t.cursor+1, max(len(v.Rows)-1, 0))
		return m, nil
	case tea.MouseButtonWheelUp:
		t.cursor = max(t.cursor-1, 0)
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	hit := m.layout(v).hitTest(msg.Y)
	if v.Menu.IsOpen() {
		switch hit.kind {
		case hitMenuItem:
			t.ctl.OnPointerDown(listctl.PointerMenu)
			t.menuIdx = hit.item
			return m.runCommand(menuItems[hit.item].command, tea.KeyMsg{}, v)
		case hitMenu:
			return m, t.ctl.OnPointerDown(listctl.PointerMenu)
		case hitRow:
			if hit.row < len(v.Rows) && v.Menu.IsOpenFor(v.Rows[hit.row].ID) {
				t.ctl.OnPointerDown(listctl.PointerTrigger)
				return m, t.ctl.OnMenuToggle(v.Rows[hit.row].ID)
			}
			t.cursor = hit.row
		}
		return m, t.ctl.OnPointerDown(listctl.PointerOutside)
	}

	if hit.kind == hitRow {
		t.cursor = hit.row
		if msg.X >= m.tableWidth()-triggerWidth {
			t.menuIdx = 0
			return m, t.ctl.OnMenuToggle(v.Rows[hit.row].ID)
		}
	}
	return m, nil
}
