package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/backoffice/internal/app"
	"github.com/Iron-Ham/backoffice/internal/config"
	"github.com/Iron-Ham/backoffice/internal/errors"
	"github.com/Iron-Ham/backoffice/internal/listctl"
	"github.com/Iron-Ham/backoffice/internal/logging"
	"github.com/Iron-Ham/backoffice/internal/resource"
)

// harness drives a Model synchronously: every command is executed and its
// message fed back until nothing is left.
type harness struct {
	t     *testing.T
	rt    *app.Runtime
	m     Model
	clock time.Time
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.List.DebounceMs = 1
	cfg.TUI.MarkdownPreview = false
	rt, err := app.New(cfg, logging.NopLogger(), app.Options{Offline: true})
	require.NoError(t, err)

	m, err := NewModel(rt, opts)
	require.NoError(t, err)

	h := &harness{t: t, rt: rt, clock: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m.now = func() time.Time { return h.clock }
	h.m = m
	t.Cleanup(func() { h.m.Close() })

	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.settle(h.m.startTab(h.m.active))
	return h
}

func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	h.settle(cmd)
}

func (h *harness) settle(cmd tea.Cmd) {
	h.t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		switch msg := msg.(type) {
		case nil:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		case tea.QuitMsg:
			continue
		}
		updated, cmd := h.m.Update(msg)
		h.m = updated.(Model)
		queue = append(queue, cmd)
	}
}

func (h *harness) key(k tea.KeyType) {
	h.t.Helper()
	h.send(tea.KeyMsg{Type: k})
}

func (h *harness) typeText(s string) {
	h.t.Helper()
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) click(y int) {
	h.t.Helper()
	h.send(tea.MouseMsg{X: 10, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
}

func (h *harness) view() listctl.View { return h.m.tab().ctl.View() }

func (h *harness) client(name string) *resource.MemoryClient {
	s, ok := h.rt.Screen(name)
	require.True(h.t, ok)
	return s.Client.(*resource.MemoryClient)
}

func TestNewModelUnknownScreen(t *testing.T) {
	rt, err := app.New(config.Default(), logging.NopLogger(), app.Options{Offline: true})
	require.NoError(t, err)
	_, err = NewModel(rt, Options{Screen: "nope"})
	require.ErrorContains(t, err, "nope")
}

func TestNewModelOpensRequestedScreen(t *testing.T) {
	h := newHarness(t, Options{Screen: "categories"})
	require.Equal(t, "categories", h.m.tab().schema().Name)
	require.Len(t, h.view().Rows, 10)
	require.False(t, h.m.tabs[0].started)
}

func TestInitialLoad(t *testing.T) {
	h := newHarness(t, Options{})
	v := h.view()
	require.Len(t, v.Rows, 10)
	require.Equal(t, app.OfflineRecords, v.Page.TotalRecords)

	out := h.m.View()
	require.Contains(t, out, "Permissions")
	require.Contains(t, out, "Name 1")
	require.Contains(t, out, "Showing 1-10 of 37")
	require.Contains(t, out, "offline")
}

func TestPaging(t *testing.T) {
	h := newHarness(t, Options{})

	h.typeText("l")
	require.Equal(t, 2, h.view().Page.Page)
	require.Contains(t, h.m.View(), "Showing 11-20 of 37")

	h.typeText("G")
	require.Equal(t, 4, h.view().Page.Page)
	require.Len(t, h.view().Rows, 7)

	h.typeText("h")
	require.Equal(t, 3, h.view().Page.Page)

	h.typeText("g")
	require.Equal(t, 1, h.view().Page.Page)

	h.typeText("L")
	require.Equal(t, 20, h.view().Page.Limit)
	require.Len(t, h.view().Rows, 20)
	require.Equal(t, 1, h.view().Page.Page)
}

func TestCursorStaysOnRows(t *testing.T) {
	h := newHarness(t, Options{})
	for range 15 {
		h.typeText("j")
	}
	require.Equal(t, 9, h.m.tab().cursor)

	h.typeText("G")
	require.Equal(t, 6, h.m.tab().cursor)

	h.typeText("k")
	require.Equal(t, 5, h.m.tab().cursor)
}

func TestTabSwitchStartsScreenOnce(t *testing.T) {
	h := newHarness(t, Options{})
	require.False(t, h.m.tabs[1].started)

	h.key(tea.KeyTab)
	require.Equal(t, 1, h.m.active)
	require.True(t, h.m.tabs[1].started)
	require.Len(t, h.view().Rows, 10)
	require.Equal(t, 1, h.client("categories").Calls("list"))

	h.key(tea.KeyShiftTab)
	h.key(tea.KeyTab)
	require.Equal(t, 1, h.client("categories").Calls("list"))

	h.typeText("5")
	require.Equal(t, "faqs", h.m.tab().schema().Name)
}

func TestSearchFiltersAfterDebounce(t *testing.T) {
	h := newHarness(t, Options{})

	h.typeText("/")
	require.True(t, h.m.searching)

	h.typeText("permission-03")
	v := h.view()
	require.Equal(t, "permission-03", v.Input)
	require.Equal(t, "permission-03", v.Term)
	require.Len(t, v.Rows, 1)
	require.Equal(t, 10, v.Fetched)

	h.key(tea.KeyEnter)
	require.False(t, h.m.searching)
	require.Len(t, h.view().Rows, 1)

	h.typeText("/")
	h.key(tea.KeyEsc)
	require.Empty(t, h.view().Term)
	require.Len(t, h.view().Rows, 10)
}

func TestSearchWithNoMatchesShowsEmptyState(t *testing.T) {
	h := newHarness(t, Options{})
	h.typeText("/zzz")
	require.Empty(t, h.view().Rows)
	require.Contains(t, h.m.View(), "zzz")
}

func TestSortToggle(t *testing.T) {
	h := newHarness(t, Options{})
	require.Equal(t, "createdAt", h.view().Sort.Key)

	// The first sortable column is name; a new column sorts descending.
	h.typeText("s")
	require.Equal(t, "name", h.view().Sort.Key)
	require.Equal(t, "Name 9", h.view().Rows[0].Text("name"))

	h.typeText("s")
	require.Equal(t, "Name 1", h.view().Rows[0].Text("name"))

	h.typeText("]")
	h.typeText("s")
	require.Equal(t, "code", h.view().Sort.Key)
}

func TestMenuOpenAndEscape(t *testing.T) {
	h := newHarness(t, Options{})
	first := h.view().Rows[0].ID

	h.key(tea.KeyEnter)
	require.True(t, h.view().Menu.IsOpenFor(first))
	require.Contains(t, h.m.View(), "Delete")

	h.key(tea.KeyEsc)
	require.False(t, h.view().Menu.IsOpen())
}

func TestMenuClosesOnOutsideClick(t *testing.T) {
	h := newHarness(t, Options{})
	h.key(tea.KeyEnter)
	require.True(t, h.view().Menu.IsOpen())

	// Row 0 sits on line rowsTop and its menu takes the lines below it, so
	// the next row starts after the menu.
	h.click(rowsTop + 1 + len(menuItems) + 2)
	require.False(t, h.view().Menu.IsOpen())
	require.Equal(t, 1, h.m.tab().cursor)
}

func TestMenuClickInsideKeepsMenu(t *testing.T) {
	h := newHarness(t, Options{})
	h.key(tea.KeyEnter)

	h.click(rowsTop + 1)
	require.True(t, h.view().Menu.IsOpen())

	// Clicking the trigger row again toggles the menu shut.
	h.click(rowsTop)
	require.False(t, h.view().Menu.IsOpen())
}

func TestMenuItemClickRunsAction(t *testing.T) {
	h := newHarness(t, Options{})
	target := h.view().Rows[0].ID
	h.key(tea.KeyEnter)

	// The second item is Delete.
	h.click(rowsTop + 1 + 1 + 1)
	v := h.view()
	require.False(t, v.Menu.IsOpen())
	require.Equal(t, listctl.GateConfirming, v.Gate.Phase)
	require.Equal(t, target, v.Gate.ID)
}

func TestCreateRecord(t *testing.T) {
	h := newHarness(t, Options{})
	h.typeText("n")
	require.Equal(t, listctl.FormCreating, h.view().Mutation.Mode)
	require.Contains(t, h.m.View(), "New Permission")

	h.typeText("Audit")
	h.key(tea.KeyTab)
	h.typeText("audit-log")
	require.Equal(t, "Audit", h.view().Form.Value("name"))
	require.Equal(t, "audit-log", h.view().Form.Value("code"))

	h.key(tea.KeyCtrlS)
	require.Equal(t, listctl.FormClosed, h.view().Mutation.Mode)
	require.Equal(t, app.OfflineRecords+1, h.client("permissions").Len())
	require.NotNil(t, h.m.toast)
	require.False(t, h.m.toast.isError)
	require.Contains(t, h.m.View(), "Permission created")
}

func TestCreateRequiresFields(t *testing.T) {
	h := newHarness(t, Options{})
	h.typeText("n")
	h.key(tea.KeyCtrlS)

	v := h.view()
	require.Equal(t, listctl.FormCreating, v.Mutation.Mode)
	require.NotEmpty(t, v.Form.Errors["name"])
	require.Equal(t, app.OfflineRecords, h.client("permissions").Len())

	h.key(tea.KeyEsc)
	require.Equal(t, listctl.FormClosed, h.view().Mutation.Mode)
}

func TestEditRecord(t *testing.T) {
	h := newHarness(t, Options{})
	target := h.view().Rows[0].ID

	h.typeText("e")
	v := h.view()
	require.Equal(t, listctl.FormEditing, v.Mutation.Mode)
	require.Equal(t, target, v.Mutation.EditingID)
	require.Equal(t, "Name 1", h.m.tab().inputs[0].Value())

	h.typeText("!")
	h.key(tea.KeyEnter)
	require.Equal(t, listctl.FormClosed, h.view().Mutation.Mode)

	rec, ok := h.m.tab().ctl.Record(target)
	require.True(t, ok)
	require.Equal(t, "Name 1!", rec.Text("name"))
	require.Contains(t, h.m.View(), "Permission updated")
}

func TestDeleteConfirm(t *testing.T) {
	h := newHarness(t, Options{})
	target := h.view().Rows[0].ID

	h.typeText("d")
	require.Equal(t, listctl.GateConfirming, h.view().Gate.Phase)
	require.Contains(t, h.m.View(), "Delete Permission?")

	h.typeText("y")
	require.Equal(t, listctl.GateClosed, h.view().Gate.Phase)
	require.Equal(t, app.OfflineRecords-1, h.client("permissions").Len())
	_, ok := h.m.tab().ctl.Record(target)
	require.False(t, ok)
}

func TestDeleteCancel(t *testing.T) {
	h := newHarness(t, Options{})
	h.typeText("d")
	h.typeText("n")
	require.Equal(t, listctl.GateClosed, h.view().Gate.Phase)
	require.Equal(t, app.OfflineRecords, h.client("permissions").Len())
}

func TestListErrorAndRetry(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantRetry bool
	}{
		{"fetch failure", errors.NewFetchError("list", errors.New("connection refused")).WithStatus(503), true},
		{"missing resource", errors.NewNotFoundError("permissions", ""), false},
		{"foreign error", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, Options{})
			h.client("permissions").FailNext("list", tt.err)

			h.typeText("l")
			require.Error(t, h.view().ListErr)
			if tt.wantRetry {
				require.Contains(t, h.m.View(), "r to retry")
			} else {
				require.NotContains(t, h.m.View(), "r to retry")
				require.Contains(t, h.m.View(), "Failed to load:")
			}

			h.typeText("r")
			require.NoError(t, h.view().ListErr)
		})
	}
}

func TestToastExpires(t *testing.T) {
	h := newHarness(t, Options{})
	h.typeText("d")
	h.typeText("y")
	require.NotNil(t, h.m.toast)

	h.clock = h.clock.Add(h.m.toastFor)
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	require.Nil(t, h.m.toast)
}

func TestDetailPane(t *testing.T) {
	h := newHarness(t, Options{})
	h.typeText("v")
	require.True(t, h.m.detail)
	require.Contains(t, h.m.View(), "Description 1")

	h.key(tea.KeyEsc)
	require.False(t, h.m.detail)
}

func TestAuthErrorQuits(t *testing.T) {
	h := newHarness(t, Options{})
	next, cmd := h.m.Update(listctl.AuthErrorMsg{Screen: "permissions", Err: errors.New("token expired")})
	h.m = next.(Model)

	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
	require.Error(t, h.m.Err())
	require.Empty(t, h.m.View())
}

func TestQuit(t *testing.T) {
	h := newHarness(t, Options{})
	next, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	h.m = next.(Model)
	require.IsType(t, tea.QuitMsg{}, cmd())
	require.NoError(t, h.m.Err())
}
