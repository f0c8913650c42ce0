package tui

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/backoffice/internal/app"
	"github.com/Iron-Ham/backoffice/internal/listctl"
	"github.com/Iron-Ham/backoffice/internal/tui/keymap"
	"github.com/Iron-Ham/backoffice/internal/tui/styles"
)

// Options configures NewModel.
type Options struct {
	// Screen is the screen to open first. Empty opens the first screen.
	Screen string
}

// menuItem is one entry of the row action menu.
type menuItem struct {
	label   string
	command keymap.Command
}

var menuItems = []menuItem{
	{"Edit", keymap.CmdEdit},
	{"Delete", keymap.CmdDelete},
	{"Details", keymap.CmdToggleDetail},
}

// tab is one screen and the UI state that belongs to it rather than to its
// controller.
type tab struct {
	ctl     *listctl.Controller
	started bool

	cursor  int
	sortCol int // index into sortableColumns
	menuIdx int

	// formKey identifies the open form ("create" or "edit:<id>") so the
	// inputs are rebuilt only when a different form opens.
	formKey string
	inputs  []textinput.Model
	focus   int
}

func (t *tab) schema() listctl.Schema { return t.ctl.Schema() }

func (t *tab) sortableColumns() []listctl.Column {
	var out []listctl.Column
	for _, c := range t.schema().Columns {
		if t.ctl.Engine().Sortable(c.Key) {
			out = append(out, c)
		}
	}
	return out
}

// Model is the Bubble Tea model of the back-office UI.
type Model struct {
	rt     *app.Runtime
	keymap *keymap.Keymap

	tabs   []*tab
	active int

	width  int
	height int

	searching bool
	search    textinput.Model
	detail    bool

	help     help.Model
	spinner  spinner.Model
	markdown *markdownRenderer

	notes    *notifications
	toast    *toast
	toastFor time.Duration

	now      func() time.Time
	err      error
	quitting bool
}

// NewModel creates a controller per configured screen. The controllers
// start fetching when their tab is first shown.
func NewModel(rt *app.Runtime, opts Options) (Model, error) {
	cfg := rt.Config()
	theme := styles.ThemeName(cfg.TUI.Theme)
	styles.SetActiveTheme(theme)

	m := Model{
		rt:       rt,
		keymap:   keymap.DefaultKeymap(),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		markdown: newMarkdownRenderer(cfg.TUI.MarkdownPreview, styles.IsLight(theme)),
		toastFor: cfg.TUI.ToastDuration(),
		now:      time.Now,
	}
	m.search = newInput("/ ", "Search")
	if m.toastFor <= 0 {
		m.toastFor = 4 * time.Second
	}

	for _, s := range rt.Screens() {
		ctl, err := rt.NewController(s.Schema.Name, nil)
		if err != nil {
			m.closeControllers()
			return Model{}, err
		}
		m.tabs = append(m.tabs, &tab{ctl: ctl})
	}
	if len(m.tabs) == 0 {
		return Model{}, fmt.Errorf("no screens configured")
	}
	if opts.Screen != "" {
		i := slices.IndexFunc(m.tabs, func(t *tab) bool { return t.schema().Name == opts.Screen })
		if i < 0 {
			m.closeControllers()
			return Model{}, fmt.Errorf("unknown screen %q", opts.Screen)
		}
		m.active = i
	}
	m.notes = newNotifications(rt.Bus())
	return m, nil
}

func newInput(prompt, placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// Init starts the first screen.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startTab(m.active), m.spinner.Tick)
}

func (m Model) startTab(i int) tea.Cmd {
	t := m.tabs[i]
	if t.started {
		return nil
	}
	t.started = true
	return t.ctl.Init()
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error { return m.err }

// Close releases every controller and the bus subscriptions.
func (m Model) Close() {
	m.closeControllers()
	if m.notes != nil {
		m.notes.close()
	}
}

func (m Model) closeControllers() {
	for _, t := range m.tabs {
		t.ctl.Close()
	}
}

func (m Model) tab() *tab { return m.tabs[m.active] }

// mode derives the input mode from the active controller.
func (m Model) mode(v listctl.View) keymap.Mode {
	switch {
	case v.Gate.Phase != listctl.GateClosed:
		return keymap.ModeConfirm
	case v.Mutation.Mode != listctl.FormClosed:
		return keymap.ModeForm
	case v.Menu.IsOpen():
		return keymap.ModeMenu
	case m.searching:
		return keymap.ModeSearch
	}
	return keymap.ModeNormal
}

// Update handles a message and then surfaces any notification the
// controllers published meanwhile.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	if notes := m.notes.drain(); len(notes) > 0 {
		last := notes[len(notes)-1]
		m.toast = &toast{
			expires:     m.now().Add(m.toastFor),
			isError:     last.IsError(),
			screen:      last.Screen,
			title:       last.Title,
			description: last.Description,
		}
	}
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	if m.toast != nil && !m.now().Before(m.toast.expires) {
		m.toast = nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		m.sync(m.tab())
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m, cmd = m.handleMouse(msg)
		m.sync(m.tab())
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listctl.AuthErrorMsg:
		m.err = msg
		m.quitting = true
		return m, tea.Quit
	}

	for _, t := range m.tabs {
		if t.ctl.Owns(msg) {
			cmd := t.ctl.Update(msg)
			m.sync(t)
			return m, cmd
		}
	}
	return m, nil
}

// sync reconciles the tab's UI state with its controller: the cursor stays on
// a row and the form inputs follow the controller's form.
func (m Model) sync(t *tab) {
	v := t.ctl.View()
	t.cursor = max(0, min(t.cursor, len(v.Rows)-1))

	cols := t.schema().FormColumns()
	key := ""
	switch v.Mutation.Mode {
	case listctl.FormCreating:
		key = "create"
	case listctl.FormEditing:
		key = "edit:" + v.Mutation.EditingID
	}
	if key != t.formKey {
		t.formKey = key
		t.inputs = nil
		t.focus = 0
		if key == "" {
			return
		}
		for _, c := range cols {
			in := newInput("", c.Title)
			in.SetValue(v.Form.Value(c.Key))
			in.CursorEnd()
			t.inputs = append(t.inputs, in)
		}
		if len(t.inputs) > 0 {
			t.inputs[0].Focus()
		}
		return
	}
	for i, c := range cols {
		if i < len(t.inputs) && t.inputs[i].Value() != v.Form.Value(c.Key) {
			t.inputs[i].SetValue(v.Form.Value(c.Key))
		}
	}
}

// selectedID returns the id of the row under the cursor.
func (m Model) selectedID(v listctl.View) string {
	t := m.tab()
	if t.cursor < 0 || t.cursor >= len(v.Rows) {
		return ""
	}
	return v.Rows[t.cursor].ID
}

// switchTab shows screen i, starting its controller on first visit.
func (m Model) switchTab(i int) (Model, tea.Cmd) {
	if i < 0 || i >= len(m.tabs) || i == m.active {
		return m, nil
	}
	m.tab().ctl.OnMenuClose()
	m.active = i
	m.searching = false
	m.search.Blur()
	m.detail = false
	return m, m.startTab(i)
}

// formValues reads the form inputs of t.
func formValues(t *tab) map[string]string {
	cols := t.schema().FormColumns()
	values := make(map[string]string, len(cols))
	for i, c := range cols {
		if i < len(t.inputs) {
			values[c.Key] = t.inputs[i].Value()
		}
	}
	return values
}

func (t *tab) focusField(i int) {
	if len(t.inputs) == 0 {
		return
	}
	i = (i + len(t.inputs)) % len(t.inputs)
	t.inputs[t.focus].Blur()
	t.focus = i
	t.inputs[i].Focus()
}
