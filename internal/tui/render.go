package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/backoffice/internal/errors"
	"github.com/Iron-Ham/backoffice/internal/listctl"
	"github.com/Iron-Ham/backoffice/internal/query"
	"github.com/Iron-Ham/backoffice/internal/record"
	"github.com/Iron-Ham/backoffice/internal/tui/keymap"
	"github.com/Iron-Ham/backoffice/internal/tui/styles"
)

// Layout constants
const (
	rowsTop      = 4  // tabs, title bar, header and its border
	chromeHeight = 9  // rowsTop plus footer, toast and help lines
	detailHeight = 12 // lines reserved for the detail pane
	gutterWidth  = 2  // cursor marker before each row
	triggerWidth = 3  // row menu trigger after each row
	defaultWidth = 100
)

// tableLayout is which rows are visible and where the open menu sits.
type tableLayout struct {
	start, end int
	menuRow    int // -1 when no menu is shown
	menuLines  int
}

type hitKind int

const (
	hitNone hitKind = iota
	hitRow
	hitMenu
	hitMenuItem
)

type hit struct {
	kind hitKind
	row  int
	item int
}

func (m Model) tableWidth() int {
	if m.width > 0 {
		return m.width
	}
	return defaultWidth
}

// layout windows the rows around the cursor so the table fits the terminal.
func (m Model) layout(v listctl.View) tableLayout {
	t := m.tab()
	l := tableLayout{end: len(v.Rows), menuRow: -1}

	avail := len(v.Rows)
	if m.height > 0 {
		reserved := chromeHeight
		if m.detail {
			reserved += detailHeight
		}
		if v.Menu.IsOpen() {
			reserved += len(menuItems) + 2
		}
		avail = max(m.height-reserved, 3)
	}
	if l.end-l.start > avail {
		l.start = max(0, t.cursor-avail+1)
		l.end = min(len(v.Rows), l.start+avail)
	}

	for i := l.start; i < l.end; i++ {
		if v.Menu.IsOpenFor(v.Rows[i].ID) {
			l.menuRow = i
			l.menuLines = len(menuItems) + 2
		}
	}
	return l
}

// hitTest classifies screen line y.
func (l tableLayout) hitTest(y int) hit {
	y -= rowsTop
	if y < 0 {
		return hit{}
	}
	for i := l.start; i < l.end; i++ {
		line := i - l.start
		if l.menuRow >= 0 && i > l.menuRow {
			line += l.menuLines
		}
		if y == line {
			return hit{kind: hitRow, row: i}
		}
	}
	if l.menuRow >= 0 {
		first := l.menuRow - l.start + 1
		if y >= first && y < first+l.menuLines {
			rel := y - first
			if rel >= 1 && rel <= len(menuItems) {
				return hit{kind: hitMenuItem, item: rel - 1}
			}
			return hit{kind: hitMenu}
		}
	}
	return hit{}
}

// View renders the active screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	t := m.tab()
	v := t.ctl.View()
	mode := m.mode(v)

	sections := []string{m.renderTabs(), m.renderTitleBar(v)}
	if mode == keymap.ModeForm {
		sections = append(sections, m.renderForm(t, v))
	} else {
		sections = append(sections, m.renderTable(t, v))
	}
	if mode == keymap.ModeConfirm {
		sections = append(sections, m.renderDialog(t, v))
	}
	if m.detail && mode != keymap.ModeForm {
		if d := m.renderDetail(t, v); d != "" {
			sections = append(sections, d)
		}
	}
	sections = append(sections, m.renderFooter(v))
	if m.toast != nil && m.now().Before(m.toast.expires) {
		sections = append(sections, m.renderToast())
	}
	sections = append(sections, styles.Active().HelpBar.Render(m.help.View(m.keymap.Help(mode))))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTabs() string {
	s := styles.Active()
	var parts []string
	for i, t := range m.tabs {
		label := fmt.Sprintf("%d %s", i+1, t.schema().Title)
		if i == m.active {
			parts = append(parts, s.TabActive.Render(label))
		} else {
			parts = append(parts, s.TabInactive.Render(label))
		}
	}
	return lipgloss.NewStyle().MaxWidth(m.tableWidth()).Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
}

// renderTitleBar is always one line: the screen title, the search box and
// any activity.
func (m Model) renderTitleBar(v listctl.View) string {
	s := styles.Active()
	parts := []string{s.Title.Render(m.tab().schema().Title)}

	switch {
	case m.searching:
		parts = append(parts, m.search.View())
	case v.Input != "":
		parts = append(parts, s.Muted.Render("search: ")+s.Text.Render(v.Input))
	}

	switch {
	case v.Loading:
		parts = append(parts, m.spinner.View()+s.Muted.Render("Loading…"))
	case v.Searching:
		parts = append(parts, s.Muted.Render("Searching…"))
	}
	return lipgloss.NewStyle().MaxWidth(m.tableWidth()).Render(strings.Join(parts, "  "))
}

func (m Model) renderTable(t *tab, v listctl.View) string {
	s := styles.Active()
	cols := t.schema().Columns
	width := m.tableWidth() - gutterWidth - triggerWidth
	widths := columnWidths(cols, width)
	sortable := t.sortableColumns()

	var header strings.Builder
	header.WriteString(strings.Repeat(" ", gutterWidth))
	for i, c := range cols {
		title := c.Title
		if v.Sort.Key == c.Key {
			title += " " + styles.SortIndicator(v.Sort.Direction == query.Desc)
		}
		style := s.TableHeader.UnsetBorderBottom()
		if len(sortable) > 0 && sortable[t.sortCol%len(sortable)].Key == c.Key {
			style = style.Foreground(s.Palette.Primary)
		}
		header.WriteString(style.Render(fit(title, widths[i])))
		if i < len(cols)-1 {
			header.WriteString(" ")
		}
	}

	lines := []string{s.TableHeader.Render(header.String())}
	if len(v.Rows) == 0 {
		lines = append(lines, "  "+s.Muted.Render(m.emptyMessage(v)))
		return strings.Join(lines, "\n")
	}

	l := m.layout(v)
	for i := l.start; i < l.end; i++ {
		rec := v.Rows[i]
		lines = append(lines, m.renderRow(t, v, rec, i == t.cursor, cols, widths))
		if i == l.menuRow {
			lines = append(lines, m.renderMenu(t))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) emptyMessage(v listctl.View) string {
	switch {
	case v.Loading && v.Fetched == 0:
		return "Loading…"
	case v.ListErr != nil && v.Fetched == 0:
		if errors.IsRetryable(v.ListErr) {
			return "Could not load records. Press r to retry."
		}
		return "Could not load records."
	case v.Fetched > 0 && v.Term != "":
		return fmt.Sprintf("No matches for %q on this page", v.Term)
	}
	return "No records"
}

func (m Model) renderRow(t *tab, v listctl.View, rec record.Record, selected bool, cols []listctl.Column, widths []int) string {
	s := styles.Active()
	engine := t.ctl.Engine()

	cells := make([]string, len(cols))
	for i, c := range cols {
		text := fit(cellText(engine, rec, c.Key), widths[i])
		if c.Kind == listctl.KindStatus && !selected {
			text = lipgloss.NewStyle().Foreground(s.StatusColor(rec.Status)).Render(text)
		}
		cells[i] = text
	}

	gutter := "  "
	if selected {
		gutter = "› "
	}
	trigger := " ⋯ "
	if v.Menu.IsOpenFor(rec.ID) {
		trigger = " ▾ "
	}
	line := gutter + strings.Join(cells, " ") + trigger

	switch {
	case v.Gate.ID == rec.ID && v.Gate.Phase == listctl.GateDeleting:
		return s.RowPending.Render(line)
	case selected:
		return s.RowSelected.Render(line)
	}
	return s.Row.Render(line)
}

func (m Model) renderMenu(t *tab) string {
	s := styles.Active()
	items := make([]string, len(menuItems))
	for i, it := range menuItems {
		if i == t.menuIdx {
			items[i] = s.MenuItemSelected.Render(it.label)
		} else {
			items[i] = s.MenuItem.Render(it.label)
		}
	}
	box := s.Menu.Render(lipgloss.JoinVertical(lipgloss.Left, items...))
	return lipgloss.NewStyle().MarginLeft(gutterWidth + 2).Render(box)
}

func (m Model) renderForm(t *tab, v listctl.View) string {
	s := styles.Active()
	noun := t.schema().SingularTitle()

	title := "New " + noun
	if v.Mutation.Mode == listctl.FormEditing {
		title = "Edit " + noun
	}
	lines := []string{s.TableHeader.Render(title)}

	for i, c := range t.schema().FormColumns() {
		if i >= len(t.inputs) {
			break
		}
		label := s.FormLabel
		if i == t.focus {
			label = s.FormLabelFocused
		}
		lines = append(lines, label.Render(c.Title)+t.inputs[i].View())
		if msg := v.Form.Errors[c.Key]; msg != "" {
			lines = append(lines, s.FormError.Render(msg))
		}
	}

	switch {
	case v.Mutation.Pending:
		lines = append(lines, "", m.spinner.View()+s.Muted.Render("Saving…"))
	case v.Mutation.Loading:
		lines = append(lines, "", m.spinner.View()+s.Muted.Render("Loading latest values…"))
	case v.Mutation.LastError != nil:
		lines = append(lines, "", s.Error.Render(errors.Describe(v.Mutation.LastError)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDialog(t *tab, v listctl.View) string {
	s := styles.Active()
	noun := t.schema().SingularTitle()

	label := v.Gate.ID
	if rec, ok := t.ctl.Record(v.Gate.ID); ok {
		if cols := t.schema().Columns; len(cols) > 0 {
			if text := cellText(t.ctl.Engine(), rec, cols[0].Key); text != "" {
				label = text
			}
		}
	}

	body := []string{
		s.DialogTitle.Render("Delete " + noun + "?"),
		fmt.Sprintf("%q will be permanently deleted.", truncate(label, 48)),
	}
	if v.Gate.Err != nil {
		body = append(body, "", s.Error.Render(errors.Describe(v.Gate.Err)))
	}
	if v.Gate.Phase == listctl.GateDeleting {
		body = append(body, "", m.spinner.View()+s.Muted.Render("Deleting…"))
	} else {
		body = append(body, "", s.Muted.Render("y delete · n keep"))
	}
	return s.Dialog.Render(strings.Join(body, "\n"))
}

func (m Model) renderDetail(t *tab, v listctl.View) string {
	id := m.selectedID(v)
	rec, ok := t.ctl.Record(id)
	if !ok {
		return ""
	}
	s := styles.Active()
	width := m.tableWidth() - 4

	idLine := rec.ID
	if rec.Synthetic {
		idLine += s.Warning.Render(" (generated, read-only)")
	}
	lines := []string{
		s.FormLabel.Render("ID") + idLine,
		s.FormLabel.Render("Created") + relativeTime(rec.CreatedAt, m.now()),
		s.FormLabel.Render("Status") + s.StatusBadge(rec.Status),
	}
	for _, c := range t.schema().Columns {
		// Status and creation time are shown above.
		if c.Kind == listctl.KindStatus || (c.Kind == listctl.KindDate && c.Key == createdKey(t.schema())) {
			continue
		}
		value := cellText(t.ctl.Engine(), rec, c.Key)
		switch c.Kind {
		case listctl.KindMarkdown:
			value = "\n" + m.markdown.render(rec.Text(c.Key), width-2)
		case listctl.KindNumber:
			if f, ok := rec.Get(c.Key).(float64); ok && f == float64(int64(f)) {
				value = formatCount(int(f))
			}
		}
		lines = append(lines, s.FormLabel.Render(c.Title)+value)
	}
	return s.Detail.Width(width).Render(strings.Join(lines, "\n"))
}

func createdKey(schema listctl.Schema) string {
	if schema.Rules.TimestampField != "" {
		return schema.Rules.TimestampField
	}
	return "createdAt"
}

// renderFooter shows the row range, the page buttons and the page size, or
// the list error.
func (m Model) renderFooter(v listctl.View) string {
	s := styles.Active()
	p := v.Page

	parts := []string{s.Muted.Render(summary(p))}
	if p.TotalPages > 1 {
		var buttons []string
		if p.HasPrev() {
			buttons = append(buttons, s.PageOther.Render("‹"))
		}
		for _, n := range p.PageNumbers() {
			if n == p.Page {
				buttons = append(buttons, s.PageCurrent.Render(fmt.Sprint(n)))
			} else {
				buttons = append(buttons, s.PageOther.Render(fmt.Sprint(n)))
			}
		}
		if p.HasNext() {
			buttons = append(buttons, s.PageOther.Render("›"))
		}
		parts = append(parts, strings.Join(buttons, ""))
	}
	parts = append(parts, s.Muted.Render(fmt.Sprintf("%d per page", p.Limit)))
	if m.rt.Offline() {
		parts = append(parts, s.Warning.Render("offline"))
	}
	line := strings.Join(parts, "  ")

	if v.ListErr != nil {
		line += "\n" + s.Error.Render("Failed to load: "+errors.Describe(v.ListErr))
		if errors.IsRetryable(v.ListErr) {
			line += s.Muted.Render("  (r to retry)")
		}
	}
	return line
}

func (m Model) renderToast() string {
	s := styles.Active()
	style := s.ToastSuccess
	if m.toast.isError {
		style = s.ToastError
	}
	text := m.toast.title
	if m.toast.screen != "" && m.toast.screen != m.tab().schema().Name {
		text = m.toast.screen + ": " + text
	}
	if m.toast.description != "" {
		text += " · " + m.toast.description
	}
	return style.Render(truncate(text, m.tableWidth()-2))
}
