package tui

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Iron-Ham/backoffice/internal/listctl"
	"github.com/Iron-Ham/backoffice/internal/query"
	"github.com/Iron-Ham/backoffice/internal/record"
)

// printer formats counts with thousands separators.
var printer = message.NewPrinter(language.English)

// ellipsis marks truncated cells.
const ellipsis = "…"

// fit truncates s to width display cells and pads it to exactly width.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\n", " ")
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, ellipsis)
	}
	return runewidth.FillRight(s, width)
}

// truncate shortens s to limit display cells without padding.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= limit {
		return s
	}
	return runewidth.Truncate(s, limit, ellipsis)
}

// cellText renders the column of rec the way search sees it.
func cellText(engine *query.Engine, rec record.Record, key string) string {
	f, ok := engine.Field(key)
	if !ok || f.Display == nil {
		return rec.Text(key)
	}
	return f.Display(rec)
}

// columnWidths spreads width across cols. Fixed-size kinds get what they
// need; text columns share the rest.
func columnWidths(cols []listctl.Column, width int) []int {
	widths := make([]int, len(cols))
	var flexible []int
	used := 0
	for i, c := range cols {
		title := runewidth.StringWidth(c.Title) + 2
		switch c.Kind {
		case listctl.KindStatus:
			widths[i] = max(12, title)
		case listctl.KindDate:
			widths[i] = max(len(query.DisplayDateLayout), title)
		case listctl.KindBool:
			widths[i] = max(5, title)
		case listctl.KindNumber:
			widths[i] = max(8, title)
		default:
			flexible = append(flexible, i)
			continue
		}
		used += widths[i] + 1
	}
	if len(flexible) == 0 {
		return widths
	}
	rest := max(width-used-len(flexible), 8*len(flexible))
	share := rest / len(flexible)
	for n, i := range flexible {
		widths[i] = share
		if n == len(flexible)-1 {
			widths[i] = rest - share*(len(flexible)-1)
		}
	}
	return widths
}

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// summary is the "Showing a-b of n" footer text.
func summary(p listctl.PageState) string {
	if p.TotalRecords == 0 {
		return "No records"
	}
	return printer.Sprintf("Showing %d-%d of %d", p.StartRow(), p.EndRow(), p.TotalRecords)
}

// relativeTime renders t with its humanized distance from now.
func relativeTime(t, now time.Time) string {
	if t.IsZero() || t.Equal(record.Epoch) {
		return "unknown"
	}
	return t.Format("Jan 02, 2006 15:04") + " (" + humanize.RelTime(t, now, "ago", "from now") + ")"
}

// nextLimit returns the option after current, wrapping around.
func nextLimit(options []int, current int) int {
	if len(options) == 0 {
		return current
	}
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}
