// Package styles holds the color themes and lipgloss styles of the terminal
// UI.
package styles

import "github.com/Iron-Ham/backoffice/internal/record"

// StatusIcon returns the icon shown next to a record status.
func StatusIcon(st record.Status) string {
	switch st {
	case record.StatusActive:
		return "●"
	case record.StatusInactive:
		return "○"
	default:
		return "?"
	}
}

// SortIndicator returns the arrow shown next to a sorted column title.
func SortIndicator(desc bool) string {
	if desc {
		return "▼"
	}
	return "▲"
}
