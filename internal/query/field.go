// Package query implements the client-side search and sort engine used by
// every list screen: field accessors, the substring/digit matcher, and a
// stable sort with explicit tie semantics.
package query

import (
	"strings"
	"time"
	"unicode"

	"github.com/Iron-Ham/backoffice/internal/record"
)

// DisplayDateLayout is how time fields render in tables.
const DisplayDateLayout = "Jan 02, 2006"

// digitDateLayout feeds the digit projection of time fields, so that
// "2024-01" finds a row rendered as "Jan 02, 2024".
const digitDateLayout = "2006-01-02 15:04"

// Field describes one declared column: how it renders, how it is matched and
// how it sorts. Display is required; the other accessors are optional.
type Field struct {
	Key   string
	Title string

	// Display renders the cell text. Search matches against it.
	Display func(record.Record) string
	// Digits provides the source for the digit-only projection. When nil the
	// projection is taken from Display.
	Digits func(record.Record) string
	// SortValue projects the sort key. When nil, Display is compared as text.
	SortValue func(record.Record) Value

	Searchable bool
	Sortable   bool

	// Secondary names a field that breaks ties for this key.
	Secondary string
}

// render is Display with a nil guard.
func (f Field) render(r record.Record) string {
	if f.Display == nil {
		return r.Text(f.Key)
	}
	return f.Display(r)
}

// digits returns the digit-only projection of the field.
func (f Field) digits(r record.Record) string {
	if f.Digits != nil {
		return DigitsOnly(f.Digits(r))
	}
	return DigitsOnly(f.render(r))
}

// sortValue projects the sort key with a nil guard.
func (f Field) sortValue(r record.Record) Value {
	if f.SortValue == nil {
		return Text(f.render(r))
	}
	return f.SortValue(r)
}

// TextField renders the raw value as text.
func TextField(key, title string) Field {
	return Field{
		Key:        key,
		Title:      title,
		Display:    func(r record.Record) string { return r.Text(key) },
		Searchable: true,
		Sortable:   true,
	}
}

// NumberField renders and sorts the value numerically. Values that are not
// numbers sort as 0.
func NumberField(key, title string) Field {
	return Field{
		Key:     key,
		Title:   title,
		Display: func(r record.Record) string { return r.Text(key) },
		SortValue: func(r record.Record) Value {
			return NumberOf(r.Get(key))
		},
		Searchable: true,
		Sortable:   true,
	}
}

// TimeField renders the value as "Jan 02, 2006", sorts by epoch millis and
// projects digits from the ISO form. Unparseable values render empty and
// sort as 0.
func TimeField(key, title string) Field {
	parse := func(r record.Record) (time.Time, bool) {
		return record.ParseTime(r.Get(key))
	}
	return Field{
		Key:   key,
		Title: title,
		Display: func(r record.Record) string {
			t, ok := parse(r)
			if !ok {
				return ""
			}
			return t.Format(DisplayDateLayout)
		},
		Digits: func(r record.Record) string {
			t, ok := parse(r)
			if !ok {
				return ""
			}
			return t.Format(digitDateLayout)
		},
		SortValue: func(r record.Record) Value {
			t, ok := parse(r)
			if !ok {
				return Number(0)
			}
			return Number(float64(t.UnixMilli()))
		},
		Searchable: true,
		Sortable:   true,
	}
}

// CreatedField renders the normalized CreatedAt of the record, so it sorts
// consistently even when the raw payload was wrapped or missing.
func CreatedField(key, title string) Field {
	f := TimeField(key, title)
	f.Display = func(r record.Record) string {
		if r.CreatedAt.Equal(record.Epoch) {
			return ""
		}
		return r.CreatedAt.Format(DisplayDateLayout)
	}
	f.Digits = func(r record.Record) string {
		if r.CreatedAt.Equal(record.Epoch) {
			return ""
		}
		return r.CreatedAt.Format(digitDateLayout)
	}
	f.SortValue = func(r record.Record) Value {
		return Number(float64(r.CreatedAt.UnixMilli()))
	}
	return f
}

// StatusField renders the normalized status. Active sorts above inactive.
func StatusField(key, title string) Field {
	return Field{
		Key:     key,
		Title:   title,
		Display: func(r record.Record) string { return r.Status.String() },
		SortValue: func(r record.Record) Value {
			switch r.Status {
			case record.StatusActive:
				return Number(2)
			case record.StatusInactive:
				return Number(1)
			}
			return Number(0)
		},
		Searchable: true,
		Sortable:   true,
	}
}

// BoolField renders booleans as yes/no.
func BoolField(key, title string) Field {
	return Field{
		Key:   key,
		Title: title,
		Display: func(r record.Record) string {
			switch v := r.Get(key).(type) {
			case bool:
				if v {
					return "yes"
				}
				return "no"
			case nil:
				return ""
			default:
				return record.Stringify(v)
			}
		},
		Searchable: false,
		Sortable:   true,
	}
}

// DigitsOnly strips everything but ASCII and Unicode decimal digits.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
