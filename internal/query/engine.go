package query

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/Iron-Ham/backoffice/internal/record"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortSpec is the single active sort.
type SortSpec struct {
	Key       string
	Direction Direction
}

// Toggle returns the sort order after the operator selects key: the same key flips
// direction, a different key starts descending.
func (s SortSpec) Toggle(key string) SortSpec {
	if s.Key == key {
		if s.Direction == Desc {
			return SortSpec{Key: key, Direction: Asc}
		}
		return SortSpec{Key: key, Direction: Desc}
	}
	return SortSpec{Key: key, Direction: Desc}
}

// ParseSort reads "<key>[:asc|desc]". A bare key sorts ascending.
func ParseSort(s string) (SortSpec, error) {
	key, dir, _ := strings.Cut(s, ":")
	if key == "" {
		return SortSpec{}, fmt.Errorf("sort %q: missing column", s)
	}
	switch Direction(dir) {
	case "":
		return SortSpec{Key: key, Direction: Asc}, nil
	case Asc, Desc:
		return SortSpec{Key: key, Direction: Direction(dir)}, nil
	}
	return SortSpec{}, fmt.Errorf("sort %q: direction must be asc or desc", s)
}

// Value is a projected sort key. Numeric values compare numerically, text
// values lexicographically, and numbers order before text.
type Value struct {
	Num     float64
	Str     string
	Numeric bool
}

// Number wraps a numeric sort key.
func Number(f float64) Value {
	if math.IsNaN(f) {
		f = 0
	}
	return Value{Num: f, Numeric: true}
}

// Text wraps a textual sort key.
func Text(s string) Value {
	return Value{Str: s}
}

// NumberOf coerces a raw value to a numeric sort key; anything that is not a
// number degrades to 0.
func NumberOf(v any) Value {
	switch t := v.(type) {
	case float64:
		return Number(t)
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case bool:
		if t {
			return Number(1)
		}
		return Number(0)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return Number(f)
		}
	}
	return Number(0)
}

// Compare orders two projected values.
func Compare(a, b Value) int {
	switch {
	case a.Numeric && b.Numeric:
		return cmp.Compare(a.Num, b.Num)
	case !a.Numeric && !b.Numeric:
		return strings.Compare(a.Str, b.Str)
	case a.Numeric:
		return -1
	default:
		return 1
	}
}

// Engine derives the displayed rows from one fetched page.
type Engine struct {
	fields []Field
	byKey  map[string]int
}

// NewEngine creates an engine over the declared fields.
func NewEngine(fields []Field) *Engine {
	e := &Engine{
		fields: slices.Clone(fields),
		byKey:  make(map[string]int, len(fields)),
	}
	for i, f := range e.fields {
		e.byKey[f.Key] = i
	}
	return e
}

// Fields returns the declared fields in declaration order.
func (e *Engine) Fields() []Field {
	return e.fields
}

// Field looks up a declared field by key.
func (e *Engine) Field(key string) (Field, bool) {
	i, ok := e.byKey[key]
	if !ok {
		return Field{}, false
	}
	return e.fields[i], true
}

// Sortable reports whether key names a sortable field.
func (e *Engine) Sortable(key string) bool {
	f, ok := e.Field(key)
	return ok && f.Sortable
}

// NormalizeTerm trims and lower-cases a search term. Lower-casing is per
// rune so that extending a term always extends its normalized form.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// digitTerm returns the digit projection of a normalized term when the term
// qualifies for digit matching: it starts with a digit and has no letters.
func digitTerm(term string) (string, bool) {
	if term == "" {
		return "", false
	}
	for i, r := range term {
		if i == 0 && !unicode.IsDigit(r) {
			return "", false
		}
		if unicode.IsLetter(r) {
			return "", false
		}
	}
	return DigitsOnly(term), true
}

// Match reports whether rec matches the normalized term on any searchable
// field.
func (e *Engine) Match(rec record.Record, term string) bool {
	if term == "" {
		return true
	}
	digits, useDigits := digitTerm(term)
	for _, f := range e.fields {
		if !f.Searchable {
			continue
		}
		if strings.Contains(strings.ToLower(f.render(rec)), term) {
			return true
		}
		if useDigits && strings.Contains(f.digits(rec), digits) {
			return true
		}
	}
	return false
}

// Filter returns the records matching term, in source order, in a new slice.
func (e *Engine) Filter(recs []record.Record, term string) []record.Record {
	term = NormalizeTerm(term)
	out := make([]record.Record, 0, len(recs))
	for _, r := range recs {
		if e.Match(r, term) {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns recs ordered by spec in a new slice. The sort is stable and
// always starts from the given order, so records that tie keep their source
// order in both directions; flipping direction moves tied groups as blocks.
// A declared secondary field breaks ties in the same direction.
func (e *Engine) Sort(recs []record.Record, spec SortSpec) []record.Record {
	out := slices.Clone(recs)
	primary, ok := e.Field(spec.Key)
	if !ok || !primary.Sortable {
		return out
	}
	secondary, hasSecondary := e.Field(primary.Secondary)

	sign := 1
	if spec.Direction == Desc {
		sign = -1
	}
	slices.SortStableFunc(out, func(a, b record.Record) int {
		c := Compare(primary.sortValue(a), primary.sortValue(b))
		if c == 0 && hasSecondary {
			c = Compare(secondary.sortValue(a), secondary.sortValue(b))
		}
		return sign * c
	})
	return out
}

// Apply filters then sorts.
func (e *Engine) Apply(recs []record.Record, term string, spec SortSpec) []record.Record {
	return e.Sort(e.Filter(recs, term), spec)
}
