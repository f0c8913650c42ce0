package listctl

import (
	"fmt"
	"slices"

	"github.com/Iron-Ham/backoffice/internal/query"
	"github.com/Iron-Ham/backoffice/internal/record"
)

// Kind selects how a column renders, sorts, validates and coerces.
type Kind string

const (
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindBool     Kind = "bool"
	KindStatus   Kind = "status"
	KindDate     Kind = "date"
	KindMarkdown Kind = "markdown"
)

// ValidKinds lists the accepted column kinds.
func ValidKinds() []Kind {
	return []Kind{KindText, KindNumber, KindBool, KindStatus, KindDate, KindMarkdown}
}

// Column declares one field of a resource.
type Column struct {
	Key        string
	Title      string
	Kind       Kind
	Searchable bool
	Sortable   bool
	// Editable columns appear in the create/edit form.
	Editable bool
	// Rules is a validator tag such as "required,max=120".
	Rules string
	// Secondary names the column that breaks ties when sorting by this one.
	Secondary string
}

// Schema declares everything the controller needs to know about a resource.
type Schema struct {
	Name     string
	Title    string
	Singular string
	Columns  []Column
	Rules    record.Rules
	// DefaultSort applies until the operator toggles a column.
	DefaultSort query.SortSpec
	// ServerSearch forwards the debounced term to the API as the list query.
	// Otherwise search only filters the fetched page.
	ServerSearch bool
}

// Validate checks the schema for structural mistakes.
func (s Schema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("schema: name is required")
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("schema %s: at least one column is required", s.Name)
	}
	seen := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		if c.Key == "" {
			return fmt.Errorf("schema %s: column without key", s.Name)
		}
		if seen[c.Key] {
			return fmt.Errorf("schema %s: duplicate column %q", s.Name, c.Key)
		}
		seen[c.Key] = true
		if !slices.Contains(ValidKinds(), c.Kind) {
			return fmt.Errorf("schema %s: column %q has unknown kind %q", s.Name, c.Key, c.Kind)
		}
		if err := CheckRules(c.Rules); err != nil {
			return fmt.Errorf("schema %s: column %q: %w", s.Name, c.Key, err)
		}
	}
	for _, c := range s.Columns {
		if c.Secondary != "" && !seen[c.Secondary] {
			return fmt.Errorf("schema %s: column %q: unknown secondary %q", s.Name, c.Key, c.Secondary)
		}
	}
	if s.DefaultSort.Key != "" && !seen[s.DefaultSort.Key] {
		return fmt.Errorf("schema %s: default sort on unknown column %q", s.Name, s.DefaultSort.Key)
	}
	return nil
}

// Column looks up a column by key.
func (s Schema) Column(key string) (Column, bool) {
	i := slices.IndexFunc(s.Columns, func(c Column) bool { return c.Key == key })
	if i < 0 {
		return Column{}, false
	}
	return s.Columns[i], true
}

// FormColumns returns the editable columns in declaration order.
func (s Schema) FormColumns() []Column {
	var out []Column
	for _, c := range s.Columns {
		if c.Editable {
			out = append(out, c)
		}
	}
	return out
}

// SingularTitle is the noun used in notifications.
func (s Schema) SingularTitle() string {
	if s.Singular != "" {
		return s.Singular
	}
	if s.Title != "" {
		return s.Title
	}
	return s.Name
}

// Fields builds the search and sort accessors for the columns.
func (s Schema) Fields() []query.Field {
	timestampField := s.Rules.TimestampField
	if timestampField == "" {
		timestampField = "createdAt"
	}
	statusField := s.Rules.StatusField
	if statusField == "" {
		statusField = "status"
	}

	fields := make([]query.Field, 0, len(s.Columns))
	for _, c := range s.Columns {
		var f query.Field
		switch {
		case c.Kind == KindDate && c.Key == timestampField:
			f = query.CreatedField(c.Key, c.Title)
		case c.Kind == KindDate:
			f = query.TimeField(c.Key, c.Title)
		case c.Kind == KindStatus && c.Key == statusField:
			f = query.StatusField(c.Key, c.Title)
		case c.Kind == KindNumber:
			f = query.NumberField(c.Key, c.Title)
		case c.Kind == KindBool:
			f = query.BoolField(c.Key, c.Title)
		default:
			f = query.TextField(c.Key, c.Title)
		}
		f.Searchable = c.Searchable
		f.Sortable = c.Sortable
		f.Secondary = c.Secondary
		fields = append(fields, f)
	}
	return fields
}
