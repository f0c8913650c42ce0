package listctl

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Iron-Ham/backoffice/internal/record"
)

// FormDateLayout is how date values are edited.
const FormDateLayout = "2006-01-02"

// Form holds the edit form's string values and its field errors.
type Form struct {
	Values map[string]string
	Errors map[string]string
}

func (f Form) clone() Form {
	return Form{Values: maps.Clone(f.Values), Errors: maps.Clone(f.Errors)}
}

// Value returns the current value of key.
func (f Form) Value(key string) string {
	return f.Values[key]
}

// blankForm returns the values a new record starts with.
func blankForm(cols []Column) Form {
	values := make(map[string]string, len(cols))
	for _, c := range cols {
		switch c.Kind {
		case KindStatus:
			values[c.Key] = record.StatusActive.String()
		case KindBool:
			values[c.Key] = "false"
		default:
			values[c.Key] = ""
		}
	}
	return Form{Values: values}
}

// formFromRecord renders a record's editable fields as form values.
func formFromRecord(cols []Column, statusField string, rec record.Record) Form {
	values := make(map[string]string, len(cols))
	for _, c := range cols {
		switch c.Kind {
		case KindStatus:
			if c.Key == statusField {
				values[c.Key] = rec.Status.String()
				continue
			}
			values[c.Key] = record.ResolveStatus(rec.Get(c.Key), record.StatusActive).String()
		case KindDate:
			if t, ok := record.ParseTime(rec.Get(c.Key)); ok {
				values[c.Key] = t.Format(FormDateLayout)
			} else {
				values[c.Key] = ""
			}
		case KindBool:
			b, _ := rec.Get(c.Key).(bool)
			values[c.Key] = strconv.FormatBool(b)
		default:
			values[c.Key] = rec.Text(c.Key)
		}
	}
	return Form{Values: values}
}

// FormValidator checks form values against per-column validator tags and
// coerces valid values into a typed payload.
type FormValidator struct {
	validate *validator.Validate
}

var (
	defaultValidatorOnce sync.Once
	defaultValidator     *FormValidator
)

// NewFormValidator creates a FormValidator.
func NewFormValidator() *FormValidator {
	return &FormValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func sharedValidator() *FormValidator {
	defaultValidatorOnce.Do(func() { defaultValidator = NewFormValidator() })
	return defaultValidator
}

// CheckRules reports whether a validator tag string is well formed.
func CheckRules(rules string) (err error) {
	if strings.TrimSpace(rules) == "" {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid rules %q: %v", rules, r)
		}
	}()
	_ = sharedValidator().validate.Var("", rules)
	return nil
}

// ruleFor combines the column's declared rules with the ones its kind
// implies. Columns that are not required accept an empty value.
func ruleFor(c Column) string {
	var parts []string
	for _, p := range strings.Split(c.Rules, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	implied := map[Kind]string{
		KindNumber: "numeric",
		KindBool:   "boolean",
		KindStatus: "oneof=active inactive",
		KindDate:   "datetime=" + FormDateLayout,
	}[c.Kind]
	if implied != "" && !slices.Contains(parts, implied) {
		parts = append(parts, implied)
	}
	if len(parts) == 0 {
		return ""
	}
	if !slices.Contains(parts, "required") && !slices.Contains(parts, "omitempty") {
		parts = append([]string{"omitempty"}, parts...)
	}
	return strings.Join(parts, ",")
}

// Validate checks values for the given columns. It returns the coerced
// payload, or field errors keyed by column when any value is invalid.
func (v *FormValidator) Validate(cols []Column, values map[string]string) (record.Raw, map[string]string) {
	data := make(map[string]any, len(cols))
	rules := make(map[string]any, len(cols))
	for _, c := range cols {
		data[c.Key] = strings.TrimSpace(values[c.Key])
		if r := ruleFor(c); r != "" {
			rules[c.Key] = r
		}
	}

	fieldErrs := make(map[string]string)
	for key, err := range v.validate.ValidateMap(data, rules) {
		fieldErrs[key] = describeFieldError(err)
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	payload := make(record.Raw, len(cols))
	for _, c := range cols {
		payload[c.Key] = coerce(c, data[c.Key].(string))
	}
	return payload, nil
}

func coerce(c Column, s string) any {
	switch c.Kind {
	case KindNumber:
		if s == "" {
			return nil
		}
		f, _ := strconv.ParseFloat(s, 64)
		return f
	case KindBool:
		b, _ := strconv.ParseBool(s)
		return b
	case KindStatus:
		if s == "" {
			return record.StatusActive.String()
		}
		return s
	default:
		return s
	}
}

func describeFieldError(v any) string {
	err, ok := v.(error)
	if !ok {
		return "is invalid"
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return err.Error()
	}
	fe := ves[0]
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "numeric", "number":
		return "must be a number"
	case "boolean":
		return "must be true or false"
	case "email":
		return "must be a valid email address"
	case "url", "http_url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be a date (YYYY-MM-DD)"
	case "alphanum":
		return "may only contain letters and digits"
	case "lowercase":
		return "must be lower case"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
