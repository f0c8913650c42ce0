package devserver

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Iron-Ham/backoffice/internal/config"
	"github.com/Iron-Ham/backoffice/internal/record"
)

// seedNamespace makes sample ids stable across runs.
var seedNamespace = uuid.MustParse("6f1c1c1e-8a43-4b52-9d1f-3c7a2f0d9e11")

// SampleRecords returns n sample records for screen, newest first. The
// payloads vary the way real admin APIs do: "_id" or "id", timestamps as
// strings, {"$date": ...} wrappers or epoch milliseconds, and statuses as
// booleans or strings. When the screen has a natural key, every eleventh
// record carries no id at all.
func SampleRecords(s config.ScreenConfig, n int, now time.Time) []record.Raw {
	idFields := s.IDFields
	if len(idFields) == 0 {
		idFields = record.DefaultIDFields
	}
	tsField := s.TimestampField
	if tsField == "" {
		tsField = "createdAt"
	}
	statusField := s.StatusField
	if statusField == "" {
		statusField = "status"
	}

	out := make([]record.Raw, 0, n)
	for i := range n {
		raw := record.Raw{}
		id := uuid.NewSHA1(seedNamespace, []byte(fmt.Sprintf("%s/%d", s.Name, i))).String()
		switch {
		case s.NaturalKey != "" && i%11 == 10:
		case i%2 == 0:
			raw[idFields[0]] = id
		default:
			raw[idFields[len(idFields)-1]] = id
		}

		created := now.Add(-time.Duration(i) * 90 * time.Minute).UTC()
		switch i % 3 {
		case 0:
			raw[tsField] = created.Format(time.RFC3339)
		case 1:
			raw[tsField] = map[string]any{"$date": created.Format(time.RFC3339Nano)}
		default:
			raw[tsField] = float64(created.UnixMilli())
		}

		for _, col := range s.Columns {
			switch {
			case col.Key == tsField:
			case col.Key == statusField || col.Kind == "status":
				if v, ok := sampleStatus(i); ok {
					raw[col.Key] = v
				}
			default:
				raw[col.Key] = sampleValue(s, col, i, now)
			}
		}
		out = append(out, raw)
	}
	return out
}

func sampleStatus(i int) (any, bool) {
	switch {
	case i%7 == 6:
		return nil, false
	case i%2 == 0:
		return i%4 == 0, true
	case i%4 == 1:
		return "inactive", true
	default:
		return "active", true
	}
}

func sampleValue(s config.ScreenConfig, col config.ColumnConfig, i int, now time.Time) any {
	if opts, ok := oneOf(col.Rules); ok {
		return opts[i%len(opts)]
	}
	switch col.Kind {
	case "number":
		if col.Key == "position" {
			return float64(i + 1)
		}
		return float64((i*37)%97+1) + 0.5*float64(i%2)
	case "bool":
		return i%3 != 0
	case "date":
		return now.Add(time.Duration(i+1) * 24 * time.Hour).UTC().Format(time.RFC3339)
	case "markdown":
		return fmt.Sprintf("## %s %d\n\nSample **%s** entry number %d.\n\n- first point\n- second point\n",
			singular(s), i+1, strings.ToLower(col.Title), i+1)
	}

	key := strings.ToLower(col.Key)
	switch {
	case strings.Contains(key, "email"):
		return fmt.Sprintf("customer%02d@example.com", i+1)
	case key == "phone":
		return fmt.Sprintf("+1 555 %04d", 1000+i)
	case key == "ip":
		return fmt.Sprintf("10.0.%d.%d", i/250, i%250+1)
	case key == "slug" || key == "code":
		return fmt.Sprintf("%s-%02d", strings.ToLower(strings.ReplaceAll(singular(s), " ", "-")), i+1)
	case key == "reference" || key == "number":
		prefix := strings.ToUpper(s.Name)
		if len(prefix) > 2 {
			prefix = prefix[:2]
		}
		return fmt.Sprintf("%s-%05d", prefix, 10000+i)
	}
	return fmt.Sprintf("%s %d", col.Title, i+1)
}

func singular(s config.ScreenConfig) string {
	if s.Singular != "" {
		return s.Singular
	}
	return s.Title
}

// oneOf extracts the options of a oneof= rule.
func oneOf(rules string) ([]string, bool) {
	for _, rule := range strings.Split(rules, ",") {
		if opts, ok := strings.CutPrefix(rule, "oneof="); ok {
			fields := strings.Fields(opts)
			return fields, len(fields) > 0
		}
	}
	return nil, false
}

// RequiredFields lists the columns whose rules include "required".
func RequiredFields(s config.ScreenConfig) []string {
	var out []string
	for _, col := range s.Columns {
		for _, rule := range strings.Split(col.Rules, ",") {
			if strings.TrimSpace(rule) == "required" {
				out = append(out, col.Key)
				break
			}
		}
	}
	return out
}
