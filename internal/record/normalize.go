package record

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Iron-Ham/backoffice/internal/logging"
)

// DefaultIDFields are the id candidates tried when a schema declares none.
var DefaultIDFields = []string{"_id", "id"}

// Rules declares how a resource's raw payloads map onto Record.
type Rules struct {
	// IDFields are tried in order; the first non-empty value wins.
	IDFields []string
	// NaturalKey is tried after IDFields (e.g. "slug", "code").
	NaturalKey string
	// TimestampField holds the ordering timestamp (default "createdAt").
	TimestampField string
	// StatusField holds the activity flag (default "status").
	StatusField string
	// StatusDefault applies when the status field is absent or unrecognized.
	StatusDefault Status
}

// timeLayouts are tried in order for string timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalizer converts raw payloads into Records. It never fails: a payload
// without a usable id receives a generated one and is logged.
type Normalizer struct {
	rules  Rules
	newID  func() string
	logger *logging.Logger
}

// NewNormalizer creates a Normalizer. Zero-valued rule fields fall back to
// the package defaults.
func NewNormalizer(rules Rules, logger *logging.Logger) *Normalizer {
	if len(rules.IDFields) == 0 {
		rules.IDFields = DefaultIDFields
	}
	if rules.TimestampField == "" {
		rules.TimestampField = "createdAt"
	}
	if rules.StatusField == "" {
		rules.StatusField = "status"
	}
	if rules.StatusDefault == StatusUnknown {
		rules.StatusDefault = StatusActive
	}
	return &Normalizer{
		rules:  rules,
		newID:  func() string { return "gen-" + uuid.NewString() },
		logger: logger,
	}
}

// Rules returns the effective rules after defaults were applied.
func (n *Normalizer) Rules() Rules {
	return n.rules
}

// Normalize converts one raw payload.
func (n *Normalizer) Normalize(raw Raw) Record {
	rec := Record{
		Fields:    raw,
		CreatedAt: Epoch,
		Status:    n.rules.StatusDefault,
	}
	if raw == nil {
		rec.Fields = Raw{}
	}

	rec.ID = n.resolveID(rec.Fields)
	if rec.ID == "" {
		rec.ID = n.newID()
		rec.Synthetic = true
		n.logger.Warn("record without usable id, generated fallback",
			"fallback_id", rec.ID,
			"candidates", strings.Join(n.candidates(), ","))
	}

	if t, ok := ParseTime(rec.Fields[n.rules.TimestampField]); ok {
		rec.CreatedAt = t
	}

	if v, present := rec.Fields[n.rules.StatusField]; present {
		rec.Status = ResolveStatus(v, n.rules.StatusDefault)
	}

	return rec
}

// NormalizeAll converts a page of payloads into a freshly allocated slice.
// Ids are unique within the result: a repeated id is replaced by a generated
// one, the same way a missing id is.
func (n *Normalizer) NormalizeAll(raws []Raw) []Record {
	out := make([]Record, 0, len(raws))
	seen := make(map[string]bool, len(raws))
	for _, raw := range raws {
		rec := n.Normalize(raw)
		if seen[rec.ID] {
			dup := rec.ID
			rec.ID = n.newID()
			rec.Synthetic = true
			n.logger.Warn("duplicate record id in page, generated fallback",
				"id", dup,
				"fallback_id", rec.ID)
		}
		seen[rec.ID] = true
		out = append(out, rec)
	}
	return out
}

func (n *Normalizer) candidates() []string {
	c := append([]string(nil), n.rules.IDFields...)
	if n.rules.NaturalKey != "" {
		c = append(c, n.rules.NaturalKey)
	}
	return c
}

func (n *Normalizer) resolveID(fields Raw) string {
	for _, key := range n.candidates() {
		v, ok := fields[key]
		if !ok {
			continue
		}
		switch id := Unwrap(v).(type) {
		case string:
			if s := strings.TrimSpace(id); s != "" {
				return s
			}
		case float64:
			if !math.IsNaN(id) && !math.IsInf(id, 0) {
				return strconv.FormatFloat(id, 'f', -1, 64)
			}
		case json.Number:
			return id.String()
		case int, int64:
			return Stringify(id)
		}
	}
	return ""
}

// ParseTime resolves a timestamp value: RFC3339-like strings, dates, epoch
// seconds or epoch milliseconds, with one level of {"$date": v} unwrapped.
func ParseTime(v any) (time.Time, bool) {
	switch t := Unwrap(v).(type) {
	case time.Time:
		return t.UTC(), !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UTC(), true
			}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return fromEpoch(f)
		}
	case float64:
		return fromEpoch(t)
	case int64:
		return fromEpoch(float64(t))
	case int:
		return fromEpoch(float64(t))
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return fromEpoch(f)
		}
	}
	return time.Time{}, false
}

// maxEpochMillis is 9999-12-31T23:59:59.999Z.
const maxEpochMillis = 253402300799999

// fromEpoch treats values above 1e11 as milliseconds. Values past year 9999
// are rejected before the integer conversion.
func fromEpoch(f float64) (time.Time, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > maxEpochMillis {
		return time.Time{}, false
	}
	if f > 1e11 {
		return time.UnixMilli(int64(f)).UTC(), true
	}
	return time.Unix(int64(f), 0).UTC(), true
}

// ResolveStatus maps a raw status value. Boolean true and the string
// "active" (any case) are active; boolean false and "inactive" are inactive;
// anything else takes def.
func ResolveStatus(v any, def Status) Status {
	switch s := Unwrap(v).(type) {
	case bool:
		if s {
			return StatusActive
		}
		return StatusInactive
	case string:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "active":
			return StatusActive
		case "inactive":
			return StatusInactive
		}
	}
	return def
}
