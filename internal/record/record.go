// Package record defines the canonical record shape shared by every admin
// screen and the normalizer that produces it from raw API payloads.
package record

import (
	"fmt"
	"strconv"
	"time"
)

// Raw is one record as decoded from the resource API.
type Raw = map[string]any

// Status is the tri-state activity flag resolved during normalization.
type Status int

const (
	StatusUnknown Status = iota
	StatusActive
	StatusInactive
)

// String returns the lower-case display form of s.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// ParseStatus maps "active", "inactive" and "unknown" to a Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "active", "":
		return StatusActive, nil
	case "inactive":
		return StatusInactive, nil
	case "unknown":
		return StatusUnknown, nil
	}
	return StatusUnknown, fmt.Errorf("invalid status %q", s)
}

// Epoch is the sentinel timestamp for records without a usable one.
var Epoch = time.Unix(0, 0).UTC()

// Record is a normalized record. Fields holds the raw payload and must be
// treated as read-only; a refetch produces new Records rather than mutating
// existing ones.
type Record struct {
	ID        string
	CreatedAt time.Time
	Status    Status
	Fields    Raw

	// Synthetic is true when ID was generated because no candidate field
	// carried a usable identifier.
	Synthetic bool
}

// Get returns the raw value for key with one level of {"$date": v} or
// {"$oid": v} wrapping removed.
func (r Record) Get(key string) any {
	if r.Fields == nil {
		return nil
	}
	return Unwrap(r.Fields[key])
}

// Text renders the value for key as a string. Missing values render empty.
func (r Record) Text(key string) string {
	return Stringify(r.Get(key))
}

// Clone returns a copy of the record's fields, suitable for building an edit
// payload without touching the rendered row.
func (r Record) Clone() Raw {
	out := make(Raw, len(r.Fields))
	for k, v := range r.Fields {
		out[k] = v
	}
	return out
}

// Unwrap removes one level of Mongo-style extended JSON wrapping.
func Unwrap(v any) any {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return v
	}
	if inner, ok := m["$date"]; ok {
		return inner
	}
	if inner, ok := m["$oid"]; ok {
		return inner
	}
	return v
}

// Stringify renders scalar API values the way they appear in a table cell.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
