package record

import (
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/backoffice/internal/logging"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name      string
		rules     Rules
		raw       Raw
		wantID    string
		synthetic bool
	}{
		{
			name:   "prefers _id over id",
			raw:    Raw{"_id": "a1", "id": "b2"},
			wantID: "a1",
		},
		{
			name:   "falls through empty candidate",
			raw:    Raw{"_id": "  ", "id": "b2"},
			wantID: "b2",
		},
		{
			name:   "numeric id",
			raw:    Raw{"id": float64(42)},
			wantID: "42",
		},
		{
			name:   "unwraps $oid",
			raw:    Raw{"_id": map[string]any{"$oid": "65f0"}},
			wantID: "65f0",
		},
		{
			name:   "natural key after id fields",
			rules:  Rules{NaturalKey: "slug"},
			raw:    Raw{"slug": "summer-sale"},
			wantID: "summer-sale",
		},
		{
			name:      "generates fallback",
			raw:       Raw{"title": "orphan"},
			synthetic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer(tt.rules, logging.NopLogger())
			rec := n.Normalize(tt.raw)

			if rec.Synthetic != tt.synthetic {
				t.Errorf("Synthetic = %v, want %v", rec.Synthetic, tt.synthetic)
			}
			if tt.synthetic {
				if !strings.HasPrefix(rec.ID, "gen-") {
					t.Errorf("fallback id %q missing gen- prefix", rec.ID)
				}
				return
			}
			if rec.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", rec.ID, tt.wantID)
			}
		})
	}
}

func TestNormalizeFallbackIDsAreUnique(t *testing.T) {
	n := NewNormalizer(Rules{}, logging.NopLogger())
	recs := n.NormalizeAll([]Raw{{}, {}, {}})

	seen := make(map[string]bool)
	for _, r := range recs {
		if seen[r.ID] {
			t.Fatalf("duplicate fallback id %q", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestNormalizeAllReplacesDuplicateIDs(t *testing.T) {
	n := NewNormalizer(Rules{}, logging.NopLogger())
	recs := n.NormalizeAll([]Raw{{"id": "a"}, {"id": "a"}, {"id": "b"}})

	if recs[0].ID != "a" || recs[0].Synthetic {
		t.Errorf("first occurrence changed: %+v", recs[0])
	}
	if recs[1].ID == "a" || !recs[1].Synthetic {
		t.Errorf("duplicate kept its id: %+v", recs[1])
	}
	if recs[2].ID != "b" {
		t.Errorf("third id = %q", recs[2].ID)
	}
}

func TestNormalizeTimestamp(t *testing.T) {
	want := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name string
		v    any
		want time.Time
	}{
		{"rfc3339", "2024-01-02T15:04:05Z", want},
		{"wrapped", map[string]any{"$date": "2024-01-02T15:04:05Z"}, want},
		{"epoch millis", float64(want.UnixMilli()), want},
		{"epoch seconds", float64(want.Unix()), want},
		{"wrapped millis", map[string]any{"$date": float64(want.UnixMilli())}, want},
		{"date only", "2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"garbage", "not a date", Epoch},
		{"missing", nil, Epoch},
		{"epoch beyond int64", float64(1e20), Epoch},
		{"epoch past year 9999", float64(3e14), Epoch},
		{"epoch string beyond int64", "1e20", Epoch},
		{"double wrapped stays unparsed", map[string]any{"$date": map[string]any{"$date": "2024-01-02"}}, Epoch},
	}

	n := NewNormalizer(Rules{}, logging.NopLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := Raw{"id": "x"}
			if tt.v != nil {
				raw["createdAt"] = tt.v
			}
			rec := n.Normalize(raw)
			if !rec.CreatedAt.Equal(tt.want) {
				t.Errorf("CreatedAt = %v, want %v", rec.CreatedAt, tt.want)
			}
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name string
		def  Status
		raw  Raw
		want Status
	}{
		{"bool true", StatusUnknown, Raw{"status": true}, StatusActive},
		{"bool false", StatusUnknown, Raw{"status": false}, StatusInactive},
		{"active any case", StatusUnknown, Raw{"status": "ACTIVE"}, StatusActive},
		{"inactive string", StatusUnknown, Raw{"status": "inactive"}, StatusInactive},
		{"absent defaults active", StatusUnknown, Raw{}, StatusActive},
		{"absent uses declared default", StatusInactive, Raw{}, StatusInactive},
		{"unrecognized uses default", StatusInactive, Raw{"status": "pending"}, StatusInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer(Rules{StatusDefault: tt.def}, logging.NopLogger())
			tt.raw["id"] = "x"
			if got := n.Normalize(tt.raw).Status; got != tt.want {
				t.Errorf("Status = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeAllAllocatesNewSlice(t *testing.T) {
	n := NewNormalizer(Rules{}, logging.NopLogger())
	raws := []Raw{{"id": "1"}, {"id": "2"}}

	first := n.NormalizeAll(raws)
	second := n.NormalizeAll(raws)
	second[0].ID = "changed"

	if first[0].ID != "1" {
		t.Errorf("previous cycle mutated: %q", first[0].ID)
	}
}

func TestRecordText(t *testing.T) {
	rec := Record{Fields: Raw{
		"price":   float64(12.5),
		"enabled": true,
		"when":    map[string]any{"$date": "2024-01-02"},
	}}

	if got := rec.Text("price"); got != "12.5" {
		t.Errorf("price = %q", got)
	}
	if got := rec.Text("enabled"); got != "true" {
		t.Errorf("enabled = %q", got)
	}
	if got := rec.Text("when"); got != "2024-01-02" {
		t.Errorf("when = %q", got)
	}
	if got := rec.Text("missing"); got != "" {
		t.Errorf("missing = %q", got)
	}
}
