package resource

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/backoffice/internal/errors"
	"github.com/Iron-Ham/backoffice/internal/record"
)

func seedN(n int) []record.Raw {
	out := make([]record.Raw, n)
	for i := range out {
		out[i] = record.Raw{"id": fmt.Sprintf("r%02d", i+1), "title": fmt.Sprintf("Record %d", i+1)}
	}
	return out
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{23, 10, 3},
		{5, 0, 1},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestMemoryClientPaging(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryClient("faqs", seedN(23))

	res, err := m.List(ctx, ListParams{Page: 3, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res.Records, 3)
	require.Equal(t, 3, res.Page)
	require.Equal(t, 3, res.TotalPages)
	require.Equal(t, 23, res.TotalRecords)

	res, err = m.List(ctx, ListParams{Page: 9, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 3, res.Page, "out of range page clamps to last page")
	require.Len(t, res.Records, 3)
}

func TestMemoryClientWithoutPageClamp(t *testing.T) {
	m := NewMemoryClient("faqs", seedN(5), WithoutPageClamp())
	res, err := m.List(context.Background(), ListParams{Page: 2, Limit: 5})
	require.NoError(t, err)
	require.Equal(t, 2, res.Page)
	require.Empty(t, res.Records)
	require.Equal(t, 1, res.TotalPages)
}

func TestMemoryClientQuery(t *testing.T) {
	m := NewMemoryClient("faqs", seedN(12))
	res, err := m.List(context.Background(), ListParams{Page: 1, Limit: 10, Query: " RECORD 1"})
	require.NoError(t, err)
	// Record 1, 10, 11, 12
	require.Equal(t, 4, res.TotalRecords)
}

func TestMemoryClientReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryClient("faqs", seedN(1))

	res, err := m.List(ctx, ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	res.Records[0]["title"] = "changed"

	got, err := m.Get(ctx, "r01")
	require.NoError(t, err)
	require.Equal(t, "Record 1", got["title"])
}

func TestMemoryClientMutations(t *testing.T) {
	ctx := context.Background()
	clock := func() time.Time { return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) }
	m := NewMemoryClient("categories", seedN(2), WithIDFields("_id", "id"), WithClock(clock), WithRequired("title"))

	created, err := m.Create(ctx, record.Raw{"title": "New"})
	require.NoError(t, err)
	require.NotEmpty(t, created["_id"])
	require.Equal(t, "2024-01-02T00:00:00Z", created["createdAt"])

	res, err := m.List(ctx, ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, "New", res.Records[0]["title"], "created record is newest")

	_, err = m.Create(ctx, record.Raw{"title": "  "})
	v, ok := errors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, "is required", v.Fields["title"])

	updated, err := m.Update(ctx, "r01", record.Raw{"title": "Renamed", "id": "hijack"})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated["title"])
	require.Equal(t, "r01", updated["id"])

	_, err = m.Update(ctx, "missing", record.Raw{"title": "x"})
	require.True(t, errors.IsNotFound(err))

	require.NoError(t, m.Delete(ctx, "r01"))
	require.Equal(t, 2, m.Len())
	require.True(t, errors.IsNotFound(m.Delete(ctx, "r01")))
}

func TestMemoryClientFailNext(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryClient("orders", seedN(1))
	m.FailNext("list", errors.NewFetchError("list", nil).WithStatus(503))

	_, err := m.List(ctx, ListParams{Page: 1, Limit: 10})
	require.True(t, errors.IsFetch(err))

	_, err = m.List(ctx, ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 2, m.Calls("list"))
}

func TestMemoryClientLatencyHonorsContext(t *testing.T) {
	m := NewMemoryClient("orders", seedN(1), WithLatency(time.Second))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := m.List(ctx, ListParams{Page: 1, Limit: 10})
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, time.Since(start), 500*time.Millisecond)
}
