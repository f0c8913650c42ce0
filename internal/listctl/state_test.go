package listctl

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/backoffice/internal/resource"
)

func TestPageStateRows(t *testing.T) {
	tests := []struct {
		name               string
		ps                 PageState
		wantStart, wantEnd int
		wantPrev, wantNext bool
		wantNumbers        []int
	}{
		{
			name:        "empty",
			ps:          PageState{Page: 1, Limit: 10, TotalPages: 1},
			wantNumbers: []int{1},
		},
		{
			name:        "middle page",
			ps:          PageState{Page: 2, Limit: 10, TotalPages: 3, TotalRecords: 23},
			wantStart:   11,
			wantEnd:     20,
			wantPrev:    true,
			wantNext:    true,
			wantNumbers: []int{1, 2, 3},
		},
		{
			name:        "short last page",
			ps:          PageState{Page: 3, Limit: 10, TotalPages: 3, TotalRecords: 23},
			wantStart:   21,
			wantEnd:     23,
			wantPrev:    true,
			wantNumbers: []int{1, 2, 3},
		},
		{
			name:        "window centred",
			ps:          PageState{Page: 6, Limit: 10, TotalPages: 12, TotalRecords: 120},
			wantStart:   51,
			wantEnd:     60,
			wantPrev:    true,
			wantNext:    true,
			wantNumbers: []int{4, 5, 6, 7, 8},
		},
		{
			name:        "window pinned to end",
			ps:          PageState{Page: 12, Limit: 10, TotalPages: 12, TotalRecords: 120},
			wantStart:   111,
			wantEnd:     120,
			wantPrev:    true,
			wantNumbers: []int{8, 9, 10, 11, 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.wantStart, tt.ps.StartRow())
			require.Equal(t, tt.wantEnd, tt.ps.EndRow())
			require.Equal(t, tt.wantPrev, tt.ps.HasPrev())
			require.Equal(t, tt.wantNext, tt.ps.HasNext())
			require.Equal(t, tt.wantNumbers, tt.ps.PageNumbers())
		})
	}
}

func TestPageStateInRange(t *testing.T) {
	ps := PageState{Page: 1, Limit: 10, TotalPages: 3}
	for n, want := range map[int]bool{-1: false, 0: false, 1: true, 3: true, 4: false} {
		require.Equal(t, want, ps.InRange(n), "page %d", n)
	}
}

func TestClampPolicy(t *testing.T) {
	tests := []struct {
		policy     ClampPolicy
		page, rows int
		want       int
	}{
		{ClampToLast, 3, 1, 2},
		{ClampToLast, 3, 2, 3},
		{ClampToLast, 1, 1, 1},
		{ClampToFirst, 3, 1, 1},
		{ClampToFirst, 3, 4, 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("policy%d/page%d/rows%d", tt.policy, tt.page, tt.rows), func(t *testing.T) {
			require.Equal(t, tt.want, tt.policy.afterDelete(tt.page, tt.rows))
		})
	}
	require.Equal(t, 1, ClampToLast.clampTarget(0))
	require.Equal(t, 4, ClampToLast.clampTarget(4))
	require.Equal(t, 1, ClampToFirst.clampTarget(4))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name      string
		res       resource.ListResult
		req       resource.ListParams
		want      PageState
		wantStale bool
	}{
		{
			name: "consistent",
			res:  resource.ListResult{Records: seed(3), Page: 3, TotalPages: 3, TotalRecords: 23},
			req:  resource.ListParams{Page: 3, Limit: 10},
			want: PageState{Page: 3, Limit: 10, TotalPages: 3, TotalRecords: 23},
		},
		{
			name:      "beyond last page",
			res:       resource.ListResult{Page: 3, TotalPages: 2, TotalRecords: 18},
			req:       resource.ListParams{Page: 3, Limit: 10},
			want:      PageState{Page: 3, Limit: 10, TotalPages: 2, TotalRecords: 18},
			wantStale: true,
		},
		{
			name:      "empty later page with records elsewhere",
			res:       resource.ListResult{Page: 2, TotalPages: 2, TotalRecords: 10},
			req:       resource.ListParams{Page: 2, Limit: 10},
			want:      PageState{Page: 2, Limit: 10, TotalPages: 2, TotalRecords: 10},
			wantStale: true,
		},
		{
			name: "empty collection",
			res:  resource.ListResult{Page: 1},
			req:  resource.ListParams{Page: 1, Limit: 10},
			want: PageState{Page: 1, Limit: 10, TotalPages: 1},
		},
		{
			name: "missing page falls back to request",
			res:  resource.ListResult{Records: seed(2), TotalPages: 2, TotalRecords: 12},
			req:  resource.ListParams{Page: 2, Limit: 10},
			want: PageState{Page: 2, Limit: 10, TotalPages: 2, TotalRecords: 12},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stale := sanitize(tt.res, tt.req)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.wantStale, stale)
		})
	}
}

func TestMenuState(t *testing.T) {
	var m MenuState
	require.False(t, m.IsOpen())

	m = m.Toggle("a")
	require.True(t, m.IsOpenFor("a"))
	require.False(t, m.IsOpenFor(""))

	m = m.Toggle("b")
	require.True(t, m.IsOpenFor("b"), "opening another row moves the menu")
	require.False(t, m.IsOpenFor("a"))

	require.Equal(t, m, m.PointerDown(PointerTrigger))
	require.Equal(t, m, m.PointerDown(PointerMenu))
	require.False(t, m.PointerDown(PointerOutside).IsOpen())

	require.False(t, m.Toggle("b").IsOpen())
	require.False(t, m.Invoke().IsOpen())
	require.Equal(t, m, m.Reconcile([]string{"a", "b"}))
	require.False(t, m.Reconcile([]string{"a"}).IsOpen())
	require.Equal(t, MenuState{}, MenuState{}.Reconcile(nil))
}

func TestGateTransitions(t *testing.T) {
	boom := fmt.Errorf("boom")

	var g Gate
	_, ok := g.Confirm()
	require.False(t, ok)
	_, ok = g.Request("")
	require.False(t, ok)

	g, ok = g.Request("a")
	require.True(t, ok)
	require.Equal(t, Gate{Phase: GateConfirming, ID: "a"}, g)

	_, ok = g.Request("b")
	require.False(t, ok, "one gate at a time")

	closed, ok := g.Cancel()
	require.True(t, ok)
	require.Equal(t, GateClosed, closed.Phase)

	g, ok = g.Confirm()
	require.True(t, ok)
	require.Equal(t, GateDeleting, g.Phase)

	same, ok := g.Cancel()
	require.False(t, ok)
	require.Equal(t, g, same)
	_, ok = g.Confirm()
	require.False(t, ok)
	_, ok = g.Succeeded("other")
	require.False(t, ok)

	failed, ok := g.Failed("a", boom)
	require.True(t, ok)
	require.Equal(t, Gate{Phase: GateConfirming, ID: "a", Err: boom}, failed)

	again, ok := failed.Confirm()
	require.True(t, ok)
	require.NoError(t, again.Err)

	done, ok := again.Succeeded("a")
	require.True(t, ok)
	require.Equal(t, Gate{}, done)
	require.Equal(t, "closed", done.Phase.String())
	require.Equal(t, "deleting", again.Phase.String())
}
