package devserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/backoffice/internal/config"
	"github.com/Iron-Ham/backoffice/internal/errors"
	"github.com/Iron-Ham/backoffice/internal/logging"
	"github.com/Iron-Ham/backoffice/internal/record"
	"github.com/Iron-Ham/backoffice/internal/resource"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func faqScreen() config.ScreenConfig {
	for _, s := range config.DefaultScreens() {
		if s.Name == "faqs" {
			return s
		}
	}
	panic("faqs screen missing")
}

func newTestServer(t *testing.T, opts Options, seed int) (*Server, *httptest.Server) {
	t.Helper()
	store := newTestStore(t)
	opts.Logger = logging.NopLogger()
	opts.Now = func() time.Time { return fixedNow }
	srv := New(store, config.DefaultScreens(), opts)
	if seed > 0 {
		require.NoError(t, srv.Seed(t.Context(), seed))
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func newClient(t *testing.T, base, name, token string) *resource.HTTPClient {
	t.Helper()
	api, err := resource.NewAPI(resource.HTTPConfig{
		BaseURL:  base + "/api",
		Token:    token,
		Timeout:  5 * time.Second,
		RetryMax: 0,
	}, logging.NopLogger())
	require.NoError(t, err)
	return api.Resource(name, name)
}

func TestSampleRecordsNormalize(t *testing.T) {
	screen := config.ScreenConfig{
		Name:       "categories",
		Singular:   "Category",
		NaturalKey: "slug",
		Columns: []config.ColumnConfig{
			{Key: "name", Title: "Name"},
			{Key: "slug", Title: "Slug"},
			{Key: "status", Title: "Status", Kind: "status"},
		},
	}
	raws := SampleRecords(screen, 12, fixedNow)
	require.Len(t, raws, 12)

	n := record.NewNormalizer(record.Rules{NaturalKey: "slug"}, logging.NopLogger())
	seen := make(map[string]bool)
	var prev time.Time
	for i, raw := range raws {
		rec := n.Normalize(raw)
		require.False(t, rec.Synthetic, "record %d", i)
		require.False(t, seen[rec.ID], "duplicate id %s", rec.ID)
		seen[rec.ID] = true
		if i > 0 {
			require.True(t, rec.CreatedAt.Before(prev), "record %d is not older than its predecessor", i)
		}
		prev = rec.CreatedAt
	}

	// The eleventh record is identified by its slug alone.
	require.NotContains(t, raws[10], "_id")
	require.NotContains(t, raws[10], "id")
	require.Equal(t, "category-11", n.Normalize(raws[10]).ID)

	// Status shapes vary.
	require.Equal(t, true, raws[0]["status"])
	require.Equal(t, "inactive", raws[1]["status"])
	require.NotContains(t, raws[6], "status")
}

func TestServerListEnvelopes(t *testing.T) {
	_, ts := newTestServer(t, Options{}, 23)

	for _, name := range []string{"permissions", "categories"} {
		t.Run(name, func(t *testing.T) {
			c := newClient(t, ts.URL, name, "")
			res, err := c.List(t.Context(), resource.ListParams{Page: 3, Limit: 10})
			require.NoError(t, err)
			require.Equal(t, 3, res.Page)
			require.Equal(t, 3, res.TotalPages)
			require.Equal(t, 23, res.TotalRecords)
			require.Len(t, res.Records, 3)
		})
	}
}

func TestServerClampsPageBeyondLast(t *testing.T) {
	_, ts := newTestServer(t, Options{}, 12)
	c := newClient(t, ts.URL, "faqs", "")

	res, err := c.List(t.Context(), resource.ListParams{Page: 5, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 2, res.Page)
	require.Len(t, res.Records, 2)
}

func TestServerCRUD(t *testing.T) {
	_, ts := newTestServer(t, Options{}, 0)
	c := newClient(t, ts.URL, "faqs", "")
	ctx := t.Context()

	created, err := c.Create(ctx, record.Raw{"question": "Q?", "answer": "A."})
	require.NoError(t, err)
	id := record.Stringify(created["id"])
	require.NotEmpty(t, id)
	require.Equal(t, fixedNow.Format(time.RFC3339), created["createdAt"])

	got, err := c.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Q?", got["question"])

	updated, err := c.Update(ctx, id, record.Raw{"question": "Q2?", "id": "hijack"})
	require.NoError(t, err)
	require.Equal(t, "Q2?", updated["question"])
	require.Equal(t, id, updated["id"])

	require.NoError(t, c.Delete(ctx, id))
	_, err = c.Get(ctx, id)
	require.True(t, errors.IsNotFound(err))
	require.True(t, errors.IsNotFound(c.Delete(ctx, id)))
}

func TestServerRejectsMissingRequiredFields(t *testing.T) {
	_, ts := newTestServer(t, Options{}, 0)
	c := newClient(t, ts.URL, "faqs", "")

	_, err := c.Create(t.Context(), record.Raw{"question": "  "})
	verr, ok := errors.AsValidation(err)
	require.True(t, ok, "got %v", err)
	require.Equal(t, map[string]string{
		"question": "is required",
		"answer":   "is required",
	}, verr.Fields)
}

func TestServerSearch(t *testing.T) {
	_, ts := newTestServer(t, Options{}, 20)
	c := newClient(t, ts.URL, "faqs", "")

	res, err := c.List(t.Context(), resource.ListParams{Page: 1, Limit: 10, Query: "question 1"})
	require.NoError(t, err)
	// "Question 1" and "Question 10" through "Question 19".
	require.Equal(t, 11, res.TotalRecords)
}

func TestServerAuth(t *testing.T) {
	_, ts := newTestServer(t, Options{Token: "secret"}, 3)

	_, err := newClient(t, ts.URL, "faqs", "").List(t.Context(), resource.ListParams{Page: 1, Limit: 10})
	require.True(t, errors.IsAuth(err), "got %v", err)

	res, err := newClient(t, ts.URL, "faqs", "secret").List(t.Context(), resource.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res.Records, 3)
}

func TestServerRejectsBadRequests(t *testing.T) {
	_, ts := newTestServer(t, Options{}, 0)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown resource", http.MethodGet, "/api/nope", "", http.StatusNotFound},
		{"bad page", http.MethodGet, "/api/faqs?page=zero", "", http.StatusBadRequest},
		{"limit too large", http.MethodGet, "/api/faqs?limit=501", "", http.StatusBadRequest},
		{"non-object body", http.MethodPost, "/api/faqs", `[1,2]`, http.StatusBadRequest},
		{"missing record", http.MethodGet, "/api/faqs/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = bytes.NewBufferString(tt.body)
			}
			req, err := http.NewRequestWithContext(t.Context(), tt.method, ts.URL+tt.path, body)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			require.Equal(t, tt.status, resp.StatusCode)

			var problem map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&problem))
			require.NotEmpty(t, problem["message"])
		})
	}
}

func TestServerMetrics(t *testing.T) {
	_, ts := newTestServer(t, Options{Metrics: true}, 2)
	c := newClient(t, ts.URL, "faqs", "")
	_, err := c.List(t.Context(), resource.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	require.True(t, strings.Contains(text, `backoffice_api_requests_total{method="GET",resource="faqs",status="200"} 1`), text)
	require.True(t, strings.Contains(text, `backoffice_records{resource="faqs"} 2`), text)
}

func TestServerHealthz(t *testing.T) {
	_, ts := newTestServer(t, Options{}, 0)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSeedSkipsPopulatedResources(t *testing.T) {
	srv, _ := newTestServer(t, Options{}, 4)
	require.NoError(t, srv.Seed(t.Context(), 4))

	n, err := srv.store.Count(t.Context(), faqScreen().ResourcePath())
	require.NoError(t, err)
	require.Equal(t, 4, n)
}
