package resource

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/backoffice/internal/errors"
	"github.com/Iron-Ham/backoffice/internal/logging"
	"github.com/Iron-Ham/backoffice/internal/record"
)

func newTestAPI(t *testing.T, h http.Handler) *API {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	api, err := NewAPI(HTTPConfig{
		BaseURL:      srv.URL + "/api/",
		Token:        "secret",
		Timeout:      2 * time.Second,
		RetryMax:     2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 2 * time.Millisecond,
	}, logging.NopLogger())
	require.NoError(t, err)
	return api
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewAPIRejectsBadBaseURL(t *testing.T) {
	_, err := NewAPI(HTTPConfig{BaseURL: "ftp://example.com"}, nil)
	require.Error(t, err)
}

func TestHTTPClientListRequest(t *testing.T) {
	var got *http.Request
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		writeJSON(w, 200, map[string]any{
			"data": []any{map[string]any{"id": "1"}},
			"meta": map[string]any{"page": 2, "totalPages": 4, "total": 31},
		})
	}))

	res, err := api.Resource("faqs", "/faqs/").List(context.Background(), ListParams{Page: 2, Limit: 10, Query: "ship"})
	require.NoError(t, err)

	require.Equal(t, "/api/faqs", got.URL.Path)
	require.Equal(t, "2", got.URL.Query().Get("page"))
	require.Equal(t, "10", got.URL.Query().Get("limit"))
	require.Equal(t, "ship", got.URL.Query().Get("q"))
	require.Equal(t, "Bearer secret", got.Header.Get("Authorization"))

	require.Equal(t, ListResult{
		Records:      []record.Raw{{"id": "1"}},
		Page:         2,
		TotalPages:   4,
		TotalRecords: 31,
	}, res)
}

func TestDecodeListEnvelopes(t *testing.T) {
	req := ListParams{Page: 3, Limit: 10}

	tests := []struct {
		name string
		body string
		want ListResult
	}{
		{
			name: "bare array is the whole collection",
			body: `[{"id":"a"},{"id":"b"}]`,
			want: ListResult{Records: []record.Raw{{"id": "a"}, {"id": "b"}}, Page: 1, TotalPages: 1, TotalRecords: 2},
		},
		{
			name: "items with top-level totals",
			body: `{"items":[{"id":"a"}],"page":3,"totalRecords":23}`,
			want: ListResult{Records: []record.Raw{{"id": "a"}}, Page: 3, TotalPages: 3, TotalRecords: 23},
		},
		{
			name: "results with pagination object",
			body: `{"results":[],"pagination":{"current_page":"2","total_pages":"5","total_records":"41"}}`,
			want: ListResult{Records: []record.Raw{}, Page: 2, TotalPages: 5, TotalRecords: 41},
		},
		{
			name: "nested data object",
			body: `{"success":true,"data":{"records":[{"_id":"x"}],"total":11,"limit":5,"page":1}}`,
			want: ListResult{Records: []record.Raw{{"_id": "x"}}, Page: 1, TotalPages: 3, TotalRecords: 11},
		},
		{
			name: "non-object entries dropped",
			body: `{"data":[{"id":"a"},"junk",3],"total":1}`,
			want: ListResult{Records: []record.Raw{{"id": "a"}}, Page: 3, TotalPages: 1, TotalRecords: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := decodeList([]byte(tt.body), req)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeListRejectsScalars(t *testing.T) {
	_, _, err := decodeList([]byte(`"nope"`), ListParams{Page: 1, Limit: 10})
	require.Error(t, err)
}

func TestHTTPClientErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: 401,
			body:   map[string]any{"message": "token expired"},
			check: func(t *testing.T, err error) {
				require.True(t, errors.IsAuth(err))
				require.Equal(t, "token expired", errors.Describe(err))
			},
		},
		{
			name:   "forbidden",
			status: 403,
			check: func(t *testing.T, err error) {
				require.True(t, errors.IsAuth(err))
			},
		},
		{
			name:   "not found",
			status: 404,
			check: func(t *testing.T, err error) {
				require.True(t, errors.IsNotFound(err))
			},
		},
		{
			name:   "validation map",
			status: 422,
			body:   map[string]any{"errors": map[string]any{"title": []any{"is required"}}},
			check: func(t *testing.T, err error) {
				v, ok := errors.AsValidation(err)
				require.True(t, ok)
				require.Equal(t, map[string]string{"title": "is required"}, v.Fields)
			},
		},
		{
			name:   "validation list",
			status: 400,
			body:   map[string]any{"message": "bad", "errors": []any{map[string]any{"field": "slug", "message": "taken"}}},
			check: func(t *testing.T, err error) {
				v, ok := errors.AsValidation(err)
				require.True(t, ok)
				require.Equal(t, "taken", v.Fields["slug"])
			},
		},
		{
			name:   "plain bad request is a fetch error",
			status: 400,
			body:   map[string]any{"message": "malformed"},
			check: func(t *testing.T, err error) {
				require.True(t, errors.IsFetch(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}))
			_, err := api.Resource("faqs", "faqs").Update(context.Background(), "7", record.Raw{"title": ""})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestHTTPClientRetriesReadsOnly(t *testing.T) {
	var lists, creates atomic.Int32
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if lists.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			writeJSON(w, 200, []any{})
		case http.MethodPost:
			creates.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	c := api.Resource("orders", "orders")

	_, err := c.List(context.Background(), ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 3, lists.Load())

	_, err = c.Create(context.Background(), record.Raw{"total": 1})
	require.True(t, errors.IsFetch(err))
	require.EqualValues(t, 1, creates.Load())
}

func TestHTTPClientListExhaustedRetriesIsFetchError(t *testing.T) {
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	_, err := api.Resource("orders", "orders").List(context.Background(), ListParams{Page: 1, Limit: 10})
	require.True(t, errors.IsFetch(err))
	require.True(t, errors.IsRetryable(err))
}

func TestHTTPClientGetCoalesces(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		writeJSON(w, 200, map[string]any{"data": map[string]any{"title": "hello"}})
	}))
	c := api.Resource("posts", "posts")

	var wg sync.WaitGroup
	results := make([]record.Raw, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			raw, err := c.Get(context.Background(), "p1")
			if err == nil {
				results[i] = raw
			}
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.EqualValues(t, 1, hits.Load())
	for _, r := range results {
		require.Equal(t, "hello", r["title"])
	}
	results[0]["title"] = "mutated"
	require.Equal(t, "hello", results[1]["title"])
}

func TestHTTPClientMutations(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, 200, map[string]any{"id": "new", "title": "t"})
	}))
	c := api.Resource("faqs", "faqs")
	ctx := context.Background()

	raw, err := c.Create(ctx, record.Raw{"title": "t"})
	require.NoError(t, err)
	require.Equal(t, "new", raw["id"])
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "/api/faqs", gotPath)
	require.JSONEq(t, `{"title":"t"}`, gotBody)

	_, err = c.Update(ctx, "a b", record.Raw{"title": "u"})
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, gotMethod)
	require.Equal(t, "/api/faqs/a b", gotPath)

	require.NoError(t, c.Delete(ctx, "new"))
	require.Equal(t, http.MethodDelete, gotMethod)
	require.Empty(t, gotBody)
}

func TestHTTPClientHonorsContext(t *testing.T) {
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := api.Resource("faqs", "faqs").List(ctx, ListParams{Page: 1, Limit: 10})
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
