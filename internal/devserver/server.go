// Package devserver is a small REST API serving every configured screen from
// SQLite. It backs "backoffice serve" and lets the TUI run end to end
// without a real admin backend.
package devserver

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/Iron-Ham/backoffice/internal/config"
	"github.com/Iron-Ham/backoffice/internal/errors"
	"github.com/Iron-Ham/backoffice/internal/logging"
	"github.com/Iron-Ham/backoffice/internal/record"
)

// MaxLimit caps the page size a client may request.
const MaxLimit = 500

// Options configures a Server.
type Options struct {
	// Token, when set, must be presented as a bearer token.
	Token   string
	Metrics bool
	Logger  *logging.Logger
	Now     func() time.Time
}

// endpoint is one screen as served by the API.
type endpoint struct {
	screen     config.ScreenConfig
	normalizer *record.Normalizer
	idField    string
	required   []string
	// paginated selects the {"items", "pagination"} envelope instead of
	// {"data", "meta"}.
	paginated bool
}

// Server serves the resource API.
type Server struct {
	store     *Store
	endpoints map[string]*endpoint
	token     string
	logger    *logging.Logger
	metrics   *metrics
	now       func() time.Time
}

// New creates a server over store for screens.
func New(store *Store, screens []config.ScreenConfig, opts Options) *Server {
	logger := opts.Logger.WithComponent("devserver")
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Server{
		store:     store,
		endpoints: make(map[string]*endpoint, len(screens)),
		token:     opts.Token,
		logger:    logger,
		now:       now,
	}
	if opts.Metrics {
		s.metrics = newMetrics()
	}
	for i, sc := range screens {
		rules := record.Rules{
			IDFields:       sc.IDFields,
			NaturalKey:     sc.NaturalKey,
			TimestampField: sc.TimestampField,
			StatusField:    sc.StatusField,
		}
		n := record.NewNormalizer(rules, logger.WithScreen(sc.Name))
		s.endpoints[sc.ResourcePath()] = &endpoint{
			screen:     sc,
			normalizer: n,
			idField:    n.Rules().IDFields[len(n.Rules().IDFields)-1],
			required:   RequiredFields(sc),
			paginated:  i%2 == 1,
		}
	}
	return s
}

// Seed fills every empty resource with n sample records.
func (s *Server) Seed(ctx context.Context, n int) error {
	for path, ep := range s.endpoints {
		count, err := s.store.Count(ctx, path)
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		for _, raw := range SampleRecords(ep.screen, n, s.now()) {
			rec := ep.normalizer.Normalize(raw)
			id := rec.ID
			if rec.Synthetic {
				id = uuid.NewString()
			}
			if err := s.store.Insert(ctx, path, id, rec.CreatedAt, raw); err != nil {
				return err
			}
		}
		s.observeCount(ctx, path)
		s.logger.Info("seeded resource", "resource", path, "records", n)
	}
	return nil
}

// Handler returns the HTTP handler: the API under /api, plus /healthz and,
// when enabled, /metrics.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.handler())
	}

	r.Route("/api", func(r chi.Router) {
		if s.metrics != nil {
			r.Use(s.metrics.instrument)
		}
		r.Use(s.authorize)
		r.Route("/{resource}", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Post("/", s.handleCreate)
			r.Get("/{id}", s.handleGet)
			r.Put("/{id}", s.handleUpdate)
			r.Delete("/{id}", s.handleDelete)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("devserver listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		<-errCh
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	})
}

func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			writeProblem(w, http.StatusUnauthorized, "invalid or missing token", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) endpointFor(w http.ResponseWriter, r *http.Request) (*endpoint, string, bool) {
	path := chi.URLParam(r, "resource")
	ep, ok := s.endpoints[path]
	if !ok {
		writeProblem(w, http.StatusNotFound, fmt.Sprintf("unknown resource %q", path), nil)
		return nil, "", false
	}
	return ep, path, true
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ep, path, ok := s.endpointFor(w, r)
	if !ok {
		return
	}
	page, err := intParam(r, "page", 1)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	limit, err := intParam(r, "limit", 10)
	if err != nil || limit > MaxLimit {
		writeProblem(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", MaxLimit), nil)
		return
	}

	p, err := s.store.List(r.Context(), path, page, limit, r.URL.Query().Get("q"))
	if err != nil {
		s.internalError(w, err)
		return
	}

	if ep.paginated {
		writeJSON(w, http.StatusOK, map[string]any{
			"items": p.Records,
			"pagination": map[string]any{
				"current_page":  p.Page,
				"per_page":      p.Limit,
				"total_records": p.TotalRecords,
			},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": p.Records,
		"meta": map[string]any{
			"page":       p.Page,
			"limit":      p.Limit,
			"total":      p.TotalRecords,
			"totalPages": p.TotalPages,
		},
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	_, path, ok := s.endpointFor(w, r)
	if !ok {
		return
	}
	raw, err := s.store.Get(r.Context(), path, chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, raw)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ep, path, ok := s.endpointFor(w, r)
	if !ok {
		return
	}
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}
	if fields := missing(payload, ep.required); fields != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "validation failed", fields)
		return
	}

	now := s.now().UTC()
	id := uuid.NewString()
	payload[ep.idField] = id
	ts := ep.normalizer.Rules().TimestampField
	if _, ok := payload[ts]; !ok {
		payload[ts] = now.Format(time.RFC3339)
	}
	if err := s.store.Insert(r.Context(), path, id, now, payload); err != nil {
		s.internalError(w, err)
		return
	}
	s.observeCount(r.Context(), path)
	writeJSON(w, http.StatusCreated, payload)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ep, path, ok := s.endpointFor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	current, err := s.store.Get(r.Context(), path, id)
	if err != nil {
		s.storeError(w, err)
		return
	}
	next := maps.Clone(current)
	idFields := ep.normalizer.Rules().IDFields
	for k, v := range payload {
		if slices.Contains(idFields, k) {
			continue
		}
		next[k] = v
	}
	if fields := missing(next, ep.required); fields != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "validation failed", fields)
		return
	}
	if err := s.store.Replace(r.Context(), path, id, next); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, next)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	_, path, ok := s.endpointFor(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), path, chi.URLParam(r, "id")); err != nil {
		s.storeError(w, err)
		return
	}
	s.observeCount(r.Context(), path)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) observeCount(ctx context.Context, path string) {
	if s.metrics == nil {
		return
	}
	if n, err := s.store.Count(ctx, path); err == nil {
		s.metrics.records.WithLabelValues(path).Set(float64(n))
	}
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.IsNotFound(err) {
		writeProblem(w, http.StatusNotFound, "record not found", nil)
		return
	}
	s.internalError(w, err)
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", "error", err)
	writeProblem(w, http.StatusInternalServerError, "internal error", nil)
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return n, nil
}

func decodePayload(w http.ResponseWriter, r *http.Request) (record.Raw, bool) {
	var payload record.Raw
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&payload); err != nil || payload == nil {
		writeProblem(w, http.StatusBadRequest, "body must be a JSON object", nil)
		return nil, false
	}
	return payload, true
}

func missing(payload record.Raw, required []string) map[string]string {
	var out map[string]string
	for _, f := range required {
		if strings.TrimSpace(record.Stringify(record.Unwrap(payload[f]))) == "" {
			if out == nil {
				out = make(map[string]string)
			}
			out[f] = "is required"
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, msg string, fields map[string]string) {
	body := map[string]any{"message": msg}
	if fields != nil {
		body["errors"] = fields
	}
	writeJSON(w, status, body)
}
