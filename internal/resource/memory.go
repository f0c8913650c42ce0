package resource

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Iron-Ham/backoffice/internal/errors"
	"github.com/Iron-Ham/backoffice/internal/record"
)

// MemoryClient is an in-process Client over a slice of raw records, newest
// first. It backs offline mode and the controller tests; latency and
// failures can be injected per operation.
type MemoryClient struct {
	mu       sync.Mutex
	name     string
	records  []record.Raw
	idFields []string
	idField  string
	required []string
	latency  time.Duration
	clamp    bool
	now      func() time.Time
	failures map[string][]error
	calls    map[string]int
}

// MemoryOption configures a MemoryClient.
type MemoryOption func(*MemoryClient)

// WithLatency delays every call by d, or until the context is done.
func WithLatency(d time.Duration) MemoryOption {
	return func(m *MemoryClient) { m.latency = d }
}

// WithIDFields overrides the id candidates used to locate records.
// The first candidate is assigned on create.
func WithIDFields(fields ...string) MemoryOption {
	return func(m *MemoryClient) {
		m.idFields = fields
		m.idField = fields[0]
	}
}

// WithRequired makes Create and Update reject payloads missing fields.
func WithRequired(fields ...string) MemoryOption {
	return func(m *MemoryClient) { m.required = fields }
}

// WithoutPageClamp makes List answer an out-of-range page with an empty
// page instead of clamping to the last one.
func WithoutPageClamp() MemoryOption {
	return func(m *MemoryClient) { m.clamp = false }
}

// WithClock sets the clock used for createdAt on create.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryClient) { m.now = now }
}

// NewMemoryClient creates a client serving seed. The seed is copied.
func NewMemoryClient(name string, seed []record.Raw, opts ...MemoryOption) *MemoryClient {
	m := &MemoryClient{
		name:     name,
		idFields: record.DefaultIDFields,
		idField:  "id",
		clamp:    true,
		now:      time.Now,
		failures: make(map[string][]error),
		calls:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.records = make([]record.Raw, 0, len(seed))
	for _, r := range seed {
		m.records = append(m.records, maps.Clone(r))
	}
	return m
}

var _ Client = (*MemoryClient)(nil)

// FailNext queues err as the result of the next call to op
// ("list", "get", "create", "update", "delete").
func (m *MemoryClient) FailNext(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = append(m.failures[op], err)
}

// Calls returns how many times op was invoked.
func (m *MemoryClient) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// Len returns the number of stored records.
func (m *MemoryClient) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// begin records the call, waits out the latency and pops an injected failure.
func (m *MemoryClient) begin(ctx context.Context, op string) error {
	m.mu.Lock()
	m.calls[op]++
	latency := m.latency
	var injected error
	if q := m.failures[op]; len(q) > 0 {
		injected, m.failures[op] = q[0], q[1:]
	}
	m.mu.Unlock()

	if latency > 0 {
		t := time.NewTimer(latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return errors.NewFetchError(op, ctx.Err()).WithResource(m.name)
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return errors.NewFetchError(op, err).WithResource(m.name)
	}
	return injected
}

func (m *MemoryClient) indexOf(id string) int {
	return slices.IndexFunc(m.records, func(r record.Raw) bool {
		for _, f := range m.idFields {
			if v, ok := r[f]; ok && record.Stringify(record.Unwrap(v)) == id {
				return true
			}
		}
		return false
	})
}

func matchesQuery(r record.Raw, q string) bool {
	if q == "" {
		return true
	}
	for _, v := range r {
		if strings.Contains(strings.ToLower(record.Stringify(record.Unwrap(v))), q) {
			return true
		}
	}
	return false
}

// List returns one page of the records matching p.Query.
func (m *MemoryClient) List(ctx context.Context, p ListParams) (ListResult, error) {
	if err := m.begin(ctx, "list"); err != nil {
		return ListResult{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(p.Query))
	var matched []record.Raw
	for _, r := range m.records {
		if matchesQuery(r, q) {
			matched = append(matched, r)
		}
	}

	limit := max(p.Limit, 1)
	res := ListResult{
		TotalRecords: len(matched),
		TotalPages:   TotalPages(len(matched), limit),
		Page:         max(p.Page, 1),
	}
	if m.clamp && res.Page > res.TotalPages {
		res.Page = res.TotalPages
	}
	start := (res.Page - 1) * limit
	end := min(start+limit, len(matched))
	res.Records = make([]record.Raw, 0, max(end-start, 0))
	for i := start; i < end; i++ {
		res.Records = append(res.Records, maps.Clone(matched[i]))
	}
	return res, nil
}

// Get returns a copy of record id.
func (m *MemoryClient) Get(ctx context.Context, id string) (record.Raw, error) {
	if err := m.begin(ctx, "get"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, errors.NewNotFoundError(m.name, id)
	}
	return maps.Clone(m.records[i]), nil
}

func (m *MemoryClient) validate(payload record.Raw) error {
	var verr *errors.ValidationError
	for _, f := range m.required {
		if strings.TrimSpace(record.Stringify(payload[f])) == "" {
			if verr == nil {
				verr = errors.NewValidationError("missing required fields")
			}
			verr.WithFieldError(f, "is required")
		}
	}
	if verr != nil {
		return verr
	}
	return nil
}

// Create stores payload as the newest record, assigning an id and createdAt
// when absent.
func (m *MemoryClient) Create(ctx context.Context, payload record.Raw) (record.Raw, error) {
	if err := m.begin(ctx, "create"); err != nil {
		return nil, err
	}
	if err := m.validate(payload); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	r := maps.Clone(payload)
	if r == nil {
		r = record.Raw{}
	}
	if _, ok := r[m.idField]; !ok {
		r[m.idField] = uuid.NewString()
	}
	if _, ok := r["createdAt"]; !ok {
		r["createdAt"] = m.now().UTC().Format(time.RFC3339)
	}
	m.records = slices.Insert(m.records, 0, r)
	return maps.Clone(r), nil
}

// Update merges payload into record id. The id fields cannot be changed.
func (m *MemoryClient) Update(ctx context.Context, id string, payload record.Raw) (record.Raw, error) {
	if err := m.begin(ctx, "update"); err != nil {
		return nil, err
	}
	if err := m.validate(payload); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, errors.NewNotFoundError(m.name, id)
	}
	next := maps.Clone(m.records[i])
	for k, v := range payload {
		if slices.Contains(m.idFields, k) {
			continue
		}
		next[k] = v
	}
	m.records[i] = next
	return maps.Clone(next), nil
}

// Delete removes record id.
func (m *MemoryClient) Delete(ctx context.Context, id string) error {
	if err := m.begin(ctx, "delete"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return errors.NewNotFoundError(m.name, id)
	}
	m.records = slices.Delete(m.records, i, i+1)
	return nil
}
