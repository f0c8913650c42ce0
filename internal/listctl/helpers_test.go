package listctl

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/goleak"

	"github.com/Iron-Ham/backoffice/internal/errors"
	"github.com/Iron-Ham/backoffice/internal/logging"
	"github.com/Iron-Ham/backoffice/internal/query"
	"github.com/Iron-Ham/backoffice/internal/record"
	"github.com/Iron-Ham/backoffice/internal/resource"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testSchema() Schema {
	return Schema{
		Name:     "faqs",
		Title:    "FAQs",
		Singular: "FAQ",
		Columns: []Column{
			{Key: "question", Title: "Question", Kind: KindText, Searchable: true, Sortable: true, Editable: true, Rules: "required,max=120"},
			{Key: "position", Title: "Position", Kind: KindNumber, Sortable: true, Editable: true},
			{Key: "status", Title: "Status", Kind: KindStatus, Searchable: true, Sortable: true, Editable: true},
			{Key: "createdAt", Title: "Created", Kind: KindDate, Searchable: true, Sortable: true},
			{Key: "internal", Title: "Internal", Kind: KindText},
		},
		DefaultSort: query.SortSpec{Key: "createdAt", Direction: query.Desc},
	}
}

// seed returns n records, newest first, r01 being the newest.
func seed(n int) []record.Raw {
	base := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	out := make([]record.Raw, n)
	for i := range out {
		out[i] = record.Raw{
			"id":        fmt.Sprintf("r%02d", i+1),
			"question":  fmt.Sprintf("Question %d", i+1),
			"position":  float64(i + 1),
			"status":    i%2 == 0,
			"createdAt": base.Add(-time.Duration(i) * time.Hour).Format(time.RFC3339),
		}
	}
	return out
}

type recorder struct {
	got []Notification
}

func (r *recorder) Notify(n Notification) { r.got = append(r.got, n) }

func (r *recorder) last() Notification {
	if len(r.got) == 0 {
		return Notification{}
	}
	return r.got[len(r.got)-1]
}

func newTestController(t *testing.T, client resource.Client, opts ...func(*Options)) (*Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	o := Options{
		Schema:   testSchema(),
		Client:   client,
		Notifier: rec,
		Logger:   logging.NopLogger(),
		Limit:    10,
		Debounce: 5 * time.Millisecond,
	}
	for _, f := range opts {
		f(&o)
	}
	c := New(o)
	t.Cleanup(c.Close)
	drain(c, c.Init())
	return c, rec
}

// drain runs cmd and every command produced in response, feeding owned
// messages back into c. Messages c does not own are returned.
func drain(c *Controller, cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return out
		}
		if !c.Owns(msg) {
			return append(out, msg)
		}
		cmd = c.Update(msg)
	}
	return out
}

func rowIDs(v View) []string {
	out := make([]string, len(v.Rows))
	for i, r := range v.Rows {
		out[i] = r.ID
	}
	return out
}

func idRange(from, to int) []string {
	var out []string
	for i := from; i <= to; i++ {
		out = append(out, fmt.Sprintf("r%02d", i))
	}
	return out
}

// scriptedClient answers List from a function and ignores cancellation
// unless block is set.
type scriptedClient struct {
	list  func(p resource.ListParams) (resource.ListResult, error)
	block bool
}

func (s *scriptedClient) List(ctx context.Context, p resource.ListParams) (resource.ListResult, error) {
	if s.block {
		<-ctx.Done()
		return resource.ListResult{}, errors.NewFetchError("list", ctx.Err())
	}
	return s.list(p)
}

func (s *scriptedClient) Get(_ context.Context, id string) (record.Raw, error) {
	return nil, errors.NewNotFoundError("faqs", id)
}

func (s *scriptedClient) Create(_ context.Context, payload record.Raw) (record.Raw, error) {
	return payload, nil
}

func (s *scriptedClient) Update(_ context.Context, id string, payload record.Raw) (record.Raw, error) {
	return payload, nil
}

func (s *scriptedClient) Delete(_ context.Context, id string) error {
	return nil
}
