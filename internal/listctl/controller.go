package listctl

import (
	"context"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/backoffice/internal/errors"
	"github.com/Iron-Ham/backoffice/internal/event"
	"github.com/Iron-Ham/backoffice/internal/logging"
	"github.com/Iron-Ham/backoffice/internal/query"
	"github.com/Iron-Ham/backoffice/internal/record"
	"github.com/Iron-Ham/backoffice/internal/resource"
)

// Options configures a Controller.
type Options struct {
	Schema   Schema
	Client   resource.Client
	Notifier Notifier
	// Bus receives list lifecycle and mutation events. Optional.
	Bus    *event.Bus
	Logger *logging.Logger

	Limit        int
	LimitOptions []int
	Debounce     time.Duration
	Clamp        ClampPolicy
	// RefetchOnEdit fetches the record by id when an edit starts and lets
	// the fresh values replace the ones copied from the row.
	RefetchOnEdit bool
}

// Controller is the list controller for one screen.
type Controller struct {
	schema     Schema
	client     resource.Client
	notifier   Notifier
	bus        *event.Bus
	logger     *logging.Logger
	engine     *query.Engine
	normalizer *record.Normalizer
	validator  *FormValidator
	debounce   *debouncer

	limitOptions  []int
	clamp         ClampPolicy
	refetchOnEdit bool

	ctx         context.Context
	cancel      context.CancelFunc
	fetchCancel context.CancelFunc
	seq         uint64
	lastParams  resource.ListParams
	fetched     bool
	closed      bool

	records []record.Record
	page    PageState
	sort    query.SortSpec
	input   string
	term    string
	loading bool
	listErr error

	menu     MenuState
	mutation MutationState
	form     Form
	editGen  uint64
	gate     Gate
}

// New creates a controller. Call Init to load the first page.
func New(opts Options) *Controller {
	logger := opts.Logger.WithScreen(opts.Schema.Name)
	notifier := opts.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limitOptions := opts.LimitOptions
	if len(limitOptions) == 0 {
		limitOptions = DefaultLimitOptions
	}
	if !slices.Contains(limitOptions, limit) {
		limitOptions = append(slices.Clone(limitOptions), limit)
		slices.Sort(limitOptions)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		schema:        opts.Schema,
		client:        opts.Client,
		notifier:      notifier,
		bus:           opts.Bus,
		logger:        logger,
		engine:        query.NewEngine(opts.Schema.Fields()),
		normalizer:    record.NewNormalizer(opts.Schema.Rules, logger.WithComponent("normalizer")),
		validator:     sharedValidator(),
		debounce:      newDebouncer(opts.Debounce),
		limitOptions:  limitOptions,
		clamp:         opts.Clamp,
		refetchOnEdit: opts.RefetchOnEdit,
		ctx:           ctx,
		cancel:        cancel,
		page:          newPageState(limit),
		sort:          opts.Schema.DefaultSort,
	}
}

// Schema returns the controller's schema.
func (c *Controller) Schema() Schema { return c.schema }

// Engine returns the search and sort engine built from the schema.
func (c *Controller) Engine() *query.Engine { return c.engine }

// LimitOptions returns the selectable page sizes.
func (c *Controller) LimitOptions() []int { return c.limitOptions }

// Init loads the first page.
func (c *Controller) Init() tea.Cmd {
	return c.fetch(1, c.page.Limit, false)
}

// Close cancels in-flight requests, stops the debounce timer and closes the
// menu. Results arriving afterwards are ignored.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.debounce.cancel()
	c.cancel()
	c.fetchCancel = nil
	c.menu = MenuState{}
	c.loading = false
	c.logger.Debug("controller closed")
}

// Closed reports whether Close was called.
func (c *Controller) Closed() bool { return c.closed }

// fetch dispatches a list request tagged with the next sequence number and
// cancels the request it supersedes.
func (c *Controller) fetch(page, limit int, clamped bool) tea.Cmd {
	if c.closed {
		return nil
	}
	if c.fetchCancel != nil {
		c.fetchCancel()
	}
	c.seq++
	seq := c.seq
	ctx, cancel := context.WithCancel(c.ctx)
	c.fetchCancel = cancel

	params := resource.ListParams{Page: page, Limit: limit}
	if c.schema.ServerSearch {
		params.Query = query.NormalizeTerm(c.term)
	}
	c.lastParams = params
	c.loading = true

	client := c.client
	log := c.logger.WithRequest(seq)
	log.Debug("list request dispatched", "page", page, "limit", limit, "query", params.Query)
	return func() tea.Msg {
		start := time.Now()
		res, err := client.List(ctx, params)
		return listFetchedMsg{
			ctl:     c,
			seq:     seq,
			params:  params,
			result:  res,
			err:     err,
			clamped: clamped,
			elapsed: time.Since(start),
		}
	}
}

// refetch reloads the current page.
func (c *Controller) refetch() tea.Cmd {
	return c.fetch(c.page.Page, c.page.Limit, false)
}

// Update applies a message produced by one of the controller's commands.
// Messages from other controllers are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	if !c.Owns(msg) || c.closed {
		return nil
	}
	switch m := msg.(type) {
	case listFetchedMsg:
		return c.applyList(m)
	case debounceFiredMsg:
		return c.applyDebounce(m)
	case detailFetchedMsg:
		return c.applyDetail(m)
	case savedMsg:
		return c.applySaved(m)
	case deletedMsg:
		return c.applyDeleted(m)
	}
	return nil
}

func (c *Controller) applyList(m listFetchedMsg) tea.Cmd {
	log := c.logger.WithRequest(m.seq)
	if m.seq != c.seq {
		log.Debug("discarding stale list response", "latest", c.seq)
		return nil
	}
	c.loading = false
	c.fetchCancel = nil

	if m.err != nil {
		if errors.Is(m.err, context.Canceled) {
			return nil
		}
		c.listErr = m.err
		logFailure(log, "list request failed", m.err)
		c.bus.Publish(event.NewListFetchFailedEvent(c.schema.Name, m.seq, m.err))
		if errors.IsAuth(m.err) {
			return c.authFailed(m.err)
		}
		return nil
	}

	ps, stale := sanitize(m.result, m.params)
	if stale && !m.clamped {
		target := c.clamp.clampTarget(ps.TotalPages)
		log.Info("page beyond last page, clamping",
			"page", ps.Page,
			"total_pages", ps.TotalPages,
			"target", target)
		return c.fetch(target, m.params.Limit, true)
	}
	ps.Page = min(ps.Page, ps.TotalPages)

	raws := m.result.Records
	if len(raws) > ps.Limit {
		log.Warn("server returned more rows than the limit, truncating",
			"rows", len(raws),
			"limit", ps.Limit)
		raws = raws[:ps.Limit]
	}
	c.records = c.normalizer.NormalizeAll(raws)
	c.page = ps
	c.listErr = nil
	c.fetched = true
	c.menu = c.menu.Reconcile(c.ids())

	c.bus.Publish(event.NewListFetchedEvent(c.schema.Name, m.seq,
		ps.Page, ps.TotalPages, ps.TotalRecords, len(c.records), m.elapsed))
	return nil
}

func (c *Controller) ids() []string {
	out := make([]string, len(c.records))
	for i, r := range c.records {
		out[i] = r.ID
	}
	return out
}

func (c *Controller) find(id string) (record.Record, bool) {
	i := slices.IndexFunc(c.records, func(r record.Record) bool { return r.ID == id })
	if i < 0 {
		return record.Record{}, false
	}
	return c.records[i], true
}

// logFailure logs err at the level of its severity.
func logFailure(log *logging.Logger, msg string, err error, args ...any) {
	sev := errors.GetSeverity(err)
	args = append(args, "error", err, "severity", sev.String())
	switch sev {
	case errors.SeverityDebug:
		log.Debug(msg, args...)
	case errors.SeverityInfo:
		log.Info(msg, args...)
	case errors.SeverityWarning:
		log.Warn(msg, args...)
	default:
		log.Error(msg, args...)
	}
}

// authFailed reports an AuthError and hands it to the application.
func (c *Controller) authFailed(err error) tea.Cmd {
	c.notifier.Notify(Notification{
		Kind:        NotifyError,
		Title:       "Not authorized",
		Description: errors.Describe(err),
	})
	c.bus.Publish(event.NewAuthFailedEvent(c.schema.Name, err))
	screen := c.schema.Name
	return func() tea.Msg { return AuthErrorMsg{Screen: screen, Err: err} }
}

// -----------------------------------------------------------------------------
// Pager intents
// -----------------------------------------------------------------------------

// OnPageChange requests page n. Pages outside [1, TotalPages] are ignored.
func (c *Controller) OnPageChange(n int) tea.Cmd {
	if c.closed || !c.page.InRange(n) {
		return nil
	}
	return c.fetch(n, c.page.Limit, false)
}

// OnLimitChange switches the page size and returns to page 1. Sizes outside
// the configured options are ignored.
func (c *Controller) OnLimitChange(n int) tea.Cmd {
	if c.closed || !validLimit(n, c.limitOptions) {
		return nil
	}
	return c.fetch(1, n, false)
}

// OnRetry re-issues the last list request.
func (c *Controller) OnRetry() tea.Cmd {
	if c.closed {
		return nil
	}
	if !c.fetched && c.lastParams.Limit == 0 {
		return c.Init()
	}
	return c.fetch(c.lastParams.Page, c.lastParams.Limit, false)
}

// -----------------------------------------------------------------------------
// Search and sort intents
// -----------------------------------------------------------------------------

// OnSearchChange updates the input immediately and schedules the debounced
// term update.
func (c *Controller) OnSearchChange(input string) tea.Cmd {
	if c.closed {
		return nil
	}
	c.input = input
	return c.debounce.schedule(c, input)
}

func (c *Controller) applyDebounce(m debounceFiredMsg) tea.Cmd {
	if !c.debounce.fired(m.gen) {
		return nil
	}
	if query.NormalizeTerm(m.term) == query.NormalizeTerm(c.term) {
		c.term = m.term
		return nil
	}
	c.term = m.term
	c.logger.Debug("search term changed", "term", query.NormalizeTerm(m.term))
	return c.fetch(1, c.page.Limit, false)
}

// OnSortToggle selects key as the sort column, flipping direction when it is
// already active. Keys that are not sortable are ignored.
func (c *Controller) OnSortToggle(key string) tea.Cmd {
	if c.closed || !c.engine.Sortable(key) {
		return nil
	}
	c.sort = c.sort.Toggle(key)
	return nil
}

// -----------------------------------------------------------------------------
// Menu intents
// -----------------------------------------------------------------------------

// OnMenuToggle presses the row menu trigger for id.
func (c *Controller) OnMenuToggle(id string) tea.Cmd {
	if c.closed {
		return nil
	}
	if _, ok := c.find(id); !ok {
		return nil
	}
	c.menu = c.menu.Toggle(id)
	return nil
}

// OnPointerDown reports a pointer press relative to the open menu.
func (c *Controller) OnPointerDown(target PointerTarget) tea.Cmd {
	if c.closed {
		return nil
	}
	c.menu = c.menu.PointerDown(target)
	return nil
}

// OnMenuClose closes the row menu, e.g. on Escape.
func (c *Controller) OnMenuClose() tea.Cmd {
	if c.closed {
		return nil
	}
	c.menu = MenuState{}
	return nil
}
