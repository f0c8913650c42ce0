// Package app wires configuration into the pieces every front end needs:
// schemas, resource clients, the event bus and list controllers.
package app

import (
	"fmt"
	"slices"
	"time"

	"github.com/Iron-Ham/backoffice/internal/config"
	"github.com/Iron-Ham/backoffice/internal/devserver"
	"github.com/Iron-Ham/backoffice/internal/event"
	"github.com/Iron-Ham/backoffice/internal/listctl"
	"github.com/Iron-Ham/backoffice/internal/logging"
	"github.com/Iron-Ham/backoffice/internal/record"
	"github.com/Iron-Ham/backoffice/internal/resource"
)

// OfflineRecords is how many sample records each screen gets in offline mode.
const OfflineRecords = 37

// Options configures New.
type Options struct {
	// Offline serves every screen from memory with sample data instead of
	// talking to api.base_url.
	Offline bool
	// OfflineLatency delays offline calls so loading states are visible.
	OfflineLatency time.Duration
	// Clients overrides the client of individual screens. Tests use it.
	Clients map[string]resource.Client
}

// Screen is one configured screen ready to host a controller.
type Screen struct {
	Schema listctl.Schema
	Client resource.Client
}

// Runtime holds the wired application.
type Runtime struct {
	cfg     *config.Config
	logger  *logging.Logger
	bus     *event.Bus
	screens []Screen
	offline bool
}

// New builds the runtime for cfg. The logger may be nil.
func New(cfg *config.Config, logger *logging.Logger, opts Options) (*Runtime, error) {
	rt := &Runtime{
		cfg:     cfg,
		logger:  logger,
		bus:     event.NewBus(logger),
		offline: opts.Offline,
	}

	var api *resource.API
	if !opts.Offline {
		if cfg.API.BaseURL == "" {
			return nil, fmt.Errorf("api.base_url is not set (use --offline to run without an API)")
		}
		var err error
		api, err = resource.NewAPI(resource.HTTPConfig{
			BaseURL:      cfg.API.BaseURL,
			Token:        cfg.API.Token,
			Timeout:      cfg.API.Timeout(),
			RetryMax:     cfg.API.RetryMax,
			RetryWaitMin: cfg.API.RetryWaitMin(),
			RetryWaitMax: cfg.API.RetryWaitMax(),
		}, logger)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	for _, sc := range cfg.Screens {
		schema, err := SchemaFor(sc)
		if err != nil {
			return nil, err
		}
		var client resource.Client
		switch {
		case opts.Clients[sc.Name] != nil:
			client = opts.Clients[sc.Name]
		case opts.Offline:
			client = offlineClient(sc, now, opts.OfflineLatency)
		default:
			client = api.Resource(sc.Name, sc.ResourcePath())
		}
		rt.screens = append(rt.screens, Screen{Schema: schema, Client: client})
	}

	rt.bus.SubscribeAll(func(e event.Event) {
		logger.WithComponent("events").Debug("event", "type", e.EventType())
	})
	return rt, nil
}

func offlineClient(sc config.ScreenConfig, now time.Time, latency time.Duration) *resource.MemoryClient {
	idFields := sc.IDFields
	if len(idFields) == 0 {
		idFields = record.DefaultIDFields
	}
	ids := slices.Clone(idFields)
	if sc.NaturalKey != "" {
		ids = append(ids, sc.NaturalKey)
	}
	opts := []resource.MemoryOption{
		resource.WithIDFields(ids...),
		resource.WithRequired(devserver.RequiredFields(sc)...),
	}
	if latency > 0 {
		opts = append(opts, resource.WithLatency(latency))
	}
	return resource.NewMemoryClient(sc.Name, devserver.SampleRecords(sc, OfflineRecords, now), opts...)
}

// Config returns the configuration the runtime was built from.
func (r *Runtime) Config() *config.Config { return r.cfg }

// Bus returns the event bus shared by every controller.
func (r *Runtime) Bus() *event.Bus { return r.bus }

// Logger returns the runtime logger.
func (r *Runtime) Logger() *logging.Logger { return r.logger }

// Offline reports whether screens are served from memory.
func (r *Runtime) Offline() bool { return r.offline }

// Screens returns the configured screens in order.
func (r *Runtime) Screens() []Screen { return r.screens }

// Screen looks up a screen by name.
func (r *Runtime) Screen(name string) (Screen, bool) {
	i := slices.IndexFunc(r.screens, func(s Screen) bool { return s.Schema.Name == name })
	if i < 0 {
		return Screen{}, false
	}
	return r.screens[i], true
}

// NewController creates the list controller for screen name. The returned
// controller reports through notifier, the bus and the log.
func (r *Runtime) NewController(name string, notifier listctl.Notifier) (*listctl.Controller, error) {
	s, ok := r.Screen(name)
	if !ok {
		return nil, fmt.Errorf("unknown screen %q", name)
	}
	clamp := listctl.ClampToLast
	if r.cfg.List.ClampToFirstPage {
		clamp = listctl.ClampToFirst
	}
	return listctl.New(listctl.Options{
		Schema: s.Schema,
		Client: s.Client,
		Notifier: listctl.MultiNotifier{
			notifier,
			listctl.BusNotifier{Bus: r.bus, Screen: name},
			listctl.LogNotifier{Logger: r.logger.WithScreen(name)},
		},
		Bus:           r.bus,
		Logger:        r.logger,
		Limit:         r.cfg.List.DefaultLimit,
		LimitOptions:  r.cfg.List.LimitOptions,
		Debounce:      r.cfg.List.Debounce(),
		Clamp:         clamp,
		RefetchOnEdit: r.cfg.List.RefetchOnEdit,
	}), nil
}

// NewLogger creates the logger described by cfg. Disabled logging yields a
// no-op logger.
func NewLogger(cfg config.LoggingConfig) (*logging.Logger, error) {
	if !cfg.Enabled {
		return logging.NopLogger(), nil
	}
	return logging.NewLoggerWithRotation(cfg.ResolveDir(), cfg.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	})
}
