package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config represents the complete backoffice configuration
type Config struct {
	API     APIConfig      `mapstructure:"api" yaml:"api"`
	List    ListConfig     `mapstructure:"list" yaml:"list"`
	TUI     TUIConfig      `mapstructure:"tui" yaml:"tui"`
	Logging LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Server  ServerConfig   `mapstructure:"server" yaml:"server"`
	Screens []ScreenConfig `mapstructure:"screens" yaml:"screens"`
}

// APIConfig controls how the resource client talks to the admin API
type APIConfig struct {
	// BaseURL is the API root, e.g. "https://api.example.com/admin"
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// Token is sent as a bearer token. Usually supplied via BACKOFFICE_API_TOKEN.
	Token string `mapstructure:"token" yaml:"token"`
	// TimeoutSeconds bounds a single HTTP attempt (default: 15)
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	// RetryMax is how many times a failed read is retried (default: 3, 0 = no retries)
	RetryMax int `mapstructure:"retry_max" yaml:"retry_max"`
	// RetryWaitMinMs and RetryWaitMaxMs bound the retry backoff
	RetryWaitMinMs int `mapstructure:"retry_wait_min_ms" yaml:"retry_wait_min_ms"`
	RetryWaitMaxMs int `mapstructure:"retry_wait_max_ms" yaml:"retry_wait_max_ms"`
}

// ListConfig controls pagination and search behavior shared by every screen
type ListConfig struct {
	// DefaultLimit is the page size a screen opens with (default: 10)
	DefaultLimit int `mapstructure:"default_limit" yaml:"default_limit"`
	// LimitOptions are the page sizes the operator may pick from
	LimitOptions []int `mapstructure:"limit_options" yaml:"limit_options"`
	// DebounceMs is the search debounce window in milliseconds (300-500, default: 350)
	DebounceMs int `mapstructure:"debounce_ms" yaml:"debounce_ms"`
	// ClampToFirstPage sends the operator to page 1 instead of the new last
	// page when the current page no longer exists (default: false)
	ClampToFirstPage bool `mapstructure:"clamp_to_first_page" yaml:"clamp_to_first_page"`
	// RefetchOnEdit fetches the record by id when an edit starts (default: true)
	RefetchOnEdit bool `mapstructure:"refetch_on_edit" yaml:"refetch_on_edit"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// Theme is the color theme for the TUI (default: "default")
	Theme string `mapstructure:"theme" yaml:"theme"`
	// Mouse enables mouse support; clicks outside an open row menu close it (default: true)
	Mouse bool `mapstructure:"mouse" yaml:"mouse"`
	// MarkdownPreview renders markdown columns in the detail pane (default: true)
	MarkdownPreview bool `mapstructure:"markdown_preview" yaml:"markdown_preview"`
	// ToastSeconds is how long a notification stays visible (default: 4)
	ToastSeconds int `mapstructure:"toast_seconds" yaml:"toast_seconds"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging to a file is enabled (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is where backoffice.log is written (default: the config directory)
	Dir string `mapstructure:"dir" yaml:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
	// MaxAgeDays removes rotated files older than this (default: 28, 0 = keep)
	MaxAgeDays int `mapstructure:"max_age_days" yaml:"max_age_days"`
	// Compress gzips rotated files (default: false)
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// ServerConfig controls the demo API server started by "backoffice serve"
type ServerConfig struct {
	// Addr is the listen address (default: "127.0.0.1:8080")
	Addr string `mapstructure:"addr" yaml:"addr"`
	// DBPath is the SQLite database file; ":memory:" keeps data in memory
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
	// Seed fills empty resources with sample records on start (default: true)
	Seed bool `mapstructure:"seed" yaml:"seed"`
	// Metrics exposes Prometheus metrics on /metrics (default: true)
	Metrics bool `mapstructure:"metrics" yaml:"metrics"`
}

// ScreenConfig declares one admin screen and the resource behind it
type ScreenConfig struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Title    string `mapstructure:"title" yaml:"title"`
	Singular string `mapstructure:"singular" yaml:"singular,omitempty"`
	// Path is the API collection path relative to api.base_url (default: Name)
	Path string `mapstructure:"path" yaml:"path,omitempty"`
	// IDFields are tried in order to identify a record (default: ["_id", "id"])
	IDFields       []string `mapstructure:"id_fields" yaml:"id_fields,omitempty"`
	NaturalKey     string   `mapstructure:"natural_key" yaml:"natural_key,omitempty"`
	TimestampField string   `mapstructure:"timestamp_field" yaml:"timestamp_field,omitempty"`
	StatusField    string   `mapstructure:"status_field" yaml:"status_field,omitempty"`
	// StatusDefault applies when a record carries no status: "active" or "inactive"
	StatusDefault string `mapstructure:"status_default" yaml:"status_default,omitempty"`
	// DefaultSort is "<column>" or "<column>:asc|desc" (default: "<timestamp_field>:desc")
	DefaultSort string `mapstructure:"default_sort" yaml:"default_sort,omitempty"`
	// ServerSearch forwards the search term to the API as ?q=
	ServerSearch bool           `mapstructure:"server_search" yaml:"server_search,omitempty"`
	Columns      []ColumnConfig `mapstructure:"columns" yaml:"columns"`
}

// ColumnConfig declares one column of a screen
type ColumnConfig struct {
	Key   string `mapstructure:"key" yaml:"key"`
	Title string `mapstructure:"title" yaml:"title"`
	// Kind is one of text, number, bool, status, date, markdown (default: text)
	Kind       string `mapstructure:"kind" yaml:"kind,omitempty"`
	Searchable bool   `mapstructure:"searchable" yaml:"searchable,omitempty"`
	Sortable   bool   `mapstructure:"sortable" yaml:"sortable,omitempty"`
	Editable   bool   `mapstructure:"editable" yaml:"editable,omitempty"`
	// Rules is a validator tag checked before submit, e.g. "required,max=120"
	Rules     string `mapstructure:"rules" yaml:"rules,omitempty"`
	Secondary string `mapstructure:"secondary" yaml:"secondary,omitempty"`
}

// Screen returns the screen named name.
func (c *Config) Screen(name string) (ScreenConfig, bool) {
	for _, s := range c.Screens {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return ScreenConfig{}, false
}

// ScreenNames returns the configured screen names in order.
func (c *Config) ScreenNames() []string {
	names := make([]string, len(c.Screens))
	for i, s := range c.Screens {
		names[i] = s.Name
	}
	return names
}

// ResourcePath returns the API path for the screen.
func (s ScreenConfig) ResourcePath() string {
	if s.Path != "" {
		return strings.Trim(s.Path, "/")
	}
	return s.Name
}

// Timeout returns the per-attempt HTTP timeout as a time.Duration
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryWaitMin returns the minimum retry backoff as a time.Duration
func (c *APIConfig) RetryWaitMin() time.Duration {
	return time.Duration(c.RetryWaitMinMs) * time.Millisecond
}

// RetryWaitMax returns the maximum retry backoff as a time.Duration
func (c *APIConfig) RetryWaitMax() time.Duration {
	return time.Duration(c.RetryWaitMaxMs) * time.Millisecond
}

// Debounce returns the search debounce window as a time.Duration
func (c *ListConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// ToastDuration returns how long notifications stay on screen
func (c *TUIConfig) ToastDuration() time.Duration {
	return time.Duration(c.ToastSeconds) * time.Second
}

// ResolveDir returns the log directory, expanding ~ and falling back to the
// config directory when unset.
func (c *LoggingConfig) ResolveDir() string {
	path := c.Dir
	if path == "" {
		return ConfigDir()
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://127.0.0.1:8080/api",
			TimeoutSeconds: 15,
			RetryMax:       3,
			RetryWaitMinMs: 250,
			RetryWaitMaxMs: 2000,
		},
		List: ListConfig{
			DefaultLimit:     10,
			LimitOptions:     []int{10, 20, 50, 100},
			DebounceMs:       350,
			ClampToFirstPage: false,
			RefetchOnEdit:    true,
		},
		TUI: TUIConfig{
			Theme:           "default",
			Mouse:           true,
			MarkdownPreview: true,
			ToastSeconds:    4,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Server: ServerConfig{
			Addr:    "127.0.0.1:8080",
			DBPath:  ":memory:",
			Seed:    true,
			Metrics: true,
		},
		Screens: DefaultScreens(),
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// API defaults
	viper.SetDefault("api.base_url", defaults.API.BaseURL)
	viper.SetDefault("api.token", defaults.API.Token)
	viper.SetDefault("api.timeout_seconds", defaults.API.TimeoutSeconds)
	viper.SetDefault("api.retry_max", defaults.API.RetryMax)
	viper.SetDefault("api.retry_wait_min_ms", defaults.API.RetryWaitMinMs)
	viper.SetDefault("api.retry_wait_max_ms", defaults.API.RetryWaitMaxMs)

	// List defaults
	viper.SetDefault("list.default_limit", defaults.List.DefaultLimit)
	viper.SetDefault("list.limit_options", defaults.List.LimitOptions)
	viper.SetDefault("list.debounce_ms", defaults.List.DebounceMs)
	viper.SetDefault("list.clamp_to_first_page", defaults.List.ClampToFirstPage)
	viper.SetDefault("list.refetch_on_edit", defaults.List.RefetchOnEdit)

	// TUI defaults
	viper.SetDefault("tui.theme", defaults.TUI.Theme)
	viper.SetDefault("tui.mouse", defaults.TUI.Mouse)
	viper.SetDefault("tui.markdown_preview", defaults.TUI.MarkdownPreview)
	viper.SetDefault("tui.toast_seconds", defaults.TUI.ToastSeconds)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.max_age_days", defaults.Logging.MaxAgeDays)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)

	// Server defaults
	viper.SetDefault("server.addr", defaults.Server.Addr)
	viper.SetDefault("server.db_path", defaults.Server.DBPath)
	viper.SetDefault("server.seed", defaults.Server.Seed)
	viper.SetDefault("server.metrics", defaults.Server.Metrics)

	// Screens are a list; viper cannot merge individual entries, so the
	// whole default set applies unless the file declares its own.
	viper.SetDefault("screens", defaults.Screens)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.applyScreenDefaults()

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// Watch reloads the configuration whenever the config file changes and
// passes the result to onChange. Invalid edits are reported through onError
// and leave the previous configuration in effect.
func Watch(onChange func(*Config), onError func(error)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := Load()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	viper.WatchConfig()
}

// applyScreenDefaults fills per-screen fields that default from others.
func (c *Config) applyScreenDefaults() {
	for i := range c.Screens {
		s := &c.Screens[i]
		if s.Title == "" {
			s.Title = s.Name
		}
		for j := range s.Columns {
			col := &s.Columns[j]
			if col.Kind == "" {
				col.Kind = "text"
			}
			if col.Title == "" {
				col.Title = col.Key
			}
		}
	}
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "backoffice")
	}
	// Fall back to ~/.config/backoffice
	home, err := os.UserHomeDir()
	if err != nil {
		return ".backoffice"
	}
	return filepath.Join(home, ".config", "backoffice")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
