package config

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "list.debounce_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// screenNameRegex validates screen names, which double as URL path segments
// and CLI arguments
var screenNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Debounce window bounds in milliseconds
const (
	MinDebounceMs = 300
	MaxDebounceMs = 500
)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidThemes returns the TUI theme names. These must match the palettes
// registered in tui/styles (defined separately to avoid an import cycle).
func ValidThemes() []string {
	return []string{"default", "dracula", "nord", "monokai", "solarized-light"}
}

// ValidColumnKinds returns the accepted column kinds
func ValidColumnKinds() []string {
	return []string{"text", "number", "bool", "status", "date", "markdown"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateAPI()...)
	errors = append(errors, c.validateList()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateScreens()...)

	return errors
}

// validateAPI validates the APIConfig
func (c *Config) validateAPI() []ValidationError {
	var errors []ValidationError

	// An empty base URL is allowed; commands that need the API check it
	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "api.base_url",
				Value:   c.API.BaseURL,
				Message: "must be an absolute http or https URL",
			})
		}
	}

	const maxTimeoutSeconds = 300
	if c.API.TimeoutSeconds <= 0 || c.API.TimeoutSeconds > maxTimeoutSeconds {
		errors = append(errors, ValidationError{
			Field:   "api.timeout_seconds",
			Value:   c.API.TimeoutSeconds,
			Message: fmt.Sprintf("must be between 1 and %d", maxTimeoutSeconds),
		})
	}

	const maxRetries = 10
	if c.API.RetryMax < 0 || c.API.RetryMax > maxRetries {
		errors = append(errors, ValidationError{
			Field:   "api.retry_max",
			Value:   c.API.RetryMax,
			Message: fmt.Sprintf("must be between 0 and %d", maxRetries),
		})
	}

	if c.API.RetryWaitMinMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "api.retry_wait_min_ms",
			Value:   c.API.RetryWaitMinMs,
			Message: "must be non-negative",
		})
	}
	if c.API.RetryWaitMaxMs < c.API.RetryWaitMinMs {
		errors = append(errors, ValidationError{
			Field:   "api.retry_wait_max_ms",
			Value:   c.API.RetryWaitMaxMs,
			Message: "must not be less than api.retry_wait_min_ms",
		})
	}

	return errors
}

// validateList validates the ListConfig
func (c *Config) validateList() []ValidationError {
	var errors []ValidationError

	const maxLimit = 500
	if c.List.DefaultLimit <= 0 || c.List.DefaultLimit > maxLimit {
		errors = append(errors, ValidationError{
			Field:   "list.default_limit",
			Value:   c.List.DefaultLimit,
			Message: fmt.Sprintf("must be between 1 and %d", maxLimit),
		})
	}

	seen := make(map[int]bool, len(c.List.LimitOptions))
	for i, n := range c.List.LimitOptions {
		field := fmt.Sprintf("list.limit_options[%d]", i)
		switch {
		case n <= 0 || n > maxLimit:
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   n,
				Message: fmt.Sprintf("must be between 1 and %d", maxLimit),
			})
		case seen[n]:
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   n,
				Message: "duplicate page size",
			})
		}
		seen[n] = true
	}

	if c.List.DebounceMs < MinDebounceMs || c.List.DebounceMs > MaxDebounceMs {
		errors = append(errors, ValidationError{
			Field:   "list.debounce_ms",
			Value:   c.List.DebounceMs,
			Message: fmt.Sprintf("must be between %d and %d", MinDebounceMs, MaxDebounceMs),
		})
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.Theme != "" && !slices.Contains(ValidThemes(), c.TUI.Theme) {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidThemes(), ", ")),
		})
	}

	const maxToastSeconds = 60
	if c.TUI.ToastSeconds < 0 || c.TUI.ToastSeconds > maxToastSeconds {
		errors = append(errors, ValidationError{
			Field:   "tui.toast_seconds",
			Value:   c.TUI.ToastSeconds,
			Message: fmt.Sprintf("must be between 0 and %d", maxToastSeconds),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	// Max size must be positive
	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	// Reasonable upper bound for log file size
	const maxLogSizeMB = 1000 // 1GB
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	if c.Logging.MaxAgeDays < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_age_days",
			Value:   c.Logging.MaxAgeDays,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateServer validates the ServerConfig
func (c *Config) validateServer() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Server.Addr) == "" {
		errors = append(errors, ValidationError{
			Field:   "server.addr",
			Value:   c.Server.Addr,
			Message: "must not be empty",
		})
	}
	if strings.TrimSpace(c.Server.DBPath) == "" {
		errors = append(errors, ValidationError{
			Field:   "server.db_path",
			Value:   c.Server.DBPath,
			Message: "must not be empty (use :memory: for an in-memory database)",
		})
	}

	return errors
}

// validateScreens validates every ScreenConfig
func (c *Config) validateScreens() []ValidationError {
	var errors []ValidationError

	if len(c.Screens) == 0 {
		return append(errors, ValidationError{
			Field:   "screens",
			Value:   0,
			Message: "at least one screen is required",
		})
	}

	names := make(map[string]bool, len(c.Screens))
	for i, s := range c.Screens {
		prefix := fmt.Sprintf("screens[%d]", i)
		if !screenNameRegex.MatchString(s.Name) {
			errors = append(errors, ValidationError{
				Field:   prefix + ".name",
				Value:   s.Name,
				Message: "must start with a lowercase letter and contain only lowercase letters, digits and hyphens",
			})
		}
		if names[s.Name] {
			errors = append(errors, ValidationError{
				Field:   prefix + ".name",
				Value:   s.Name,
				Message: "duplicate screen name",
			})
		}
		names[s.Name] = true
		errors = append(errors, validateScreen(prefix, s)...)
	}

	return errors
}

func validateScreen(prefix string, s ScreenConfig) []ValidationError {
	var errors []ValidationError

	if s.StatusDefault != "" && s.StatusDefault != "active" && s.StatusDefault != "inactive" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".status_default",
			Value:   s.StatusDefault,
			Message: "must be active or inactive",
		})
	}

	if len(s.Columns) == 0 {
		return append(errors, ValidationError{
			Field:   prefix + ".columns",
			Value:   0,
			Message: "at least one column is required",
		})
	}

	keys := make(map[string]bool, len(s.Columns))
	for j, col := range s.Columns {
		field := fmt.Sprintf("%s.columns[%d]", prefix, j)
		if strings.TrimSpace(col.Key) == "" {
			errors = append(errors, ValidationError{
				Field:   field + ".key",
				Value:   col.Key,
				Message: "must not be empty",
			})
			continue
		}
		if keys[col.Key] {
			errors = append(errors, ValidationError{
				Field:   field + ".key",
				Value:   col.Key,
				Message: "duplicate column key",
			})
		}
		keys[col.Key] = true
		if col.Kind != "" && !slices.Contains(ValidColumnKinds(), col.Kind) {
			errors = append(errors, ValidationError{
				Field:   field + ".kind",
				Value:   col.Kind,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidColumnKinds(), ", ")),
			})
		}
	}

	for j, col := range s.Columns {
		if col.Secondary != "" && !keys[col.Secondary] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s.columns[%d].secondary", prefix, j),
				Value:   col.Secondary,
				Message: "must name another column",
			})
		}
	}

	if s.DefaultSort != "" {
		key, dir, _ := strings.Cut(s.DefaultSort, ":")
		if !keys[key] {
			errors = append(errors, ValidationError{
				Field:   prefix + ".default_sort",
				Value:   s.DefaultSort,
				Message: "must name a column",
			})
		}
		if dir != "" && dir != "asc" && dir != "desc" {
			errors = append(errors, ValidationError{
				Field:   prefix + ".default_sort",
				Value:   s.DefaultSort,
				Message: "direction must be asc or desc",
			})
		}
	}

	return errors
}
