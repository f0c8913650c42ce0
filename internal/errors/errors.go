// Package errors defines the error taxonomy shared by the resource clients,
// the list controller and the terminal UI.
//
// # Error Types
//
// Every failure crossing the resource client boundary is one of:
//   - FetchError: transient network or server failure (retryable)
//   - AuthError: the API rejected the credentials (401/403)
//   - NotFoundError: the targeted record no longer exists (404)
//   - ValidationError: field-level rejection, produced locally or by the API
//
// # Usage
//
//	err := errors.NewFetchError("list", cause).WithStatus(503).WithResource("faqs")
//
//	if errors.IsNotFound(err) { ... }
//	if v, ok := errors.AsValidation(err); ok { showFieldErrors(v.Fields) }
//
// # Error Classification
//
// IsRetryable, IsUserFacing and GetSeverity classify any error, falling back
// to conservative defaults for errors outside the taxonomy.
package errors

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	// SeverityCritical is reserved for errors the operator cannot recover
	// from inside the current screen.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Sentinel errors
var (
	// ErrUnauthorized is matched by every AuthError.
	ErrUnauthorized = New("unauthorized")
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = New("not found")
	// ErrTransient is matched by every FetchError.
	ErrTransient = New("transient failure")
	// ErrBusy is recorded when a submit is rejected because another one is
	// still in flight.
	ErrBusy = New("operation already in progress")
)

// BackofficeError is implemented by every error in the taxonomy.
type BackofficeError interface {
	error
	Unwrap() error
	Is(target error) bool
	Severity() Severity
	IsRetryable() bool
	IsUserFacing() bool
}

type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error {
	return e.cause
}

func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

func (e *baseError) Severity() Severity {
	return e.severity
}

func (e *baseError) IsRetryable() bool {
	return e.retryable
}

func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// Message returns the message without cause or context decoration.
func (e *baseError) Message() string {
	return e.message
}

// -----------------------------------------------------------------------------
// FetchError
// -----------------------------------------------------------------------------

// FetchError is a transient failure: the network failed or the server
// answered with an unexpected status.
//
// Example:
//
//	err := errors.NewFetchError("list", io.ErrUnexpectedEOF).WithStatus(502)
//	fmt.Println(err) // "fetch error [op=list, status=502]: request failed: unexpected EOF"
type FetchError struct {
	baseError
	Op         string
	Resource   string
	StatusCode int
}

// NewFetchError creates a FetchError for op.
func NewFetchError(op string, cause error) *FetchError {
	return &FetchError{
		baseError: baseError{
			message:    "request failed",
			cause:      cause,
			severity:   SeverityError,
			retryable:  true,
			userFacing: true,
		},
		Op: op,
	}
}

// WithStatus records the HTTP status that caused the failure.
func (e *FetchError) WithStatus(code int) *FetchError {
	e.StatusCode = code
	return e
}

// WithResource records the resource the request targeted.
func (e *FetchError) WithResource(name string) *FetchError {
	e.Resource = name
	return e
}

// WithMessage replaces the generic message.
func (e *FetchError) WithMessage(msg string) *FetchError {
	e.message = msg
	return e
}

func (e *FetchError) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, "op="+e.Op)
	}
	if e.Resource != "" {
		parts = append(parts, "resource="+e.Resource)
	}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	prefix := "fetch error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("fetch error [%s]", strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

func (e *FetchError) Is(target error) bool {
	if _, ok := target.(*FetchError); ok {
		return true
	}
	if target == ErrTransient {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// AuthError
// -----------------------------------------------------------------------------

// AuthError means the API refused the configured credentials. It is not
// recoverable inside a screen and propagates to the application.
type AuthError struct {
	baseError
	StatusCode int
}

// NewAuthError creates an AuthError for an HTTP status.
func NewAuthError(status int, message string) *AuthError {
	if message == "" {
		message = "not authorized"
	}
	return &AuthError{
		baseError: baseError{
			message:    message,
			severity:   SeverityCritical,
			retryable:  false,
			userFacing: true,
		},
		StatusCode: status,
	}
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("auth error [status=%d]: %s", e.StatusCode, e.message)
	}
	return "auth error: " + e.message
}

func (e *AuthError) Is(target error) bool {
	if _, ok := target.(*AuthError); ok {
		return true
	}
	if target == ErrUnauthorized {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// NotFoundError
// -----------------------------------------------------------------------------

// NotFoundError represents a record that vanished server-side.
//
// Example:
//
//	err := errors.NewNotFoundError("faqs", "abc123")
//	fmt.Println(err) // "faqs 'abc123' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if target == ErrNotFound {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// ValidationError
// -----------------------------------------------------------------------------

// ValidationError carries field-level messages keyed by field name.
//
// Example:
//
//	err := errors.NewValidationError("invalid payload").
//		WithFieldError("title", "is required")
type ValidationError struct {
	baseError
	Fields map[string]string
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		Fields: make(map[string]string),
	}
}

// WithFieldError records a message for field.
func (e *ValidationError) WithFieldError(field, msg string) *ValidationError {
	e.Fields[field] = msg
	return e
}

// WithFields merges fields into the error.
func (e *ValidationError) WithFields(fields map[string]string) *ValidationError {
	maps.Copy(e.Fields, fields)
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

func (e *ValidationError) Error() string {
	msg := "validation error: " + e.message
	if len(e.Fields) == 0 {
		return msg
	}
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s [%s]", msg, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable reports whether err is transient.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var be BackofficeError
	if As(err, &be) {
		return be.IsRetryable()
	}
	return false
}

// IsUserFacing reports whether err's message can be shown to the operator.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var be BackofficeError
	if As(err, &be) {
		return be.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity of err, SeverityError for foreign errors.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var be BackofficeError
	if As(err, &be) {
		return be.Severity()
	}
	return SeverityError
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	return Is(err, ErrNotFound)
}

// IsAuth reports whether err is or wraps an AuthError.
func IsAuth(err error) bool {
	return Is(err, ErrUnauthorized)
}

// IsFetch reports whether err is or wraps a FetchError.
func IsFetch(err error) bool {
	return Is(err, ErrTransient)
}

// AsValidation extracts a ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Describe returns the text shown to the operator for err: the undecorated
// message for taxonomy errors, a generic line otherwise.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if !IsUserFacing(err) {
		return "unexpected error: " + err.Error()
	}
	var fe *FetchError
	if As(err, &fe) {
		if fe.StatusCode != 0 {
			return fmt.Sprintf("%s (HTTP %d)", fe.message, fe.StatusCode)
		}
		if fe.cause != nil {
			return fmt.Sprintf("%s: %v", fe.message, fe.cause)
		}
		return fe.message
	}
	var ae *AuthError
	if As(err, &ae) {
		return ae.message
	}
	var nf *NotFoundError
	if As(err, &nf) {
		return nf.message
	}
	var ve *ValidationError
	if As(err, &ve) {
		return ve.message
	}
	return "unexpected error: " + err.Error()
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
