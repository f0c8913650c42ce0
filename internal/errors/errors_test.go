package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *FetchError
		want string
	}{
		{
			name: "bare",
			err:  NewFetchError("", nil),
			want: "fetch error: request failed",
		},
		{
			name: "with context and cause",
			err:  NewFetchError("list", io.ErrUnexpectedEOF).WithResource("faqs").WithStatus(502),
			want: "fetch error [op=list, resource=faqs, status=502]: request failed: unexpected EOF",
		},
		{
			name: "custom message",
			err:  NewFetchError("get", nil).WithMessage("server unavailable"),
			want: "fetch error [op=get]: server unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchError_Is(t *testing.T) {
	err := NewFetchError("list", io.ErrUnexpectedEOF)

	if !errors.Is(err, ErrTransient) {
		t.Error("FetchError should match ErrTransient")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("FetchError should match its cause")
	}
	if !errors.Is(fmt.Errorf("wrapped: %w", err), &FetchError{}) {
		t.Error("wrapped FetchError should match the type")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("FetchError should not match ErrNotFound")
	}
}

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError("invalid payload").
		WithFieldError("title", "is required").
		WithFields(map[string]string{"price": "must be numeric"})

	want := "validation error: invalid payload [price: must be numeric; title: is required]"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if _, ok := AsValidation(Wrap(err, "create faqs")); !ok {
		t.Error("wrapped ValidationError should be extracted")
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("faqs", "abc")
	if got, want := err.Error(), "faqs 'abc' not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}
	if GetSeverity(err) != SeverityWarning {
		t.Errorf("severity = %v, want warning", GetSeverity(err))
	}
}

func TestAuthError(t *testing.T) {
	err := NewAuthError(401, "")
	if got, want := err.Error(), "auth error [status=401]: not authorized"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Error("AuthError should match ErrUnauthorized")
	}
	if GetSeverity(err) != SeverityCritical {
		t.Errorf("severity = %v, want critical", GetSeverity(err))
	}
}

func TestClassification(t *testing.T) {
	plain := errors.New("boom")
	fetch := Wrap(NewFetchError("list", plain), "loading faqs")
	auth := NewAuthError(403, "forbidden")
	notFound := NewNotFoundError("orders", "1")
	validation := NewValidationError("bad")

	tests := []struct {
		name       string
		err        error
		retryable  bool
		userFacing bool
		notFound   bool
		auth       bool
		fetch      bool
	}{
		{"nil", nil, false, false, false, false, false},
		{"plain", plain, false, false, false, false, false},
		{"fetch", fetch, true, true, false, false, true},
		{"auth", auth, false, true, false, true, false},
		{"not found", notFound, false, true, true, false, false},
		{"validation", validation, false, true, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
			if got := IsUserFacing(tt.err); got != tt.userFacing {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.userFacing)
			}
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.notFound)
			}
			if got := IsAuth(tt.err); got != tt.auth {
				t.Errorf("IsAuth() = %v, want %v", got, tt.auth)
			}
			if got := IsFetch(tt.err); got != tt.fetch {
				t.Errorf("IsFetch() = %v, want %v", got, tt.fetch)
			}
		})
	}
}

func TestAsValidation(t *testing.T) {
	err := Wrapf(NewValidationError("bad").WithFieldError("slug", "taken"), "create %s", "categories")

	v, ok := AsValidation(err)
	if !ok {
		t.Fatal("AsValidation() ok = false")
	}
	if v.Fields["slug"] != "taken" {
		t.Errorf("Fields = %v", v.Fields)
	}
	if _, ok := AsValidation(errors.New("x")); ok {
		t.Error("AsValidation() on plain error should be false")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"fetch with status", NewFetchError("list", nil).WithStatus(503), "request failed (HTTP 503)"},
		{"fetch with cause", NewFetchError("list", io.EOF), "request failed: EOF"},
		{"auth", NewAuthError(401, "token expired"), "token expired"},
		{"not found", NewNotFoundError("faqs", "9"), "faqs '9' not found"},
		{"validation", NewValidationError("check the highlighted fields"), "check the highlighted fields"},
		{"foreign", errors.New("boom"), "unexpected error: boom"},
		{"wrapped foreign", Wrap(errors.New("boom"), "faqs"), "unexpected error: faqs: boom"},
		{"wrapped fetch", Wrap(NewFetchError("list", nil).WithStatus(502), "faqs"), "request failed (HTTP 502)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.err); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "x") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	if Wrapf(nil, "x %d", 1) != nil {
		t.Error("Wrapf(nil) should be nil")
	}
	err := Wrap(ErrBusy, "submit")
	if !errors.Is(err, ErrBusy) {
		t.Error("wrapped error should match")
	}
}
