package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a "category.action" identifier, e.g. "list.fetched".
	EventType() string
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// Event type identifiers.
const (
	TypeNotificationSuccess = "notification.success"
	TypeNotificationError   = "notification.error"
	TypeListFetched         = "list.fetched"
	TypeListFetchFailed     = "list.fetch_failed"
	TypeRecordSaved         = "record.saved"
	TypeRecordDeleted       = "record.deleted"
	TypeAuthFailed          = "auth.failed"
	TypeConfigReloaded      = "config.reloaded"
)

// -----------------------------------------------------------------------------
// Notifications
// -----------------------------------------------------------------------------

// NotificationEvent is operator-facing feedback for one mutation outcome.
type NotificationEvent struct {
	baseEvent
	Screen      string
	Title       string
	Description string
}

// IsError reports whether the notification reports a failure.
func (e NotificationEvent) IsError() bool {
	return e.eventType == TypeNotificationError
}

// NewNotificationEvent creates a success or error notification.
func NewNotificationEvent(screen string, isError bool, title, description string) NotificationEvent {
	t := TypeNotificationSuccess
	if isError {
		t = TypeNotificationError
	}
	return NotificationEvent{
		baseEvent:   newBaseEvent(t),
		Screen:      screen,
		Title:       title,
		Description: description,
	}
}

// -----------------------------------------------------------------------------
// List Lifecycle Events
// -----------------------------------------------------------------------------

// ListFetchedEvent is emitted when a list response is applied.
type ListFetchedEvent struct {
	baseEvent
	Screen       string
	Seq          uint64
	Page         int
	TotalPages   int
	TotalRecords int
	Rows         int
	Duration     time.Duration
}

// NewListFetchedEvent creates a ListFetchedEvent.
func NewListFetchedEvent(screen string, seq uint64, page, totalPages, totalRecords, rows int, d time.Duration) ListFetchedEvent {
	return ListFetchedEvent{
		baseEvent:    newBaseEvent(TypeListFetched),
		Screen:       screen,
		Seq:          seq,
		Page:         page,
		TotalPages:   totalPages,
		TotalRecords: totalRecords,
		Rows:         rows,
		Duration:     d,
	}
}

// ListFetchFailedEvent is emitted when the latest list request fails.
type ListFetchFailedEvent struct {
	baseEvent
	Screen string
	Seq    uint64
	Err    error
}

// NewListFetchFailedEvent creates a ListFetchFailedEvent.
func NewListFetchFailedEvent(screen string, seq uint64, err error) ListFetchFailedEvent {
	return ListFetchFailedEvent{
		baseEvent: newBaseEvent(TypeListFetchFailed),
		Screen:    screen,
		Seq:       seq,
		Err:       err,
	}
}

// -----------------------------------------------------------------------------
// Mutation Events
// -----------------------------------------------------------------------------

// RecordSavedEvent is emitted after a successful create or update.
type RecordSavedEvent struct {
	baseEvent
	Screen  string
	ID      string
	Created bool
}

// NewRecordSavedEvent creates a RecordSavedEvent.
func NewRecordSavedEvent(screen, id string, created bool) RecordSavedEvent {
	return RecordSavedEvent{
		baseEvent: newBaseEvent(TypeRecordSaved),
		Screen:    screen,
		ID:        id,
		Created:   created,
	}
}

// RecordDeletedEvent is emitted after a confirmed delete succeeds.
type RecordDeletedEvent struct {
	baseEvent
	Screen string
	ID     string
}

// NewRecordDeletedEvent creates a RecordDeletedEvent.
func NewRecordDeletedEvent(screen, id string) RecordDeletedEvent {
	return RecordDeletedEvent{
		baseEvent: newBaseEvent(TypeRecordDeleted),
		Screen:    screen,
		ID:        id,
	}
}

// AuthFailedEvent is emitted when the API rejects the credentials.
type AuthFailedEvent struct {
	baseEvent
	Screen string
	Err    error
}

// NewAuthFailedEvent creates an AuthFailedEvent.
func NewAuthFailedEvent(screen string, err error) AuthFailedEvent {
	return AuthFailedEvent{
		baseEvent: newBaseEvent(TypeAuthFailed),
		Screen:    screen,
		Err:       err,
	}
}

// -----------------------------------------------------------------------------
// Configuration Events
// -----------------------------------------------------------------------------

// ConfigReloadedEvent is emitted when the config file changes on disk and
// was re-read successfully.
type ConfigReloadedEvent struct {
	baseEvent
	Path string
}

// NewConfigReloadedEvent creates a ConfigReloadedEvent.
func NewConfigReloadedEvent(path string) ConfigReloadedEvent {
	return ConfigReloadedEvent{
		baseEvent: newBaseEvent(TypeConfigReloaded),
		Path:      path,
	}
}
