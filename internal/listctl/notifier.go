package listctl

import (
	"github.com/Iron-Ham/backoffice/internal/event"
	"github.com/Iron-Ham/backoffice/internal/logging"
)

// NotificationKind is success or error.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notification is transient operator feedback for one mutation outcome.
type Notification struct {
	Kind        NotificationKind
	Title       string
	Description string
}

// Notifier renders notifications. It is called from the event loop.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) { f(n) }

// BusNotifier publishes notifications on an event bus.
type BusNotifier struct {
	Bus    *event.Bus
	Screen string
}

// Notify publishes n as an event.NotificationEvent.
func (b BusNotifier) Notify(n Notification) {
	b.Bus.Publish(event.NewNotificationEvent(b.Screen, n.Kind == NotifyError, n.Title, n.Description))
}

// LogNotifier writes notifications to the log.
type LogNotifier struct {
	Logger *logging.Logger
}

// Notify logs n at info level, or warn for errors.
func (l LogNotifier) Notify(n Notification) {
	if n.Kind == NotifyError {
		l.Logger.Warn("notification", "title", n.Title, "description", n.Description)
		return
	}
	l.Logger.Info("notification", "title", n.Title, "description", n.Description)
}

// MultiNotifier fans a notification out to several notifiers.
type MultiNotifier []Notifier

// Notify forwards n to every notifier in order.
func (m MultiNotifier) Notify(n Notification) {
	for _, x := range m {
		if x != nil {
			x.Notify(n)
		}
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}
