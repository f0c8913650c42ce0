package tui

import (
	"sync"
	"time"

	"github.com/Iron-Ham/backoffice/internal/event"
)

// toast is the notification currently on screen. The spinner's ticks keep
// the screen repainting, so it disappears on the first frame after expires.
type toast struct {
	expires     time.Time
	isError     bool
	screen      string
	title       string
	description string
}

// notifications collects bus notifications for the model. Controllers
// publish from inside Update, so the queue is drained right after; the mutex
// covers publishers on other goroutines such as the config watcher.
type notifications struct {
	bus  *event.Bus
	subs []string

	mu      sync.Mutex
	pending []event.NotificationEvent
}

func newNotifications(bus *event.Bus) *notifications {
	n := &notifications{bus: bus}
	forward := func(e event.Event) {
		var ne event.NotificationEvent
		switch ev := e.(type) {
		case event.NotificationEvent:
			ne = ev
		case event.ConfigReloadedEvent:
			ne = event.NewNotificationEvent("", false, "Configuration reloaded", ev.Path)
		default:
			return
		}
		n.mu.Lock()
		n.pending = append(n.pending, ne)
		n.mu.Unlock()
	}
	for _, t := range []string{event.TypeNotificationSuccess, event.TypeNotificationError, event.TypeConfigReloaded} {
		n.subs = append(n.subs, bus.Subscribe(t, forward))
	}
	return n
}

// drain returns and clears the queued notifications.
func (n *notifications) drain() []event.NotificationEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pending
	n.pending = nil
	return out
}

// close unsubscribes from the bus.
func (n *notifications) close() {
	for _, id := range n.subs {
		n.bus.Unsubscribe(id)
	}
	n.subs = nil
}
