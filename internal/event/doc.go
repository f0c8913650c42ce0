// Package event provides a pub-sub event bus used by backoffice to move
// notifications and list lifecycle events from the list controllers to the
// terminal UI and the log, without either depending on the other.
//
// # Main Types
//
//   - [Event]: interface implemented by every event (EventType, Timestamp)
//   - [Bus]: synchronous dispatcher, safe for concurrent use
//   - [Handler]: func(Event)
//
// # Event Categories
//
// Notifications:
//   - [NotificationEvent]: "notification.success" / "notification.error"
//
// List lifecycle:
//   - [ListFetchedEvent]: a list response was applied
//   - [ListFetchFailedEvent]: the latest list request failed
//
// Mutations:
//   - [RecordSavedEvent], [RecordDeletedEvent]
//   - [AuthFailedEvent]: the API rejected the credentials
//
// Configuration:
//   - [ConfigReloadedEvent]
//
// # Usage
//
//	bus := event.NewBus(logger)
//	bus.Subscribe(event.TypeNotificationError, func(e event.Event) {
//	    n := e.(event.NotificationEvent)
//	    toast.Push(n.Title, n.Description)
//	})
//	bus.Publish(event.NewRecordDeletedEvent("faqs", "abc"))
//
// Handlers run synchronously on the publishing goroutine. A handler panic is
// recovered and logged so one subscriber cannot break delivery to others.
package event
