package listctl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/backoffice/internal/event"
	"github.com/Iron-Ham/backoffice/internal/logging"
)

func TestBusNotifier(t *testing.T) {
	bus := event.NewBus(nil)
	var got []event.NotificationEvent
	for _, typ := range []string{event.TypeNotificationSuccess, event.TypeNotificationError} {
		bus.Subscribe(typ, func(e event.Event) {
			got = append(got, e.(event.NotificationEvent))
		})
	}

	n := BusNotifier{Bus: bus, Screen: "faqs"}
	n.Notify(Notification{Kind: NotifySuccess, Title: "FAQ created"})
	n.Notify(Notification{Kind: NotifyError, Title: "Could not delete FAQ", Description: "request failed"})

	require.Len(t, got, 2)
	require.False(t, got[0].IsError())
	require.Equal(t, "faqs", got[0].Screen)
	require.True(t, got[1].IsError())
	require.Equal(t, "request failed", got[1].Description)
}

func TestMultiNotifier(t *testing.T) {
	var buf bytes.Buffer
	var seen []string
	m := MultiNotifier{
		NotifierFunc(func(n Notification) { seen = append(seen, n.Title) }),
		nil,
		LogNotifier{Logger: logging.NewWriterLogger(&buf, "debug")},
	}

	m.Notify(Notification{Kind: NotifyError, Title: "Could not save FAQ"})

	require.Equal(t, []string{"Could not save FAQ"}, seen)
	require.Contains(t, buf.String(), "Could not save FAQ")
	require.Contains(t, buf.String(), "WARN")
}
