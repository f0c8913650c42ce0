package listctl

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDebounce is the search debounce window used when none is set.
const DefaultDebounce = 350 * time.Millisecond

// debouncer coalesces search keystrokes. Scheduling stops the previous
// timer; its command returns nil instead of a stale message.
type debouncer struct {
	window time.Duration
	gen    uint64
	stop   chan struct{}
}

func newDebouncer(window time.Duration) *debouncer {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &debouncer{window: window}
}

func (d *debouncer) schedule(ctl *Controller, term string) tea.Cmd {
	d.cancel()
	d.gen++
	gen, stop, window := d.gen, make(chan struct{}), d.window
	d.stop = stop

	return func() tea.Msg {
		t := time.NewTimer(window)
		defer t.Stop()
		select {
		case <-t.C:
			return debounceFiredMsg{ctl: ctl, gen: gen, term: term}
		case <-stop:
			return nil
		}
	}
}

// fired reports whether gen is the live timer and retires it.
func (d *debouncer) fired(gen uint64) bool {
	if gen != d.gen {
		return false
	}
	d.stop = nil
	return true
}

func (d *debouncer) cancel() {
	if d.stop != nil {
		close(d.stop)
		d.stop = nil
	}
}

func (d *debouncer) pending() bool {
	return d.stop != nil
}
