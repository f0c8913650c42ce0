package listctl

import (
	"time"

	"github.com/Iron-Ham/backoffice/internal/record"
	"github.com/Iron-Ham/backoffice/internal/resource"
)

// Messages produced by controller commands. Each carries its controller so
// an application hosting several screens can route them with Owns.

type listFetchedMsg struct {
	ctl     *Controller
	seq     uint64
	params  resource.ListParams
	result  resource.ListResult
	err     error
	clamped bool
	elapsed time.Duration
}

type debounceFiredMsg struct {
	ctl  *Controller
	gen  uint64
	term string
}

type detailFetchedMsg struct {
	ctl *Controller
	gen uint64
	id  string
	raw record.Raw
	err error
}

type mutationOp int

const (
	opCreate mutationOp = iota
	opUpdate
)

type savedMsg struct {
	ctl *Controller
	op  mutationOp
	id  string
	raw record.Raw
	err error
}

type deletedMsg struct {
	ctl *Controller
	id  string
	err error
}

// AuthErrorMsg is emitted when the API rejects the credentials. It is not
// recoverable by the screen.
type AuthErrorMsg struct {
	Screen string
	Err    error
}

func (m AuthErrorMsg) Error() string {
	return m.Screen + ": " + m.Err.Error()
}

// Owns reports whether msg was produced by c.
func (c *Controller) Owns(msg any) bool {
	switch m := msg.(type) {
	case listFetchedMsg:
		return m.ctl == c
	case debounceFiredMsg:
		return m.ctl == c
	case detailFetchedMsg:
		return m.ctl == c
	case savedMsg:
		return m.ctl == c
	case deletedMsg:
		return m.ctl == c
	}
	return false
}
