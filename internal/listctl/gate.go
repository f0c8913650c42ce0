package listctl

// GatePhase is the confirmation gate's state.
type GatePhase int

const (
	GateClosed GatePhase = iota
	GateConfirming
	GateDeleting
)

func (p GatePhase) String() string {
	switch p {
	case GateConfirming:
		return "confirming"
	case GateDeleting:
		return "deleting"
	default:
		return "closed"
	}
}

// Gate guards deletes behind an explicit confirmation. At most one delete is
// in flight per controller, and cancel is refused while it is.
type Gate struct {
	Phase GatePhase
	ID    string
	// Err is the failure of the last delete attempt for ID.
	Err error
}

// Request opens the gate for id. It is refused unless the gate is closed.
func (g Gate) Request(id string) (Gate, bool) {
	if g.Phase != GateClosed || id == "" {
		return g, false
	}
	return Gate{Phase: GateConfirming, ID: id}, true
}

// Confirm moves confirming(id) to deleting(id).
func (g Gate) Confirm() (Gate, bool) {
	if g.Phase != GateConfirming {
		return g, false
	}
	return Gate{Phase: GateDeleting, ID: g.ID}, true
}

// Cancel closes the gate unless a delete is in flight.
func (g Gate) Cancel() (Gate, bool) {
	switch g.Phase {
	case GateConfirming:
		return Gate{}, true
	default:
		return g, false
	}
}

// Succeeded closes the gate after the delete of id resolved.
func (g Gate) Succeeded(id string) (Gate, bool) {
	if g.Phase != GateDeleting || g.ID != id {
		return g, false
	}
	return Gate{}, true
}

// Failed returns to confirming(id) with err so the operator can retry or
// cancel without reopening the menu.
func (g Gate) Failed(id string, err error) (Gate, bool) {
	if g.Phase != GateDeleting || g.ID != id {
		return g, false
	}
	return Gate{Phase: GateConfirming, ID: id, Err: err}, true
}
