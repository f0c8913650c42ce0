package listctl

import "slices"

// PointerTarget classifies where a pointer-down landed relative to the open
// row menu.
type PointerTarget int

const (
	PointerOutside PointerTarget = iota
	PointerTrigger
	PointerMenu
)

// MenuState tracks the single open row action menu. The zero value is
// closed.
type MenuState struct {
	OpenID string
}

// IsOpen reports whether any menu is open.
func (m MenuState) IsOpen() bool { return m.OpenID != "" }

// IsOpenFor reports whether the menu for id is open.
func (m MenuState) IsOpenFor(id string) bool { return id != "" && m.OpenID == id }

// Toggle handles a trigger press for id: it opens a closed menu, closes the
// open one for the same id, and moves directly to id from another row.
func (m MenuState) Toggle(id string) MenuState {
	if m.OpenID == id {
		return MenuState{}
	}
	return MenuState{OpenID: id}
}

// PointerDown closes the menu when the press landed outside both the
// trigger and the menu content.
func (m MenuState) PointerDown(target PointerTarget) MenuState {
	if target == PointerOutside {
		return MenuState{}
	}
	return m
}

// Invoke closes the menu after any of its actions runs.
func (m MenuState) Invoke() MenuState {
	return MenuState{}
}

// Reconcile closes the menu when its record is no longer on the page.
func (m MenuState) Reconcile(ids []string) MenuState {
	if m.IsOpen() && !slices.Contains(ids, m.OpenID) {
		return MenuState{}
	}
	return m
}
