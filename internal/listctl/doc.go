// Package listctl implements the resource list controller shared by every
// admin screen.
//
// A [Controller] binds one [Schema] to one resource.Client and owns all of
// the screen's mutable state: the page window, the search input and its
// debounced term, the active sort, the single open row menu, the edit form
// with its pending flag, and the delete confirmation gate.
//
// The controller is driven from a Bubble Tea event loop. Every intent method
// (OnPageChange, OnSearchChange, OnSubmit, ...) mutates state synchronously
// and may return a tea.Cmd that performs network I/O off the loop; the
// command's result re-enters through [Controller.Update]. Nothing in the
// controller is safe for concurrent use: call it only from the loop.
//
// # Ordering
//
// Each list request carries a sequence number. A response is applied only
// when its sequence is the latest one dispatched, and dispatching a new
// request cancels the context of the one it supersedes. Search keystrokes
// are debounced; a newer keystroke stops the older timer, whose command
// then returns no message.
//
// # Errors
//
// List failures are kept inline ([View].ListErr) and never discard the rows
// already shown. Mutation failures are reported to the [Notifier]. An
// errors.AuthError additionally yields an [AuthErrorMsg] for the
// application to handle.
package listctl
