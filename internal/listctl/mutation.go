package listctl

import (
	"fmt"
	"maps"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/backoffice/internal/errors"
	"github.com/Iron-Ham/backoffice/internal/event"
	"github.com/Iron-Ham/backoffice/internal/record"
)

// FormMode says whether the form is closed, creating or editing.
type FormMode int

const (
	FormClosed FormMode = iota
	FormCreating
	FormEditing
)

func (m FormMode) String() string {
	switch m {
	case FormCreating:
		return "creating"
	case FormEditing:
		return "editing"
	default:
		return "closed"
	}
}

// MutationState tracks the edit form. EditingID is cleared only by a
// successful submit, an explicit cancel, or the record disappearing
// server-side; list refetches leave it alone.
type MutationState struct {
	Mode      FormMode
	EditingID string
	Pending   bool
	// Loading is true while the detail fetch for EditingID is outstanding.
	Loading   bool
	LastError error
}

func (c *Controller) notifyError(title string, err error) {
	c.notifier.Notify(Notification{
		Kind:        NotifyError,
		Title:       title,
		Description: errors.Describe(err),
	})
}

func (c *Controller) notifySuccess(title string) {
	c.notifier.Notify(Notification{Kind: NotifySuccess, Title: title})
}

// rejectSynthetic refuses row actions on records whose id was generated
// client-side and therefore cannot address the server.
func (c *Controller) rejectSynthetic(rec record.Record) bool {
	if !rec.Synthetic {
		return false
	}
	c.notifier.Notify(Notification{
		Kind:        NotifyError,
		Title:       fmt.Sprintf("Cannot modify this %s", c.schema.SingularTitle()),
		Description: "The record has no server identifier.",
	})
	return true
}

// closeFormFor closes the form when it edits id.
func (c *Controller) closeFormFor(id string) {
	if c.mutation.Mode == FormEditing && c.mutation.EditingID == id {
		c.mutation = MutationState{}
		c.form = Form{}
	}
}

// OnStartCreate opens an empty form.
func (c *Controller) OnStartCreate() tea.Cmd {
	if c.closed || c.mutation.Pending {
		return nil
	}
	c.menu = c.menu.Invoke()
	c.editGen++
	c.mutation = MutationState{Mode: FormCreating}
	c.form = blankForm(c.schema.FormColumns())
	return nil
}

// OnStartEdit opens the form for id, filled from the rendered row. With
// RefetchOnEdit the record is also fetched; if that succeeds while the form
// still edits id, the fetched values replace the row's. A failed fetch
// leaves the row values in place.
func (c *Controller) OnStartEdit(id string) tea.Cmd {
	if c.closed || c.mutation.Pending {
		return nil
	}
	rec, ok := c.find(id)
	if !ok {
		return nil
	}
	c.menu = c.menu.Invoke()
	if c.rejectSynthetic(rec) {
		return nil
	}

	c.editGen++
	c.mutation = MutationState{Mode: FormEditing, EditingID: id}
	c.form = formFromRecord(c.schema.FormColumns(), c.normalizer.Rules().StatusField, rec)
	if !c.refetchOnEdit {
		return nil
	}

	c.mutation.Loading = true
	gen, client, ctx := c.editGen, c.client, c.ctx
	return func() tea.Msg {
		raw, err := client.Get(ctx, id)
		return detailFetchedMsg{ctl: c, gen: gen, id: id, raw: raw, err: err}
	}
}

func (c *Controller) applyDetail(m detailFetchedMsg) tea.Cmd {
	if m.gen != c.editGen || c.mutation.Mode != FormEditing || c.mutation.EditingID != m.id {
		return nil
	}
	c.mutation.Loading = false
	if c.mutation.Pending {
		return nil
	}

	if m.err != nil {
		switch {
		case errors.IsNotFound(m.err):
			c.closeFormFor(m.id)
			c.notifyError(fmt.Sprintf("%s no longer exists", c.schema.SingularTitle()), m.err)
			return c.refetch()
		case errors.IsAuth(m.err):
			return c.authFailed(m.err)
		}
		c.logger.Warn("detail fetch failed, keeping row values", "id", m.id, "error", m.err)
		return nil
	}

	rec := c.normalizer.Normalize(m.raw)
	c.form = formFromRecord(c.schema.FormColumns(), c.normalizer.Rules().StatusField, rec)
	return nil
}

// OnFormInput updates one form value.
func (c *Controller) OnFormInput(key, value string) tea.Cmd {
	if c.closed || c.mutation.Mode == FormClosed {
		return nil
	}
	if c.form.Values == nil {
		c.form.Values = make(map[string]string)
	}
	c.form.Values[key] = value
	return nil
}

// OnCancelEdit closes the form. It is refused while a submit is pending.
func (c *Controller) OnCancelEdit() tea.Cmd {
	if c.closed || c.mutation.Pending {
		return nil
	}
	c.editGen++
	c.mutation = MutationState{}
	c.form = Form{}
	return nil
}

// OnSubmit validates values locally and, when valid, creates or updates the
// record. Invalid values produce field errors without a request. A second
// submit while one is pending is rejected.
func (c *Controller) OnSubmit(values map[string]string) tea.Cmd {
	if c.closed || c.mutation.Mode == FormClosed {
		return nil
	}
	if c.mutation.Pending {
		c.logger.Debug("submit rejected while pending")
		c.mutation.LastError = errors.ErrBusy
		return nil
	}
	if values == nil {
		values = c.form.Values
	}
	c.form.Values = maps.Clone(values)

	payload, fieldErrs := c.validator.Validate(c.schema.FormColumns(), values)
	if len(fieldErrs) > 0 {
		c.form.Errors = fieldErrs
		c.mutation.LastError = errors.NewValidationError("check the highlighted fields").WithFields(fieldErrs)
		return nil
	}

	c.form.Errors = nil
	c.mutation.Pending = true
	c.mutation.LastError = nil

	op, id := opCreate, ""
	if c.mutation.Mode == FormEditing {
		op, id = opUpdate, c.mutation.EditingID
	}
	client, ctx := c.client, c.ctx
	return func() tea.Msg {
		var (
			raw record.Raw
			err error
		)
		if op == opCreate {
			raw, err = client.Create(ctx, payload)
		} else {
			raw, err = client.Update(ctx, id, payload)
		}
		return savedMsg{ctl: c, op: op, id: id, raw: raw, err: err}
	}
}

func (c *Controller) applySaved(m savedMsg) tea.Cmd {
	c.mutation.Pending = false
	noun := c.schema.SingularTitle()

	if m.err != nil {
		c.mutation.LastError = m.err
		logFailure(c.logger, "save failed", m.err, "id", m.id)
		if v, ok := errors.AsValidation(m.err); ok {
			c.form.Errors = maps.Clone(v.Fields)
			c.notifyError(fmt.Sprintf("Could not save %s", noun), m.err)
			return nil
		}
		switch {
		case errors.IsNotFound(m.err):
			c.closeFormFor(m.id)
			c.menu = MenuState{}
			c.notifyError(fmt.Sprintf("%s no longer exists", noun), m.err)
			return c.refetch()
		case errors.IsAuth(m.err):
			return c.authFailed(m.err)
		}
		c.notifyError(fmt.Sprintf("Could not save %s", noun), m.err)
		return nil
	}

	c.editGen++
	c.mutation = MutationState{}
	c.form = Form{}

	if m.op == opCreate {
		id := c.normalizer.Normalize(m.raw).ID
		c.notifySuccess(fmt.Sprintf("%s created", noun))
		c.bus.Publish(event.NewRecordSavedEvent(c.schema.Name, id, true))
		return c.fetch(1, c.page.Limit, false)
	}
	c.notifySuccess(fmt.Sprintf("%s updated", noun))
	c.bus.Publish(event.NewRecordSavedEvent(c.schema.Name, m.id, false))
	return c.refetch()
}

// -----------------------------------------------------------------------------
// Delete
// -----------------------------------------------------------------------------

// OnDeleteRequest opens the confirmation gate for id.
func (c *Controller) OnDeleteRequest(id string) tea.Cmd {
	if c.closed {
		return nil
	}
	rec, ok := c.find(id)
	if !ok {
		return nil
	}
	c.menu = c.menu.Invoke()
	if c.rejectSynthetic(rec) {
		return nil
	}
	c.gate, _ = c.gate.Request(id)
	return nil
}

// OnDeleteConfirm deletes the record awaiting confirmation.
func (c *Controller) OnDeleteConfirm() tea.Cmd {
	if c.closed {
		return nil
	}
	next, ok := c.gate.Confirm()
	if !ok {
		return nil
	}
	c.gate = next

	id, client, ctx := next.ID, c.client, c.ctx
	return func() tea.Msg {
		return deletedMsg{ctl: c, id: id, err: client.Delete(ctx, id)}
	}
}

// OnDeleteCancel closes the gate. It is refused while the delete runs.
func (c *Controller) OnDeleteCancel() tea.Cmd {
	if c.closed {
		return nil
	}
	c.gate, _ = c.gate.Cancel()
	return nil
}

func (c *Controller) applyDeleted(m deletedMsg) tea.Cmd {
	noun := c.schema.SingularTitle()

	if m.err != nil {
		logFailure(c.logger, "delete failed", m.err, "id", m.id)
		switch {
		case errors.IsNotFound(m.err):
			if next, ok := c.gate.Succeeded(m.id); ok {
				c.gate = next
			}
			c.menu = MenuState{}
			c.closeFormFor(m.id)
			c.notifyError(fmt.Sprintf("%s no longer exists", noun), m.err)
			return c.refetch()
		case errors.IsAuth(m.err):
			if next, ok := c.gate.Failed(m.id, m.err); ok {
				c.gate = next
			}
			return c.authFailed(m.err)
		}
		if next, ok := c.gate.Failed(m.id, m.err); ok {
			c.gate = next
		}
		c.notifyError(fmt.Sprintf("Could not delete %s", noun), m.err)
		return nil
	}

	if next, ok := c.gate.Succeeded(m.id); ok {
		c.gate = next
	}
	c.closeFormFor(m.id)
	c.notifySuccess(fmt.Sprintf("%s deleted", noun))
	c.bus.Publish(event.NewRecordDeletedEvent(c.schema.Name, m.id))

	target := c.page.Page
	if _, onPage := c.find(m.id); onPage {
		target = c.clamp.afterDelete(c.page.Page, len(c.records))
	}
	return c.fetch(target, c.page.Limit, false)
}
