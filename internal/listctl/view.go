package listctl

import (
	"github.com/Iron-Ham/backoffice/internal/query"
	"github.com/Iron-Ham/backoffice/internal/record"
)

// View is the read-only view model a screen renders from.
type View struct {
	// Rows are the fetched records after search and sort.
	Rows []record.Record
	// Fetched is the number of records on the fetched page before search.
	Fetched  int
	Page     PageState
	Sort     query.SortSpec
	Menu     MenuState
	Mutation MutationState
	Gate     Gate
	Form     Form
	// Input is the search box text; Term is the debounced value that drives
	// filtering.
	Input string
	Term  string
	// Searching is true while a keystroke waits out the debounce window.
	Searching bool
	Loading   bool
	ListErr   error
}

// View derives the current view model. Rows is a new slice on every call.
func (c *Controller) View() View {
	return View{
		Rows:      c.engine.Apply(c.records, c.term, c.sort),
		Fetched:   len(c.records),
		Page:      c.page,
		Sort:      c.sort,
		Menu:      c.menu,
		Mutation:  c.mutation,
		Gate:      c.gate,
		Form:      c.form.clone(),
		Input:     c.input,
		Term:      c.term,
		Searching: c.debounce.pending(),
		Loading:   c.loading,
		ListErr:   c.listErr,
	}
}

// Record returns the record with id from the current page.
func (c *Controller) Record(id string) (record.Record, bool) {
	return c.find(id)
}
