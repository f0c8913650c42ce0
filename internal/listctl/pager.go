package listctl

import (
	"slices"

	"github.com/Iron-Ham/backoffice/internal/resource"
)

// DefaultLimit is the page size used when none is configured.
const DefaultLimit = 10

// DefaultLimitOptions are the page sizes offered when none are configured.
var DefaultLimitOptions = []int{10, 20, 50, 100}

// ClampPolicy decides where a page that fell beyond the last page goes.
type ClampPolicy int

const (
	// ClampToLast moves to the new last page.
	ClampToLast ClampPolicy = iota
	// ClampToFirst moves to page 1.
	ClampToFirst
)

// PageState is the server's pagination state for the rows on screen.
// After every applied fetch, 1 <= Page <= TotalPages.
type PageState struct {
	Page         int
	Limit        int
	TotalPages   int
	TotalRecords int
}

func newPageState(limit int) PageState {
	return PageState{Page: 1, Limit: limit, TotalPages: 1}
}

// InRange reports whether n is a page the operator may select.
func (p PageState) InRange(n int) bool {
	return n >= 1 && n <= p.TotalPages
}

// HasPrev reports whether a previous page exists.
func (p PageState) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p PageState) HasNext() bool { return p.Page < p.TotalPages }

// Offset returns the zero-based index of the first row of the page.
func (p PageState) Offset() int {
	return (p.Page - 1) * p.Limit
}

// StartRow returns the 1-indexed first row number on the current page,
// 0 when there are no records.
func (p PageState) StartRow() int {
	if p.TotalRecords == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
func (p PageState) EndRow() int {
	return min(p.Offset()+p.Limit, p.TotalRecords)
}

// PageNumbers returns at most five page numbers centered on the current page.
func (p PageState) PageNumbers() []int {
	const maxButtons = 5
	start := max(p.Page-maxButtons/2, 1)
	end := start + maxButtons - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = max(end-maxButtons+1, 1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// clampTarget is the page to move to when page no longer exists.
func (c ClampPolicy) clampTarget(totalPages int) int {
	if c == ClampToFirst {
		return 1
	}
	return max(totalPages, 1)
}

// afterDelete is the page to refetch after a delete from page that held
// rowsOnPage rows. Emptying a non-first page moves per the policy.
func (c ClampPolicy) afterDelete(page, rowsOnPage int) int {
	if rowsOnPage > 1 || page <= 1 {
		return page
	}
	return c.clampTarget(page - 1)
}

// sanitize turns a server result into a consistent page state, reporting
// whether the requested page lies beyond the reported last page.
func sanitize(res resource.ListResult, req resource.ListParams) (PageState, bool) {
	ps := PageState{
		Page:         res.Page,
		Limit:        req.Limit,
		TotalPages:   max(res.TotalPages, 1),
		TotalRecords: max(res.TotalRecords, 0),
	}
	if ps.Page < 1 {
		ps.Page = req.Page
	}
	stale := ps.Page > ps.TotalPages ||
		(len(res.Records) == 0 && ps.Page > 1 && ps.TotalRecords > 0)
	return ps, stale
}

// validLimit reports whether n is an accepted page size.
func validLimit(n int, options []int) bool {
	if n <= 0 {
		return false
	}
	return len(options) == 0 || slices.Contains(options, n)
}
