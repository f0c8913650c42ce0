// Package resource defines the contract between list screens and the remote
// REST API, with an HTTP implementation and an in-memory one used for tests
// and offline demos.
package resource

import (
	"context"

	"github.com/Iron-Ham/backoffice/internal/record"
)

// ListParams selects one page of a collection.
type ListParams struct {
	Page  int
	Limit int
	Query string
}

// ListResult is one page of raw records plus the server's pagination state.
type ListResult struct {
	Records      []record.Raw
	Page         int
	TotalPages   int
	TotalRecords int
}

// Client is implemented once per resource type. Errors are drawn from
// internal/errors: FetchError and AuthError from every method, NotFoundError
// from Get/Update/Delete, ValidationError from Create/Update.
type Client interface {
	List(ctx context.Context, p ListParams) (ListResult, error)
	Get(ctx context.Context, id string) (record.Raw, error)
	Create(ctx context.Context, payload record.Raw) (record.Raw, error)
	Update(ctx context.Context, id string, payload record.Raw) (record.Raw, error)
	Delete(ctx context.Context, id string) error
}

// TotalPages derives a page count from a record total. It is never below 1.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}
