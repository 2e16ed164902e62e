// Package server is the backing record store API: owner-scoped CRUD over
// review records, the same contract the catalog client consumes. The store
// itself is permissive: it normalizes payloads but rejects nothing; the
// client-side sanitizer is the gatekeeper.
package server

import (
	"context"
	"errors"

	"github.com/t-sasaki1124/book-review-portal/internal/review"
)

// ErrNotFound is returned when a record id has no row.
var ErrNotFound = errors.New("record not found")

// Repository defines the contract for record storage. Get and Delete are
// keyed by id alone; the handler layer enforces owner visibility on top.
type Repository interface {
	List(ctx context.Context, owner string) ([]review.Review, error)
	Get(ctx context.Context, id string) (review.Review, error)
	Put(ctx context.Context, rec review.Review) error
	Delete(ctx context.Context, id string) error
}
