package review

import (
	"context"
	"encoding/json"
)

// Store is the backing record store, one of three variants selected at
// startup: the remote rate-limited API, the single-key local database, or
// the read-only sample set. List returns raw elements on purpose; the
// reconciliation step sanitizes every element before it is trusted.
type Store interface {
	List(ctx context.Context) ([]json.RawMessage, error)
	Get(ctx context.Context, id string) (json.RawMessage, error)
	Put(ctx context.Context, rec Review) (Review, error)
	Delete(ctx context.Context, id string) error
}
