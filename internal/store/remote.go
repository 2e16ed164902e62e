// Package store provides the three backing-store variants behind the
// review.Store interface: the rate-limited remote record API, a local
// single-key database, and a read-only sample set. The variant is chosen
// once at startup; nothing downstream branches on it again.
package store

import (
	"context"
	"encoding/json"

	"github.com/t-sasaki1124/book-review-portal/internal/platform/recordapi"
	"github.com/t-sasaki1124/book-review-portal/internal/review"
)

// Remote is the review.Store backed by the remote record API. Every call
// is scoped to one owner.
type Remote struct {
	client *recordapi.Client
	owner  string
}

func NewRemote(client *recordapi.Client, owner string) *Remote {
	return &Remote{client: client, owner: owner}
}

func (r *Remote) List(ctx context.Context) ([]json.RawMessage, error) {
	return r.client.ListItems(ctx, r.owner)
}

func (r *Remote) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return r.client.GetItem(ctx, r.owner, id)
}

func (r *Remote) Put(ctx context.Context, rec review.Review) (review.Review, error) {
	return r.client.PutItem(ctx, r.owner, rec)
}

func (r *Remote) Delete(ctx context.Context, id string) error {
	ok, err := r.client.DeleteItem(ctx, r.owner, id)
	if err != nil {
		return err
	}
	if !ok {
		return review.ErrNotFound
	}
	return nil
}
