package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/t-sasaki1124/book-review-portal/internal/review"
)

// storageKey is the single well-known key the whole collection lives under,
// carried over from the browser build's localStorage layout.
const storageKey = "bookReviewPortal.books"

// Local is the review.Store for the offline variant: one SQLite row holding
// the serialized array, replaced wholesale on every mutation. Reads after a
// write go back through the database, so the persist-then-reread contract
// is the same as the remote variant's, just synchronous.
type Local struct {
	db *sql.DB
}

func NewLocal(path string) (*Local, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS storage (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create storage table: %w", err)
	}
	return &Local{db: db}, nil
}

func (l *Local) Close() error {
	return l.db.Close()
}

func (l *Local) List(ctx context.Context) ([]json.RawMessage, error) {
	items, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	raws := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

func (l *Local) Get(ctx context.Context, id string) (json.RawMessage, error) {
	items, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ID == id {
			return json.Marshal(item)
		}
	}
	return nil, review.ErrNotFound
}

func (l *Local) Put(ctx context.Context, rec review.Review) (review.Review, error) {
	items, err := l.load(ctx)
	if err != nil {
		return review.Review{}, err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	replaced := false
	for i := range items {
		if items[i].ID == rec.ID {
			items[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, rec)
	}
	if err := l.save(ctx, items); err != nil {
		return review.Review{}, err
	}
	return rec, nil
}

func (l *Local) Delete(ctx context.Context, id string) error {
	items, err := l.load(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return review.ErrNotFound
	}
	return l.save(ctx, kept)
}

func (l *Local) load(ctx context.Context) ([]review.Review, error) {
	var payload []byte
	err := l.db.QueryRowContext(ctx, `SELECT payload FROM storage WHERE key = ?`, storageKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	var items []review.Review
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	return items, nil
}

func (l *Local) save(ctx context.Context, items []review.Review) error {
	if items == nil {
		items = []review.Review{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	_, err = l.db.ExecContext(ctx, `INSERT INTO storage (key, payload) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET payload = excluded.payload`, storageKey, payload)
	if err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	return nil
}
