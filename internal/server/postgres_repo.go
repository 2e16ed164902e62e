package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/t-sasaki1124/book-review-portal/internal/review"
)

// PostgresRepo stores each record as a JSONB payload alongside its id and
// owner. List is a plain owner-filtered select; density and ordering of the
// `order` field are the client engine's business, not the store's.
type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) List(ctx context.Context, owner string) ([]review.Review, error) {
	rows, err := r.db.Query(ctx, `
		SELECT payload FROM review_items
		WHERE owner = $1
		ORDER BY id`, owner)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []review.Review
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var rec review.Review
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (review.Review, error) {
	var payload []byte
	err := r.db.QueryRow(ctx, `SELECT payload FROM review_items WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return review.Review{}, ErrNotFound
	}
	if err != nil {
		return review.Review{}, fmt.Errorf("get item: %w", err)
	}
	var rec review.Review
	if err := json.Unmarshal(payload, &rec); err != nil {
		return review.Review{}, fmt.Errorf("decode item: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepo) Put(ctx context.Context, rec review.Review) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO review_items (id, owner, payload, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE
		SET owner = EXCLUDED.owner, payload = EXCLUDED.payload, updated_at = now()`,
		rec.ID, rec.Owner, payload)
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM review_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
