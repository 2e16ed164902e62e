package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/t-sasaki1124/book-review-portal/internal/review"
)

//go:embed sample.json
var sampleData []byte

// Sample is the demo variant: a fixed seed collection, with every write
// accepted and discarded. The reload after a mutation simply shows the
// seed again.
type Sample struct {
	items []json.RawMessage
}

func NewSample() (*Sample, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(sampleData, &items); err != nil {
		return nil, fmt.Errorf("decode sample data: %w", err)
	}
	return &Sample{items: items}, nil
}

func (s *Sample) List(context.Context) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *Sample) Get(_ context.Context, id string) (json.RawMessage, error) {
	for _, raw := range s.items {
		if rec := review.Coerce(raw, 0); rec.ID == id {
			return raw, nil
		}
	}
	return nil, review.ErrNotFound
}

func (s *Sample) Put(_ context.Context, rec review.Review) (review.Review, error) {
	return rec, nil
}

func (s *Sample) Delete(context.Context, string) error {
	return nil
}
