package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultWriteDelay spaces the serialized writes of a bulk operation so the
// backing store's throughput limit is not tripped by the burst.
const DefaultWriteDelay = 150 * time.Millisecond

// ErrTitleRequired is returned when a payload fails sanitization.
var ErrTitleRequired = errors.New("title must not be empty")

// ErrEmptyImport is returned when sanitization drops every element of an
// import batch.
var ErrEmptyImport = errors.New("no importable reviews in input")

// ImportMode selects how an import batch is merged into the collection.
type ImportMode string

const (
	// ImportOverwrite renumbers the batch 1..N and replaces the whole
	// owner-scoped collection with it.
	ImportOverwrite ImportMode = "overwrite"
	// ImportAppend assigns each element a fresh ascending order and adds it
	// after the existing reviews.
	ImportAppend ImportMode = "append"
)

// Service keeps one owner's collection consistent across the in-memory
// copy, the backing store, and whatever renders the result. Every mutation
// persists first and then reloads the full collection from the store; the
// pre-write in-memory state is never trusted as ground truth.
//
// A Service is a single-writer session object. It is not safe for
// concurrent use; the caller serializes mutations, each waiting for its own
// reload before the next begins.
type Service struct {
	store Store
	owner string

	delay time.Duration
	sleep func(context.Context, time.Duration) error

	items []Review
}

// NewService creates a review service for one owner's collection. owner may
// be empty for the local and sample variants, which store no owner field.
func NewService(store Store, owner string) *Service {
	return &Service{
		store: store,
		owner: owner,
		delay: DefaultWriteDelay,
		sleep: sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Items returns the canonical collection as of the last successful reload.
func (s *Service) Items() []Review {
	return s.items
}

// Reload re-fetches the complete collection from the backing store,
// sanitizes each element, and drops records belonging to another owner.
// The result replaces the in-memory collection wholesale and is the sole
// state offered to the view layer.
func (s *Service) Reload(ctx context.Context) ([]Review, error) {
	raws, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reload: %w", err)
	}
	items := make([]Review, 0, len(raws))
	for i, raw := range raws {
		rec, ok := Sanitize(raw, i+1)
		if !ok {
			continue
		}
		if s.owner != "" && rec.Owner != s.owner {
			continue
		}
		items = append(items, rec)
	}
	s.items = items
	return items, nil
}

// Create sanitizes the payload, appends it at the end of the collection and
// persists it. The new review's order is always one past the current
// maximum, regardless of any order in the payload.
func (s *Service) Create(ctx context.Context, raw json.RawMessage) (Review, error) {
	rec, ok := Sanitize(raw, 0)
	if !ok {
		return Review{}, ErrTitleRequired
	}
	rec.Owner = s.owner
	rec.Order = NextOrder(s.items)

	stored, err := s.store.Put(ctx, rec)
	if err != nil {
		return Review{}, fmt.Errorf("create: %w", err)
	}
	if _, err := s.Reload(ctx); err != nil {
		return Review{}, err
	}
	return stored, nil
}

// Update replaces the fields of an existing review. The display position is
// kept; editing never moves a review.
func (s *Service) Update(ctx context.Context, id string, raw json.RawMessage) (Review, error) {
	existing, err := s.find(id)
	if err != nil {
		return Review{}, err
	}
	rec, ok := Sanitize(raw, existing.Order)
	if !ok {
		return Review{}, ErrTitleRequired
	}
	rec.ID = id
	rec.Owner = s.owner
	rec.Order = existing.Order

	stored, err := s.store.Put(ctx, rec)
	if err != nil {
		return Review{}, fmt.Errorf("update: %w", err)
	}
	if _, err := s.Reload(ctx); err != nil {
		return Review{}, err
	}
	return stored, nil
}

// Delete removes one review and reloads.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	_, err := s.Reload(ctx)
	return err
}

// SwapOrders exchanges the display positions of two reviews, the drag-drop
// reorder. Exactly the two records are written; nothing else is renumbered.
// A failure between the first and second write can leave duplicate orders
// at rest; the following reload still renders, and the next bulk rewrite
// restores density.
func (s *Service) SwapOrders(ctx context.Context, idA, idB string) error {
	a, err := s.find(idA)
	if err != nil {
		return err
	}
	b, err := s.find(idB)
	if err != nil {
		return err
	}
	SwapOrder(&a, &b)
	if _, err := s.store.Put(ctx, a); err != nil {
		return fmt.Errorf("swap: %w", err)
	}
	if _, err := s.store.Put(ctx, b); err != nil {
		return fmt.Errorf("swap left a partial reorder, re-run reload: %w", err)
	}
	_, err = s.Reload(ctx)
	return err
}

// ReplaceAll supersedes the entire owner-scoped collection with recs,
// renumbered 1..N. Deletes and creates run serialized with a fixed
// inter-call delay to respect the store's throughput limits. There is no
// transaction across the sequence: a failure part-way leaves a mixture of
// old and new records, and the returned error says so.
func (s *Service) ReplaceAll(ctx context.Context, recs []Review) error {
	existing, err := s.Reload(ctx)
	if err != nil {
		return err
	}
	for _, old := range existing {
		if err := s.store.Delete(ctx, old.ID); err != nil {
			return fmt.Errorf("replace stopped part-way, stored data may mix old and new reviews: %w", err)
		}
		if err := s.sleep(ctx, s.delay); err != nil {
			return err
		}
	}
	for _, rec := range Renumber(recs) {
		rec.Owner = s.owner
		if _, err := s.store.Put(ctx, rec); err != nil {
			return fmt.Errorf("replace stopped part-way, stored data may mix old and new reviews: %w", err)
		}
		if err := s.sleep(ctx, s.delay); err != nil {
			return err
		}
	}
	_, err = s.Reload(ctx)
	return err
}

// Import merges an external JSON array into the collection. Every element
// is sanitized independently; rejected elements drop out without aborting
// the batch. The error is ErrEmptyImport only when nothing survives.
// It returns the number of imported reviews.
func (s *Service) Import(ctx context.Context, data []byte, mode ImportMode) (int, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return 0, fmt.Errorf("import: input is not a JSON array: %w", err)
	}
	batch := make([]Review, 0, len(raws))
	for i, raw := range raws {
		rec, ok := Sanitize(raw, i+1)
		if !ok {
			continue
		}
		batch = append(batch, rec)
	}
	if len(batch) == 0 {
		return 0, ErrEmptyImport
	}

	switch mode {
	case ImportOverwrite:
		if err := s.ReplaceAll(ctx, batch); err != nil {
			return 0, err
		}
	case ImportAppend:
		next := NextOrder(s.items)
		for _, rec := range batch {
			rec.ID = ""
			rec.Owner = s.owner
			rec.Order = next
			next++
			if _, err := s.store.Put(ctx, rec); err != nil {
				return 0, fmt.Errorf("import stopped part-way, re-run reload: %w", err)
			}
			if err := s.sleep(ctx, s.delay); err != nil {
				return 0, err
			}
		}
		if _, err := s.Reload(ctx); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("import: unknown mode %q", mode)
	}
	return len(batch), nil
}

// Export serializes the canonical collection verbatim, pretty-printed.
// Items are already sanitized; no re-sanitization happens on the way out.
func (s *Service) Export() ([]byte, error) {
	items := s.items
	if items == nil {
		items = []Review{}
	}
	return json.MarshalIndent(items, "", "  ")
}

func (s *Service) find(id string) (Review, error) {
	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}
	return Review{}, ErrNotFound
}
