package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t-sasaki1124/book-review-portal/internal/review"
)

func TestSampleListIsSanitizableSeedData(t *testing.T) {
	sample, err := NewSample()
	require.NoError(t, err)

	raws, err := sample.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, raws)

	for i, raw := range raws {
		rec, ok := review.Sanitize(raw, i+1)
		require.True(t, ok, "seed element %d must survive sanitization", i)
		assert.NotEmpty(t, rec.ID)
		assert.GreaterOrEqual(t, rec.Rating, 1)
		assert.LessOrEqual(t, rec.Rating, 5)
	}
}

func TestSampleWritesAreDiscarded(t *testing.T) {
	ctx := context.Background()
	sample, err := NewSample()
	require.NoError(t, err)

	before, err := sample.List(ctx)
	require.NoError(t, err)

	_, err = sample.Put(ctx, review.Review{Title: "Ephemeral"})
	require.NoError(t, err)
	require.NoError(t, sample.Delete(ctx, "sample-1"))

	after, err := sample.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSampleGet(t *testing.T) {
	ctx := context.Background()
	sample, err := NewSample()
	require.NoError(t, err)

	raws, err := sample.List(ctx)
	require.NoError(t, err)
	first := review.Coerce(raws[0], 0)

	raw, err := sample.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.JSONEq(t, string(raws[0]), string(raw))

	_, err = sample.Get(ctx, "no-such-id")
	assert.ErrorIs(t, err, review.ErrNotFound)
}
