package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNextOrder(t *testing.T) {
	assert.Equal(t, 1, NextOrder(nil))
	assert.Equal(t, 1, NextOrder([]Review{}))
	assert.Equal(t, 4, NextOrder([]Review{{Order: 3}, {Order: 1}}))
	assert.Equal(t, 8, NextOrder([]Review{{Order: 3}, {Order: 7}}))
	// gaps do not matter, only the max
	assert.Equal(t, 11, NextOrder([]Review{{Order: 10}, {Order: 2}}))
}

func TestSwapOrder(t *testing.T) {
	a := Review{ID: "a", Order: 2}
	b := Review{ID: "b", Order: 7}
	SwapOrder(&a, &b)
	assert.Equal(t, 7, a.Order)
	assert.Equal(t, 2, b.Order)
}

func TestRenumber(t *testing.T) {
	in := []Review{{ID: "x", Order: 9}, {ID: "y", Order: 2}, {ID: "z", Order: 9}}
	out := Renumber(in)
	assert.Equal(t, []int{1, 2, 3}, orders(out))
	// input slice untouched
	assert.Equal(t, 9, in[0].Order)
}

func TestOrderProperties(t *testing.T) {
	t.Run("next order exceeds every existing order", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			items := rapid.SliceOfN(rapid.Custom(func(t *rapid.T) Review {
				return Review{Order: rapid.IntRange(-5, 50).Draw(t, "order")}
			}), 0, 20).Draw(t, "items")
			next := NextOrder(items)
			for _, item := range items {
				if next <= item.Order {
					t.Fatalf("NextOrder %d not past existing %d", next, item.Order)
				}
			}
			if len(items) == 0 && next != 1 {
				t.Fatalf("empty collection must start at 1, got %d", next)
			}
		})
	})

	t.Run("swap is an involution", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			a := Review{Order: rapid.IntRange(1, 100).Draw(t, "a")}
			b := Review{Order: rapid.IntRange(1, 100).Draw(t, "b")}
			origA, origB := a.Order, b.Order
			SwapOrder(&a, &b)
			SwapOrder(&a, &b)
			if a.Order != origA || b.Order != origB {
				t.Fatalf("double swap changed orders: %d,%d -> %d,%d", origA, origB, a.Order, b.Order)
			}
		})
	})

	t.Run("renumber is dense and position-preserving", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			ids := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{1,8}`), 0, 15, rapid.ID[string]).Draw(t, "ids")
			items := make([]Review, len(ids))
			for i, id := range ids {
				items[i] = Review{ID: id, Order: rapid.IntRange(0, 99).Draw(t, "order")}
			}
			out := Renumber(items)
			for i, rec := range out {
				if rec.Order != i+1 {
					t.Fatalf("position %d got order %d", i, rec.Order)
				}
				if rec.ID != items[i].ID {
					t.Fatalf("renumber reordered elements")
				}
			}
		})
	})
}

func orders(items []Review) []int {
	out := make([]int, len(items))
	for i, item := range items {
		out[i] = item.Order
	}
	return out
}
