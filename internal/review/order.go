package review

// NextOrder returns the display position for a newly created review: one
// past the current maximum, or 1 for an empty collection. Gaps in the
// existing orders are irrelevant; new reviews always append at the end.
func NextOrder(items []Review) int {
	max := 0
	for _, item := range items {
		if item.Order > max {
			max = item.Order
		}
	}
	return max + 1
}

// SwapOrder exchanges the display positions of exactly two reviews. No
// other review is renumbered. Callers must only offer a swap while the
// rendered view is unfiltered and sorted by ascending order; the engine
// trusts that precondition.
func SwapOrder(a, b *Review) {
	a.Order, b.Order = b.Order, a.Order
}

// Renumber assigns dense 1..N positions in the sequence's current order.
// Bulk rewrites go through here so a full replacement always lands with a
// gapless ordering.
func Renumber(items []Review) []Review {
	out := make([]Review, len(items))
	for i, item := range items {
		item.Order = i + 1
		out[i] = item
	}
	return out
}
