// Package view derives the presentation-ready sequence from the canonical
// collection. It is stateless with respect to storage: Project never
// mutates its input and owns no side effects.
package view

import (
	"encoding/json"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/t-sasaki1124/book-review-portal/internal/review"
)

// Sort keys accepted by Query. Anything else falls back to SortOrder.
const (
	SortOrder  = "order"
	SortRating = "rating"
	SortTitle  = "title"
	SortAuthor = "author"
)

// Query describes one rendering of the collection.
type Query struct {
	Keyword string // substring match over title/author/tags/notes
	Tag     string // exact tag membership
	Rating  int    // exact rating, 0 means no filter
	Sort    string
	Desc    bool
}

// Project filters and stably sorts items for display. Title and author
// comparisons are collated for Japanese text, case-insensitively, the way
// the catalog UI has always sorted them.
func Project(items []review.Review, q Query) []review.Review {
	out := make([]review.Review, 0, len(items))
	keyword := normalize(q.Keyword)
	for _, item := range items {
		if keyword != "" && !strings.Contains(normalize(haystack(item)), keyword) {
			continue
		}
		if q.Tag != "" && !hasTag(item, q.Tag) {
			continue
		}
		if q.Rating != 0 && item.Rating != q.Rating {
			continue
		}
		out = append(out, item)
	}

	coll := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		if q.Desc {
			i, j = j, i
		}
		return compare(out[i], out[j], q.Sort, coll)
	})
	return out
}

// TagOptions returns the distinct tags across the collection, collated.
// The UI builds its tag filter dropdown from this.
func TagOptions(items []review.Review) []string {
	seen := map[string]bool{}
	tags := []string{}
	for _, item := range items {
		for _, tag := range item.Tags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	coll := newCollator()
	sort.Slice(tags, func(i, j int) bool {
		return coll.CompareString(tags[i], tags[j]) < 0
	})
	return tags
}

func newCollator() *collate.Collator {
	// A Collator is not safe for concurrent use, so each projection gets
	// its own.
	return collate.New(language.Japanese, collate.IgnoreCase)
}

func compare(a, b review.Review, key string, coll *collate.Collator) bool {
	switch key {
	case SortRating:
		return a.Rating < b.Rating
	case SortTitle:
		return coll.CompareString(a.Title, b.Title) < 0
	case SortAuthor:
		return coll.CompareString(a.Author, b.Author) < 0
	default:
		return a.Order < b.Order
	}
}

func hasTag(item review.Review, tag string) bool {
	for _, t := range item.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// normalize lowercases and strips all whitespace so the keyword match is
// insensitive to case and spacing.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

func haystack(item review.Review) string {
	notes, _ := json.Marshal(item.Notes)
	parts := []string{item.Title, item.Author, strings.Join(item.Tags, " "), string(notes)}
	return strings.Join(parts, " ")
}
