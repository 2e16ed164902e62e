package review

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Coerce turns an arbitrary JSON payload into a Review. It is total: every
// field degrades to an explicit default instead of failing, so malformed
// input never aborts a batch. Order falls back to fallbackOrder when absent
// or not a positive integer.
func Coerce(raw json.RawMessage, fallbackOrder int) Review {
	var src struct {
		ID                any `json:"id"`
		Owner             any `json:"owner"`
		Order             any `json:"order"`
		Title             any `json:"title"`
		Author            any `json:"author"`
		Rating            any `json:"rating"`
		Tags              any `json:"tags"`
		AffiliateURL      any `json:"affiliateUrl"`
		AlternateStoreURL any `json:"alternateStoreUrl"`
		RakutenURL        any `json:"rakutenUrl"` // legacy field name
		CoverImage        any `json:"coverImage"`
		Notes             any `json:"notes"`
	}
	_ = json.Unmarshal(raw, &src)

	alternate := trimmedString(src.AlternateStoreURL)
	if alternate == "" {
		alternate = trimmedString(src.RakutenURL)
	}

	return Review{
		ID:                trimmedString(src.ID),
		Owner:             trimmedString(src.Owner),
		Order:             coerceOrder(src.Order, fallbackOrder),
		Title:             trimmedString(src.Title),
		Author:            trimmedString(src.Author),
		Rating:            coerceRating(src.Rating),
		Tags:              coerceStrings(src.Tags, true),
		AffiliateURL:      trimmedString(src.AffiliateURL),
		AlternateStoreURL: alternate,
		CoverImage:        trimmedString(src.CoverImage),
		Notes:             coerceNotes(src.Notes),
	}
}

// Sanitize is Coerce plus the single hard requirement: a review whose title
// trims to empty is rejected. Everything merged into the canonical
// collection goes through here first.
func Sanitize(raw json.RawMessage, fallbackOrder int) (Review, bool) {
	rec := Coerce(raw, fallbackOrder)
	if rec.Title == "" {
		return Review{}, false
	}
	return rec, true
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func trimmedString(v any) string {
	return strings.TrimSpace(stringify(v))
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceRating(v any) int {
	f, ok := number(v)
	if !ok || f != math.Trunc(f) {
		return 3
	}
	n := int(f)
	if n < 1 || n > 5 {
		return 3
	}
	return n
}

func coerceOrder(v any, fallback int) int {
	f, ok := number(v)
	if !ok || f != math.Trunc(f) || f < 1 {
		return fallback
	}
	return int(f)
}

// coerceStrings maps every element through String coercion. Tags are
// trimmed; note lines are kept as written. Empty results are dropped either
// way; order is preserved and duplicates are allowed.
func coerceStrings(v any, trim bool) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		s := stringify(item)
		if trim {
			s = strings.TrimSpace(s)
		}
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func coerceNotes(v any) Notes {
	m, ok := v.(map[string]any)
	if !ok {
		return Notes{SelectionBackground: []string{}, Impressions: []string{}}
	}
	return Notes{
		SelectionBackground: coerceStrings(m["selectionBackground"], false),
		Impressions:         coerceStrings(m["impressions"], false),
	}
}
