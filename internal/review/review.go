package review

import (
	"errors"
)

// ErrNotFound is returned when a review is not found in the backing store.
var ErrNotFound = errors.New("review not found")

// Review is a single book-review record. Order is the manual display
// position; it is user-controlled and independent of storage order.
type Review struct {
	ID                string   `json:"id,omitempty"`
	Owner             string   `json:"owner,omitempty"`
	Order             int      `json:"order"`
	Title             string   `json:"title"`
	Author            string   `json:"author"`
	Rating            int      `json:"rating"`
	Tags              []string `json:"tags"`
	AffiliateURL      string   `json:"affiliateUrl"`
	AlternateStoreURL string   `json:"alternateStoreUrl"`
	CoverImage        string   `json:"coverImage"`
	Notes             Notes    `json:"notes"`
}

// Notes holds the two free-text sections of a review.
type Notes struct {
	SelectionBackground []string `json:"selectionBackground"`
	Impressions         []string `json:"impressions"`
}
