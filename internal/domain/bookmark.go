package domain

import "time"

// Bookmark is the persisted record.
//
// ID and DateInserted are owned by the store: they are assigned on insert and
// never change afterwards. There is no update path, a bookmark is either read
// or deleted.
type Bookmark struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	URL         string `json:"url" db:"url"`
	Description string `json:"description" db:"description"`
	// Rating is an integer in [MinRating, MaxRating].
	Rating       int       `json:"rating" db:"rating"`
	DateInserted time.Time `json:"date_inserted" db:"date_inserted"`
}

// Rating bounds, inclusive.
const (
	MinRating = 0
	MaxRating = 5
)

// Candidate is an unvalidated create request.
//
// Rating is untyped: JSON numbers arrive as json.Number, YAML seeds as int or
// float64, and any other kind is reported as an invalid rating, not a decode error.
type Candidate struct {
	Title       string `json:"title" yaml:"title"`
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description" yaml:"description"`
	Rating      any    `json:"rating" yaml:"rating"`
}
