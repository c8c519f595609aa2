package searches

import (
	"time"

	"moviefinder/errs"
)

// ErrNotFound is returned by repositories when no counter exists for a term.
var ErrNotFound = errs.Errorf(errs.ENOTFOUND, "search term not found")

const DefaultTopLimit = 5

// Entry is one search-usage counter row.
type Entry struct {
	ID         string    `json:"id"`
	SearchTerm string    `json:"searchTerm"`
	Title      string    `json:"title"`
	PosterURL  string    `json:"posterUrl,omitempty"`
	Count      int       `json:"count"`
	MovieID    int       `json:"movieId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Hint identifies the top-ranked movie of a search, used for display.
type Hint struct {
	MovieID    int
	Title      string
	PosterPath string
}
