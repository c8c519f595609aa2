package watchlist

import (
	"time"

	"moviefinder/errs"
	"moviefinder/movie"
)

var (
	ErrNotSignedIn   = errs.Errorf(errs.EUNAUTHORIZED, "not signed in")
	ErrAlreadyInList = errs.Errorf(errs.ECONFLICT, "movie is already in the watchlist")
	ErrNotInList     = errs.Errorf(errs.ENOTFOUND, "movie is not in the watchlist")
	ErrInvalidMovie  = errs.Errorf(errs.EINVALID, "movie id and title are required")
)

// Item is one saved movie. The display fields are copied at save time so the
// list renders without calling the catalog.
type Item struct {
	UserID      string    `json:"userId"`
	MovieID     int       `json:"movieId"`
	Title       string    `json:"title"`
	PosterPath  string    `json:"posterPath,omitempty"`
	ReleaseYear int       `json:"releaseYear,omitempty"`
	VoteAverage float64   `json:"voteAverage,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewItem builds the row saved for m.
func NewItem(userID string, m movie.Summary) Item {
	return Item{
		UserID:      userID,
		MovieID:     m.ID,
		Title:       m.Title,
		PosterPath:  m.PosterPath,
		ReleaseYear: m.ReleaseYear(),
		VoteAverage: m.VoteAverage,
	}
}
