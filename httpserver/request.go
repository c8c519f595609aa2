package httpserver

import (
	"github.com/labstack/echo/v4"

	"moviefinder/movie"
)

type PageQuery struct {
	Page int `query:"page" json:"page" validate:"omitempty,gte=1,lte=500"`
}

// page returns the requested page, 1 when absent.
func (q PageQuery) page() int {
	if q.Page == 0 {
		return 1
	}
	return q.Page
}

type SearchQuery struct {
	PageQuery
	Q string `query:"q" json:"q" validate:"max=200"`
}

type DiscoverQuery struct {
	PageQuery
	GenreID   int     `query:"genre" json:"genre" validate:"gte=0"`
	Year      int     `query:"year" json:"year" validate:"gte=0"`
	MinRating float64 `query:"rating" json:"rating" validate:"gte=0,lte=10"`
}

func (q DiscoverQuery) ToFilter() movie.Filter {
	return movie.Filter{GenreID: q.GenreID, Year: q.Year, MinRating: q.MinRating}
}

type TopSearchesQuery struct {
	Limit int `query:"limit" json:"limit" validate:"gte=0,lte=50"`
}

type SetTermRequest struct {
	Term string `json:"term" validate:"max=200"`
}

type SetFilterRequest struct {
	GenreID   int     `json:"genreId" validate:"gte=0"`
	Year      int     `json:"year" validate:"gte=0"`
	MinRating float64 `json:"minRating" validate:"gte=0,lte=10"`
}

func (r SetFilterRequest) ToFilter() movie.Filter {
	return movie.Filter{GenreID: r.GenreID, Year: r.Year, MinRating: r.MinRating}
}

type AddWatchlistRequest struct {
	MovieID     int     `json:"movieId" validate:"required,gt=0"`
	Title       string  `json:"title" validate:"required,notblank,max=500"`
	PosterPath  string  `json:"posterPath" validate:"max=255"`
	ReleaseDate string  `json:"releaseDate" validate:"omitempty,datetime=2006-01-02"`
	VoteAverage float64 `json:"voteAverage" validate:"gte=0,lte=10"`
}

func (r AddWatchlistRequest) ToSummary() movie.Summary {
	return movie.Summary{
		ID:          r.MovieID,
		Title:       r.Title,
		PosterPath:  r.PosterPath,
		ReleaseDate: r.ReleaseDate,
		VoteAverage: r.VoteAverage,
	}
}

// bindAndValidate binds the request into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
