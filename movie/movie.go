package movie

import (
	"strconv"
	"strings"

	"moviefinder/errs"
)

var (
	ErrInvalidQuery   = errs.Errorf(errs.EINVALID, "invalid search query")
	ErrInvalidPage    = errs.Errorf(errs.EINVALID, "invalid page")
	ErrInvalidMovieID = errs.Errorf(errs.EINVALID, "invalid movie id")
	ErrInvalidFilter  = errs.Errorf(errs.EINVALID, "invalid filter")
)

// Image CDN tiers. Paths returned by the catalog are appended verbatim.
const (
	ImageBaseURL  = "https://image.tmdb.org/t/p"
	PosterSize    = "w500"
	ThumbnailSize = "w200"
)

// Summary is a read-only projection of one catalog entry.
type Summary struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"posterPath,omitempty"`
	ReleaseDate string  `json:"releaseDate,omitempty"`
	VoteAverage float64 `json:"voteAverage,omitempty"`
}

// ReleaseYear returns the YYYY prefix of the release date, or 0.
func (s Summary) ReleaseYear() int {
	year, _, _ := strings.Cut(s.ReleaseDate, "-")
	n, err := strconv.Atoi(year)
	if err != nil {
		return 0
	}
	return n
}

// Page is one page of catalog results together with the provider's page count.
type Page struct {
	Page         int       `json:"page"`
	Results      []Summary `json:"results"`
	TotalPages   int       `json:"totalPages"`
	TotalResults int       `json:"totalResults"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profilePath,omitempty"`
	ProfileURL  string `json:"profileUrl,omitempty"`
}

type Details struct {
	Summary
	Overview     string       `json:"overview"`
	BackdropPath string       `json:"backdropPath,omitempty"`
	Runtime      int          `json:"runtime,omitempty"`
	VoteCount    int          `json:"voteCount"`
	Genres       []Genre      `json:"genres"`
	Cast         []CastMember `json:"cast"`
}

// Filter narrows discover queries. A zero field means "not set".
type Filter struct {
	GenreID   int     `json:"genreId,omitempty"`
	Year      int     `json:"year,omitempty"`
	MinRating float64 `json:"minRating,omitempty"`
}

// Active reports whether any filter field is set.
func (f Filter) Active() bool {
	return f.GenreID != 0 || f.Year != 0 || f.MinRating != 0
}

func (f Filter) Validate() error {
	if f.GenreID < 0 || f.Year < 0 || f.MinRating < 0 || f.MinRating > 10 {
		return ErrInvalidFilter
	}
	return nil
}

// ImageURL composes a CDN URL for the given size tier. An empty path yields "".
func ImageURL(size, path string) string {
	if path == "" {
		return ""
	}
	return ImageBaseURL + "/" + size + path
}

func PosterURL(path string) string {
	return ImageURL(PosterSize, path)
}

func ThumbnailURL(path string) string {
	return ImageURL(ThumbnailSize, path)
}
