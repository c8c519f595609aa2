package movie

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Catalog is the read-only movie metadata provider.
type Catalog interface {
	ListPopular(ctx context.Context, page int) (Page, error)
	SearchByText(ctx context.Context, term string, page int) (Page, error)
	DiscoverByFilter(ctx context.Context, f Filter, page int) (Page, error)
	ListGenres(ctx context.Context) ([]Genre, error)
	ListTrendingToday(ctx context.Context) ([]Summary, error)
	GetDetails(ctx context.Context, id int) (Details, error)
}

// ViewLog records detail-page visits.
type ViewLog interface {
	LogView(ctx context.Context, movieID int, title string) error
}

type Service interface {
	Popular(ctx context.Context, page int) (Page, error)
	Search(ctx context.Context, term string, page int) (Page, error)
	Discover(ctx context.Context, f Filter, page int) (Page, error)
	Genres(ctx context.Context) ([]Genre, error)
	Trending(ctx context.Context) ([]Summary, error)
	Details(ctx context.Context, id int) (Details, error)
}

type Usecase struct {
	catalog Catalog
	views   ViewLog
	logger  *zap.SugaredLogger
}

func NewUsecase(c Catalog, v ViewLog, logger *zap.SugaredLogger) *Usecase {
	return &Usecase{
		catalog: c,
		views:   v,
		logger:  logger,
	}
}

func (uc *Usecase) Popular(ctx context.Context, page int) (Page, error) {
	if page < 1 {
		return Page{}, ErrInvalidPage
	}
	return uc.catalog.ListPopular(ctx, page)
}

func (uc *Usecase) Search(ctx context.Context, term string, page int) (Page, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return Page{}, ErrInvalidQuery
	}
	if page < 1 {
		return Page{}, ErrInvalidPage
	}
	return uc.catalog.SearchByText(ctx, term, page)
}

func (uc *Usecase) Discover(ctx context.Context, f Filter, page int) (Page, error) {
	if err := f.Validate(); err != nil {
		return Page{}, err
	}
	if page < 1 {
		return Page{}, ErrInvalidPage
	}
	return uc.catalog.DiscoverByFilter(ctx, f, page)
}

func (uc *Usecase) Genres(ctx context.Context) ([]Genre, error) {
	return uc.catalog.ListGenres(ctx)
}

func (uc *Usecase) Trending(ctx context.Context) ([]Summary, error) {
	return uc.catalog.ListTrendingToday(ctx)
}

// Details fetches the full movie record and logs the visit. A failing view
// log never fails the lookup.
func (uc *Usecase) Details(ctx context.Context, id int) (Details, error) {
	if id <= 0 {
		return Details{}, ErrInvalidMovieID
	}
	d, err := uc.catalog.GetDetails(ctx, id)
	if err != nil {
		return Details{}, err
	}

	if uc.views != nil {
		if err := uc.views.LogView(ctx, d.ID, d.Title); err != nil {
			uc.logger.Warnw("cannot log movie view", "movie_id", d.ID, "error", err)
		}
	}
	return d, nil
}
