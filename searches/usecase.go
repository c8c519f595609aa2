package searches

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"moviefinder/movie"
)

type Service interface {
	RecordSearch(ctx context.Context, term string, hint Hint)
	ListTopSearched(ctx context.Context, limit int) []Entry
}

// Repository is a remote counter store keyed by the exact search term.
type Repository interface {
	FindByTerm(ctx context.Context, term string) (Entry, error)
	Create(ctx context.Context, e Entry) error
	UpdateCount(ctx context.Context, term string, count int, at time.Time) error
	Top(ctx context.Context, limit int) ([]Entry, error)
}

// Usecase tracks search usage. Every operation fails soft: errors are
// logged and never returned to the caller.
type Usecase struct {
	r      Repository
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewUsecase(r Repository, logger *zap.SugaredLogger) *Usecase {
	return &Usecase{
		r:      r,
		logger: logger,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// RecordSearch increments the counter for term, creating it seeded with the
// hinted movie when absent. The read and the write are not atomic; two
// concurrent increments of the same term can lose one update.
func (uc *Usecase) RecordSearch(ctx context.Context, term string, hint Hint) {
	if term == "" || hint.MovieID == 0 {
		uc.logger.Warnw("skip recording search", "term", term, "movie_id", hint.MovieID)
		return
	}

	now := uc.now()
	existing, err := uc.r.FindByTerm(ctx, term)
	switch {
	case err == nil:
		if err := uc.r.UpdateCount(ctx, term, existing.Count+1, now); err != nil {
			uc.logger.Errorw("cannot update search count", "term", term, "error", err)
		}
		return
	case !errors.Is(err, ErrNotFound):
		uc.logger.Errorw("cannot look up search term", "term", term, "error", err)
		return
	}

	e := Entry{
		SearchTerm: term,
		Title:      hint.Title,
		PosterURL:  movie.PosterURL(hint.PosterPath),
		Count:      1,
		MovieID:    hint.MovieID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.r.Create(ctx, e); err != nil {
		uc.logger.Errorw("cannot create search record", "term", term, "error", err)
	}
}

// ListTopSearched returns up to limit entries with a positive count, most
// searched first. It returns an empty slice on any store error.
func (uc *Usecase) ListTopSearched(ctx context.Context, limit int) []Entry {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	entries, err := uc.r.Top(ctx, limit)
	if err != nil {
		uc.logger.Errorw("cannot list top searches", "error", err)
		return []Entry{}
	}

	top := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Count > 0 {
			top = append(top, e)
		}
	}
	if len(top) > limit {
		top = top[:limit]
	}
	return top
}
