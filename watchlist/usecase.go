package watchlist

import (
	"context"
	"time"

	"go.uber.org/zap"

	"moviefinder/movie"
)

type Service interface {
	Add(ctx context.Context, userID string, m movie.Summary) (Item, error)
	Remove(ctx context.Context, userID string, movieID int) error
	IsIn(ctx context.Context, userID string, movieID int) bool
	List(ctx context.Context, userID string) ([]Item, error)
}

// Repository stores at most one row per (user, movie). Insert returns
// ErrAlreadyInList for a duplicate and Delete returns ErrNotInList when
// nothing was removed.
type Repository interface {
	Insert(ctx context.Context, item Item) error
	Delete(ctx context.Context, userID string, movieID int) error
	Exists(ctx context.Context, userID string, movieID int) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]Item, error)
}

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

func (uc *Usecase) Add(ctx context.Context, userID string, m movie.Summary) (Item, error) {
	if userID == "" {
		return Item{}, ErrNotSignedIn
	}
	if m.ID <= 0 || m.Title == "" {
		return Item{}, ErrInvalidMovie
	}

	item := NewItem(userID, m)
	item.CreatedAt = uc.now()
	if err := uc.r.Insert(ctx, item); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (uc *Usecase) Remove(ctx context.Context, userID string, movieID int) error {
	if userID == "" {
		return ErrNotSignedIn
	}
	if movieID <= 0 {
		return movie.ErrInvalidMovieID
	}
	return uc.r.Delete(ctx, userID, movieID)
}

// IsIn reports false for anonymous users and on lookup errors.
func (uc *Usecase) IsIn(ctx context.Context, userID string, movieID int) bool {
	if userID == "" || movieID <= 0 {
		return false
	}
	ok, err := uc.r.Exists(ctx, userID, movieID)
	if err != nil {
		uc.logger.Warnw("cannot check watchlist", "user_id", userID, "movie_id", movieID, "error", err)
		return false
	}
	return ok
}

// List returns the user's items, newest first.
func (uc *Usecase) List(ctx context.Context, userID string) ([]Item, error) {
	if userID == "" {
		return nil, ErrNotSignedIn
	}
	return uc.r.ListByUser(ctx, userID)
}
