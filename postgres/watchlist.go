package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"moviefinder/watchlist"
)

type WatchlistModel struct {
	ID          uint     `gorm:"primaryKey"`
	UserID      string   `gorm:"column:user_id;not null;uniqueIndex:watchlist_user_movie"`
	MovieID     int      `gorm:"column:movie_id;not null;uniqueIndex:watchlist_user_movie"`
	Title       string   `gorm:"not null"`
	PosterPath  *string  `gorm:"column:poster_path"`
	ReleaseYear *int     `gorm:"column:release_year"`
	VoteAverage *float64 `gorm:"column:vote_average"`
	CreatedAt   time.Time
}

func (WatchlistModel) TableName() string {
	return "watchlist"
}

// WatchlistRepository implements watchlist.Repository.
type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

func (r *WatchlistRepository) Insert(ctx context.Context, item watchlist.Item) error {
	model := WatchlistModel{
		UserID:      item.UserID,
		MovieID:     item.MovieID,
		Title:       item.Title,
		PosterPath:  nullable(item.PosterPath),
		ReleaseYear: nullable(item.ReleaseYear),
		VoteAverage: nullable(item.VoteAverage),
		CreatedAt:   item.CreatedAt,
	}
	err := r.db.WithContext(ctx).Create(&model).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return watchlist.ErrAlreadyInList
	}
	return err
}

func (r *WatchlistRepository) Delete(ctx context.Context, userID string, movieID int) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&WatchlistModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return watchlist.ErrNotInList
	}
	return nil
}

func (r *WatchlistRepository) Exists(ctx context.Context, userID string, movieID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&WatchlistModel{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&count).Error
	return count > 0, err
}

func (r *WatchlistRepository) ListByUser(ctx context.Context, userID string) ([]watchlist.Item, error) {
	var models []WatchlistModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	items := make([]watchlist.Item, len(models))
	for i, m := range models {
		items[i] = watchlist.Item{
			UserID:      m.UserID,
			MovieID:     m.MovieID,
			Title:       m.Title,
			PosterPath:  value(m.PosterPath),
			ReleaseYear: value(m.ReleaseYear),
			VoteAverage: value(m.VoteAverage),
			CreatedAt:   m.CreatedAt,
		}
	}
	return items, nil
}
