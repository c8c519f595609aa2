package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type MovieViewModel struct {
	ID       uint      `gorm:"primaryKey"`
	MovieID  int       `gorm:"column:movie_id;not null;index"`
	Title    string    `gorm:"not null;default:''"`
	ViewedAt time.Time `gorm:"column:viewed_at;not null"`
}

func (MovieViewModel) TableName() string {
	return "movie_views"
}

// MovieViewRepository implements movie.ViewLog.
type MovieViewRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMovieViewRepository(db *gorm.DB) *MovieViewRepository {
	return &MovieViewRepository{db: db, now: time.Now}
}

func (r *MovieViewRepository) LogView(ctx context.Context, movieID int, title string) error {
	model := MovieViewModel{
		MovieID:  movieID,
		Title:    title,
		ViewedAt: r.now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&model).Error
}
