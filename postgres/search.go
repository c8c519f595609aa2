package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"moviefinder/searches"
)

// SearchModel is one row of the search usage counter table.
type SearchModel struct {
	ID         uint      `gorm:"primaryKey"`
	SearchTerm string    `gorm:"column:search_term;not null;uniqueIndex"`
	Title      string    `gorm:"not null;default:''"`
	PosterURL  string    `gorm:"column:poster_url;not null;default:''"`
	Count      int       `gorm:"not null;default:0"`
	MovieID    int       `gorm:"column:movie_id;not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (SearchModel) TableName() string {
	return "searches"
}

func (m SearchModel) toEntry() searches.Entry {
	return searches.Entry{
		ID:         idString(m.ID),
		SearchTerm: m.SearchTerm,
		Title:      m.Title,
		PosterURL:  m.PosterURL,
		Count:      m.Count,
		MovieID:    m.MovieID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// SearchRepository implements searches.Repository.
type SearchRepository struct {
	db *gorm.DB
}

func NewSearchRepository(db *gorm.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

func (r *SearchRepository) FindByTerm(ctx context.Context, term string) (searches.Entry, error) {
	var model SearchModel
	err := r.db.WithContext(ctx).Where("search_term = ?", term).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return searches.Entry{}, searches.ErrNotFound
		}
		return searches.Entry{}, err
	}
	return model.toEntry(), nil
}

func (r *SearchRepository) Create(ctx context.Context, e searches.Entry) error {
	model := SearchModel{
		SearchTerm: e.SearchTerm,
		Title:      e.Title,
		PosterURL:  e.PosterURL,
		Count:      e.Count,
		MovieID:    e.MovieID,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *SearchRepository) UpdateCount(ctx context.Context, term string, count int, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&SearchModel{}).
		Where("search_term = ?", term).
		Updates(map[string]interface{}{"count": count, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return searches.ErrNotFound
	}
	return nil
}

func (r *SearchRepository) Top(ctx context.Context, limit int) ([]searches.Entry, error) {
	var models []SearchModel
	err := r.db.WithContext(ctx).
		Where("count > 0").
		Order("count DESC").
		Order("updated_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entries := make([]searches.Entry, len(models))
	for i, m := range models {
		entries[i] = m.toEntry()
	}
	return entries, nil
}
