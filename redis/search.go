package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"moviefinder/searches"
)

const (
	termKeyPrefix = "searches:term:"
	rankingKey    = "searches:by_count"
)

// SearchRepository implements searches.Repository with one hash per term
// and a sorted set ranking terms by count.
type SearchRepository struct {
	client *goredis.Client
}

func NewSearchRepository(client *goredis.Client) *SearchRepository {
	return &SearchRepository{client: client}
}

func termKey(term string) string {
	return termKeyPrefix + term
}

func (r *SearchRepository) FindByTerm(ctx context.Context, term string) (searches.Entry, error) {
	fields, err := r.client.HGetAll(ctx, termKey(term)).Result()
	if err != nil {
		return searches.Entry{}, fmt.Errorf("redis: get search %q: %w", term, err)
	}
	if len(fields) == 0 {
		return searches.Entry{}, searches.ErrNotFound
	}
	return decodeEntry(term, fields), nil
}

func (r *SearchRepository) Create(ctx context.Context, e searches.Entry) error {
	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, termKey(e.SearchTerm), map[string]interface{}{
			"title":      e.Title,
			"poster_url": e.PosterURL,
			"count":      e.Count,
			"movie_id":   e.MovieID,
			"created_at": e.CreatedAt.Format(time.RFC3339Nano),
			"updated_at": e.UpdatedAt.Format(time.RFC3339Nano),
		})
		pipe.ZAdd(ctx, rankingKey, goredis.Z{Score: float64(e.Count), Member: e.SearchTerm})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: create search %q: %w", e.SearchTerm, err)
	}
	return nil
}

func (r *SearchRepository) UpdateCount(ctx context.Context, term string, count int, at time.Time) error {
	n, err := r.client.Exists(ctx, termKey(term)).Result()
	if err != nil {
		return fmt.Errorf("redis: check search %q: %w", term, err)
	}
	if n == 0 {
		return searches.ErrNotFound
	}

	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, termKey(term), "count", count, "updated_at", at.Format(time.RFC3339Nano))
		pipe.ZAdd(ctx, rankingKey, goredis.Z{Score: float64(count), Member: term})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: update search %q: %w", term, err)
	}
	return nil
}

func (r *SearchRepository) Top(ctx context.Context, limit int) ([]searches.Entry, error) {
	terms, err := r.client.ZRevRangeByScore(ctx, rankingKey, &goredis.ZRangeBy{
		Min:   "(0",
		Max:   "+inf",
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: rank searches: %w", err)
	}

	cmds := make([]*goredis.MapStringStringCmd, len(terms))
	_, err = r.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for i, term := range terms {
			cmds[i] = pipe.HGetAll(ctx, termKey(term))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis: load searches: %w", err)
	}

	entries := make([]searches.Entry, 0, len(terms))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		entries = append(entries, decodeEntry(terms[i], fields))
	}
	return entries, nil
}

func decodeEntry(term string, fields map[string]string) searches.Entry {
	count, _ := strconv.Atoi(fields["count"])
	movieID, _ := strconv.Atoi(fields["movie_id"])
	created, _ := time.Parse(time.RFC3339Nano, fields["created_at"])
	updated, _ := time.Parse(time.RFC3339Nano, fields["updated_at"])
	return searches.Entry{
		ID:         term,
		SearchTerm: term,
		Title:      fields["title"],
		PosterURL:  fields["poster_url"],
		Count:      count,
		MovieID:    movieID,
		CreatedAt:  created,
		UpdatedAt:  updated,
	}
}
