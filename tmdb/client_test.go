// nolint: funlen
package tmdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviefinder/errs"
	"moviefinder/movie"
	"moviefinder/tmdb"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *tmdb.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := tmdb.New(tmdb.Options{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func TestNewRequiresCredential(t *testing.T) {
	_, err := tmdb.New(tmdb.Options{BaseURL: "https://example.com"})

	assert.Error(t, err)
}

func TestSearchByText(t *testing.T) {
	t.Run("sends query, page and api key", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search/movie", r.URL.Path)
			assert.Equal(t, "batman", r.URL.Query().Get("query"))
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, "key", r.URL.Query().Get("api_key"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"page":2,"results":[{"id":1,"title":"Batman","poster_path":"/b.jpg","release_date":"1989-06-23","vote_average":7.2}],"total_pages":5,"total_results":90}`))
		})

		page, err := client.SearchByText(context.Background(), "batman", 2)

		require.NoError(t, err)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 5, page.TotalPages)
		assert.Equal(t, []movie.Summary{{
			ID:          1,
			Title:       "Batman",
			PosterPath:  "/b.jpg",
			ReleaseDate: "1989-06-23",
			VoteAverage: 7.2,
		}}, page.Results)
	})

	t.Run("rejects empty term without a request", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("unexpected request")
		})

		_, err := client.SearchByText(context.Background(), "  ", 1)

		assert.Equal(t, movie.ErrInvalidQuery, err)
	})

	t.Run("null poster becomes empty", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"page":1,"results":[{"id":3,"title":"Obscure","poster_path":null}],"total_pages":1}`))
		})

		page, err := client.SearchByText(context.Background(), "obscure", 1)

		require.NoError(t, err)
		assert.Equal(t, "", page.Results[0].PosterPath)
	})
}

func TestDiscoverByFilter(t *testing.T) {
	t.Run("sends only the filters that are set", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "/discover/movie", r.URL.Path)
			assert.Equal(t, "28", q.Get("with_genres"))
			assert.Equal(t, "7.5", q.Get("vote_average.gte"))
			assert.False(t, q.Has("primary_release_year"))
			assert.Equal(t, "popularity.desc", q.Get("sort_by"))
			assert.Equal(t, "1", q.Get("page"))
			_, _ = w.Write([]byte(`{"page":1,"results":[],"total_pages":0}`))
		})

		_, err := client.DiscoverByFilter(context.Background(), movie.Filter{GenreID: 28, MinRating: 7.5}, 1)

		require.NoError(t, err)
	})

	t.Run("sends release year", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1999", r.URL.Query().Get("primary_release_year"))
			_, _ = w.Write([]byte(`{"page":3,"results":[],"total_pages":4}`))
		})

		page, err := client.DiscoverByFilter(context.Background(), movie.Filter{Year: 1999}, 3)

		require.NoError(t, err)
		assert.Equal(t, 4, page.TotalPages)
	})
}

func TestListPopular(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/popular", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":10,"title":"A"},{"id":11,"title":"B"}],"total_pages":500}`))
	})

	page, err := client.ListPopular(context.Background(), 0)

	require.NoError(t, err)
	assert.Len(t, page.Results, 2)
	assert.Equal(t, 500, page.TotalPages)
}

func TestListGenres(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/genre/movie/list", r.URL.Path)
		_, _ = w.Write([]byte(`{"genres":[{"id":28,"name":"Action"},{"id":18,"name":"Drama"}]}`))
	})

	genres, err := client.ListGenres(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []movie.Genre{{ID: 28, Name: "Action"}, {ID: 18, Name: "Drama"}}, genres)
}

func TestListTrendingToday(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trending/movie/day", r.URL.Path)
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":5,"title":"Hot"}]}`))
	})

	trending, err := client.ListTrendingToday(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []movie.Summary{{ID: 5, Title: "Hot"}}, trending)
}

func TestGetDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/155", r.URL.Path)
		assert.Equal(t, "credits", r.URL.Query().Get("append_to_response"))
		_, _ = w.Write([]byte(`{
			"id":155,"title":"The Dark Knight","poster_path":"/p.jpg","backdrop_path":null,
			"release_date":"2008-07-16","vote_average":8.5,"vote_count":30000,"runtime":152,
			"overview":"Batman raises the stakes.","genres":[{"id":28,"name":"Action"}],
			"credits":{"cast":[{"id":3894,"name":"Christian Bale","character":"Bruce Wayne","profile_path":"/c.jpg"}]}
		}`))
	})

	d, err := client.GetDetails(context.Background(), 155)

	require.NoError(t, err)
	assert.Equal(t, "The Dark Knight", d.Title)
	assert.Equal(t, 2008, d.ReleaseYear())
	assert.Equal(t, 152, d.Runtime)
	assert.Equal(t, "", d.BackdropPath)
	assert.Equal(t, []movie.Genre{{ID: 28, Name: "Action"}}, d.Genres)
	require.Len(t, d.Cast, 1)
	assert.Equal(t, "Bruce Wayne", d.Cast[0].Character)
	assert.Equal(t, "/c.jpg", d.Cast[0].ProfilePath)
	assert.Equal(t, "https://image.tmdb.org/t/p/w200/c.jpg", d.Cast[0].ProfileURL)
}

func TestRequestFailed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key"}`))
	})

	_, err := client.ListPopular(context.Background(), 1)

	assert.True(t, errors.Is(err, tmdb.ErrRequestFailed))
	assert.Equal(t, errs.EUNAVAILABLE, errs.ErrorCode(err))
}

func TestUnknownMovieIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetDetails(context.Background(), 999999)

	assert.Equal(t, tmdb.ErrMovieNotFound, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	client, err := tmdb.New(tmdb.Options{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.ListGenres(context.Background())

	assert.True(t, errors.Is(err, tmdb.ErrRequestFailed))
}

func TestMalformedBodyIsUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := client.ListPopular(context.Background(), 1)

	assert.True(t, errors.Is(err, tmdb.ErrRequestFailed))
	assert.Equal(t, errs.EUNAVAILABLE, errs.ErrorCode(err))
}

func TestReadTokenIsSentAsBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.False(t, r.URL.Query().Has("api_key"))
		_, _ = w.Write([]byte(`{"genres":[]}`))
	}))
	t.Cleanup(server.Close)
	client, err := tmdb.New(tmdb.Options{ReadToken: "token", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.ListGenres(context.Background())

	assert.NoError(t, err)
}
