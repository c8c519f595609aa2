// nolint: funlen
package httpserver_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"moviefinder/httpserver"
	"moviefinder/movie"
	appjwt "moviefinder/pkg/jwt"
	"moviefinder/watchlist"
)

func TestWatchlistRoutes(t *testing.T) {
	t.Run("requires a session token", func(t *testing.T) {
		server := newTestServer(t, httpserver.WithWatchlistService(new(MockWatchlistService)))

		rec := doJSON(server, http.MethodGet, "/api/watchlist", nil, "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decodeAPIResponse(t, rec)
		assert.Equal(t, "100401", resp.Code)
		assert.Equal(t, "not signed in", resp.Message)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		server := newTestServer(t, httpserver.WithWatchlistService(new(MockWatchlistService)))
		token, err := appjwt.NewVerifier("other-secret").Sign("user-1", time.Hour)
		assert.NoError(t, err)

		rec := doJSON(server, http.MethodGet, "/api/watchlist", nil, token)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("lists the caller's items", func(t *testing.T) {
		svc := new(MockWatchlistService)
		svc.On("List", mock.Anything, "user-1").Return([]watchlist.Item{{UserID: "user-1", MovieID: 268, Title: "Batman"}}, nil).Once()
		server := newTestServer(t, httpserver.WithWatchlistService(svc))

		rec := doJSON(server, http.MethodGet, "/api/watchlist", nil, signTestToken(t, "user-1"))

		assert.Equal(t, http.StatusOK, rec.Code)
		var got struct {
			Data []watchlist.Item `json:"data"`
		}
		decodeResult(t, rec, &got)
		assert.Equal(t, 268, got.Data[0].MovieID)
		svc.AssertExpectations(t)
	})

	t.Run("adds a movie", func(t *testing.T) {
		svc := new(MockWatchlistService)
		want := movie.Summary{ID: 268, Title: "Batman", PosterPath: "/b.jpg", ReleaseDate: "1989-06-23", VoteAverage: 7.2}
		svc.On("Add", mock.Anything, "user-1", want).Return(watchlist.NewItem("user-1", want), nil).Once()
		server := newTestServer(t, httpserver.WithWatchlistService(svc))

		rec := doJSON(server, http.MethodPost, "/api/watchlist", map[string]interface{}{
			"movieId": 268, "title": "Batman", "posterPath": "/b.jpg", "releaseDate": "1989-06-23", "voteAverage": 7.2,
		}, signTestToken(t, "user-1"))

		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var got watchlist.Item
		decodeResult(t, rec, &got)
		assert.Equal(t, 1989, got.ReleaseYear)
		svc.AssertExpectations(t)
	})

	t.Run("add validates the body", func(t *testing.T) {
		server := newTestServer(t, httpserver.WithWatchlistService(new(MockWatchlistService)))

		rec := doJSON(server, http.MethodPost, "/api/watchlist", map[string]interface{}{
			"movieId": 0, "title": "  ",
		}, signTestToken(t, "user-1"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeAPIResponse(t, rec).Message, "movieId failed on required")
	})

	t.Run("duplicate add conflicts", func(t *testing.T) {
		svc := new(MockWatchlistService)
		svc.On("Add", mock.Anything, "user-1", mock.Anything).Return(watchlist.Item{}, watchlist.ErrAlreadyInList).Once()
		server := newTestServer(t, httpserver.WithWatchlistService(svc))

		rec := doJSON(server, http.MethodPost, "/api/watchlist", map[string]interface{}{
			"movieId": 268, "title": "Batman",
		}, signTestToken(t, "user-1"))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("reports membership", func(t *testing.T) {
		svc := new(MockWatchlistService)
		svc.On("IsIn", mock.Anything, "user-1", 268).Return(true).Once()
		server := newTestServer(t, httpserver.WithWatchlistService(svc))

		rec := doJSON(server, http.MethodGet, "/api/watchlist/268", nil, signTestToken(t, "user-1"))

		assert.Equal(t, http.StatusOK, rec.Code)
		var got struct {
			MovieID     int  `json:"movieId"`
			InWatchlist bool `json:"inWatchlist"`
		}
		decodeResult(t, rec, &got)
		assert.True(t, got.InWatchlist)
	})

	t.Run("removes a movie", func(t *testing.T) {
		svc := new(MockWatchlistService)
		svc.On("Remove", mock.Anything, "user-1", 268).Return(nil).Once()
		server := newTestServer(t, httpserver.WithWatchlistService(svc))

		rec := doJSON(server, http.MethodDelete, "/api/watchlist/268", nil, signTestToken(t, "user-1"))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("removing an absent movie is not found", func(t *testing.T) {
		svc := new(MockWatchlistService)
		svc.On("Remove", mock.Anything, "user-1", 7).Return(watchlist.ErrNotInList).Once()
		server := newTestServer(t, httpserver.WithWatchlistService(svc))

		rec := doJSON(server, http.MethodDelete, "/api/watchlist/7", nil, signTestToken(t, "user-1"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
