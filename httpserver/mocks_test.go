package httpserver_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"moviefinder/movie"
	"moviefinder/searches"
	"moviefinder/watchlist"
)

type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) Popular(ctx context.Context, page int) (movie.Page, error) {
	args := m.Called(ctx, page)
	return args.Get(0).(movie.Page), args.Error(1)
}

func (m *MockMovieService) Search(ctx context.Context, term string, page int) (movie.Page, error) {
	args := m.Called(ctx, term, page)
	return args.Get(0).(movie.Page), args.Error(1)
}

func (m *MockMovieService) Discover(ctx context.Context, f movie.Filter, page int) (movie.Page, error) {
	args := m.Called(ctx, f, page)
	return args.Get(0).(movie.Page), args.Error(1)
}

func (m *MockMovieService) Genres(ctx context.Context) ([]movie.Genre, error) {
	args := m.Called(ctx)
	return args.Get(0).([]movie.Genre), args.Error(1)
}

func (m *MockMovieService) Trending(ctx context.Context) ([]movie.Summary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]movie.Summary), args.Error(1)
}

func (m *MockMovieService) Details(ctx context.Context, id int) (movie.Details, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(movie.Details), args.Error(1)
}

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) RecordSearch(ctx context.Context, term string, hint searches.Hint) {
	m.Called(ctx, term, hint)
}

func (m *MockSearchService) ListTopSearched(ctx context.Context, limit int) []searches.Entry {
	args := m.Called(ctx, limit)
	return args.Get(0).([]searches.Entry)
}

type MockWatchlistService struct {
	mock.Mock
}

func (m *MockWatchlistService) Add(ctx context.Context, userID string, s movie.Summary) (watchlist.Item, error) {
	args := m.Called(ctx, userID, s)
	return args.Get(0).(watchlist.Item), args.Error(1)
}

func (m *MockWatchlistService) Remove(ctx context.Context, userID string, movieID int) error {
	args := m.Called(ctx, userID, movieID)
	return args.Error(0)
}

func (m *MockWatchlistService) IsIn(ctx context.Context, userID string, movieID int) bool {
	args := m.Called(ctx, userID, movieID)
	return args.Bool(0)
}

func (m *MockWatchlistService) List(ctx context.Context, userID string) ([]watchlist.Item, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]watchlist.Item), args.Error(1)
}

// MockCatalog backs browse controllers in handler tests.
type MockCatalog struct {
	mock.Mock
}

func newMockCatalog() *MockCatalog {
	m := new(MockCatalog)
	m.On("ListGenres", mock.Anything).Return([]movie.Genre{{ID: 28, Name: "Action"}}, nil).Maybe()
	m.On("ListTrendingToday", mock.Anything).Return([]movie.Summary{{ID: 9, Title: "Trending"}}, nil).Maybe()
	m.On("ListPopular", mock.Anything, mock.Anything).Return(movie.Page{
		Page: 1, TotalPages: 3, Results: []movie.Summary{{ID: 1, Title: "A"}},
	}, nil).Maybe()
	return m
}

func (m *MockCatalog) ListPopular(ctx context.Context, page int) (movie.Page, error) {
	args := m.Called(ctx, page)
	return args.Get(0).(movie.Page), args.Error(1)
}

func (m *MockCatalog) SearchByText(ctx context.Context, term string, page int) (movie.Page, error) {
	args := m.Called(ctx, term, page)
	return args.Get(0).(movie.Page), args.Error(1)
}

func (m *MockCatalog) DiscoverByFilter(ctx context.Context, f movie.Filter, page int) (movie.Page, error) {
	args := m.Called(ctx, f, page)
	return args.Get(0).(movie.Page), args.Error(1)
}

func (m *MockCatalog) ListGenres(ctx context.Context) ([]movie.Genre, error) {
	args := m.Called(ctx)
	return args.Get(0).([]movie.Genre), args.Error(1)
}

func (m *MockCatalog) ListTrendingToday(ctx context.Context) ([]movie.Summary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]movie.Summary), args.Error(1)
}
