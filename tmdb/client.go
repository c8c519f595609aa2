package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"moviefinder/errs"
	"moviefinder/movie"
)

const DefaultBaseURL = "https://api.themoviedb.org/3"

var (
	// ErrRequestFailed wraps transport failures and non-success statuses.
	ErrRequestFailed = errs.Errorf(errs.EUNAVAILABLE, "movie catalog unavailable")
	ErrMovieNotFound = errs.Errorf(errs.ENOTFOUND, "movie not found")
)

type Options struct {
	APIKey    string
	ReadToken string
	BaseURL   string
	Language  string
}

// Client implements [movie.Catalog] on top of the TMDB v3 REST API.
type Client struct {
	apiKey     string
	readToken  string
	baseURL    string
	language   string
	httpClient *http.Client
}

var _ movie.Catalog = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func New(opts Options, options ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	readToken := strings.TrimSpace(opts.ReadToken)
	if apiKey == "" && readToken == "" {
		return nil, errors.New("tmdb: api key or read token required")
	}
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		apiKey:     apiKey,
		readToken:  readToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(opts.Language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, fn := range options {
		fn(c)
	}
	return c, nil
}

func (c *Client) ListPopular(ctx context.Context, page int) (movie.Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(normalizePage(page)))
	return c.fetchPage(ctx, "/movie/popular", params)
}

func (c *Client) SearchByText(ctx context.Context, term string, page int) (movie.Page, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return movie.Page{}, movie.ErrInvalidQuery
	}
	params := url.Values{}
	params.Set("query", term)
	params.Set("page", strconv.Itoa(normalizePage(page)))
	return c.fetchPage(ctx, "/search/movie", params)
}

func (c *Client) DiscoverByFilter(ctx context.Context, f movie.Filter, page int) (movie.Page, error) {
	params := url.Values{}
	if f.GenreID != 0 {
		params.Set("with_genres", strconv.Itoa(f.GenreID))
	}
	if f.Year != 0 {
		params.Set("primary_release_year", strconv.Itoa(f.Year))
	}
	if f.MinRating != 0 {
		params.Set("vote_average.gte", strconv.FormatFloat(f.MinRating, 'f', -1, 64))
	}
	params.Set("sort_by", "popularity.desc")
	params.Set("page", strconv.Itoa(normalizePage(page)))
	return c.fetchPage(ctx, "/discover/movie", params)
}

func (c *Client) ListGenres(ctx context.Context) ([]movie.Genre, error) {
	var payload genreListResponse
	if err := c.get(ctx, "/genre/movie/list", nil, &payload); err != nil {
		return nil, err
	}

	genres := make([]movie.Genre, len(payload.Genres))
	for i, g := range payload.Genres {
		genres[i] = movie.Genre{ID: g.ID, Name: g.Name}
	}
	return genres, nil
}

func (c *Client) ListTrendingToday(ctx context.Context) ([]movie.Summary, error) {
	var payload pageResponse
	if err := c.get(ctx, "/trending/movie/day", nil, &payload); err != nil {
		return nil, err
	}
	return payload.toPage().Results, nil
}

func (c *Client) GetDetails(ctx context.Context, id int) (movie.Details, error) {
	if id <= 0 {
		return movie.Details{}, movie.ErrInvalidMovieID
	}
	params := url.Values{}
	params.Set("append_to_response", "credits")

	var payload detailsResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), params, &payload); err != nil {
		return movie.Details{}, err
	}
	return payload.toDetails(), nil
}

func (c *Client) fetchPage(ctx context.Context, path string, params url.Values) (movie.Page, error) {
	var payload pageResponse
	if err := c.get(ctx, path, params, &payload); err != nil {
		return movie.Page{}, err
	}
	return payload.toPage(), nil
}

// get performs a GET request against the provider and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("tmdb: parse url: %w", err)
	}
	if params == nil {
		params = url.Values{}
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("tmdb: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.readToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.readToken)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("%w: execute request (latency=%v): %v", ErrRequestFailed, latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && isDetailsPath(path) {
		return ErrMovieNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned %d (latency=%v)", ErrRequestFailed, path, resp.StatusCode, latency)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", ErrRequestFailed, path, err)
	}
	return nil
}

func isDetailsPath(path string) bool {
	id, ok := strings.CutPrefix(path, "/movie/")
	if !ok {
		return false
	}
	_, err := strconv.Atoi(id)
	return err == nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
