package browse

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"moviefinder/events"
	"moviefinder/movie"
	"moviefinder/pkg/logger"
	"moviefinder/searches"
)

const (
	MsgFirstPageFailed = "Something went wrong. Please try again later."
	MsgFilteredFailed  = "Failed to load filtered movies"
	MsgLoadMoreFailed  = "Failed to load more movies"
)

// Catalog is the subset of the movie catalog a browse session reads.
type Catalog interface {
	ListPopular(ctx context.Context, page int) (movie.Page, error)
	SearchByText(ctx context.Context, term string, page int) (movie.Page, error)
	DiscoverByFilter(ctx context.Context, f movie.Filter, page int) (movie.Page, error)
	ListGenres(ctx context.Context) ([]movie.Genre, error)
	ListTrendingToday(ctx context.Context) ([]movie.Summary, error)
}

// TopSearches lists the locally most searched terms.
type TopSearches interface {
	ListTopSearched(ctx context.Context, limit int) []searches.Entry
}

type Options struct {
	Debounce      time.Duration
	TrendingLimit int
	Events        events.Publisher
	Logger        *zap.SugaredLogger
}

type operation int

const (
	opNone operation = iota
	opFirstPage
	opNextPage
)

// Controller drives one browse session: it decides on each input whether to
// fetch a fresh first page, the next page, or nothing, and merges results.
// It is safe for concurrent use. Catalog calls run without holding the lock.
type Controller struct {
	catalog   Catalog
	top       TopSearches
	events    events.Publisher
	logger    *zap.SugaredLogger
	topLimit  int
	debouncer *Debouncer

	// ctx is cancelled by Close and parents every fetch.
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	state State
	// seq numbers first-page requests. A response is applied only while its
	// number is still the latest.
	seq          uint64
	requested    Query
	hasRequested bool
	// resultsQuery produced state.Results; load-more continues it.
	resultsQuery Query
	cancelFirst  context.CancelFunc
	cancelMore   context.CancelFunc
	failed       operation
	failedQuery  Query
	recorded     map[string]struct{}
	mounted      bool
	closed       bool
}

func NewController(catalog Catalog, top TopSearches, opts Options) *Controller {
	if opts.Events == nil {
		opts.Events = events.NullBus{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NOOPLogger
	}
	if opts.TrendingLimit <= 0 {
		opts.TrendingLimit = searches.DefaultTopLimit
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		catalog:   catalog,
		top:       top,
		events:    opts.Events,
		logger:    opts.Logger,
		topLimit:  opts.TrendingLimit,
		debouncer: NewDebouncer(opts.Debounce),
		ctx:       ctx,
		cancel:    cancel,
		state: State{
			Results:     []movie.Summary{},
			Genres:      []movie.Genre{},
			Trending:    []movie.Summary{},
			TopSearched: []searches.Entry{},
		},
		recorded: map[string]struct{}{},
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Mount loads the genre list, both trending lists and the first page of the
// current query. Only the first call does anything.
func (c *Controller) Mount(ctx context.Context) State {
	c.mu.Lock()
	if c.mounted || c.closed {
		defer c.mu.Unlock()
		return c.state.clone()
	}
	c.mounted = true
	req := c.startFirstPageLocked(ctx, Resolve(c.state.DebouncedTerm, c.state.Filter))
	c.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		c.loadGenres(ctx)
	}()
	go func() {
		defer wg.Done()
		c.loadTrending(ctx)
	}()
	go func() {
		defer wg.Done()
		c.loadTopSearched(ctx)
	}()
	c.runFirstPage(req)
	wg.Wait()

	return c.State()
}

func (c *Controller) loadGenres(ctx context.Context) {
	genres, err := c.catalog.ListGenres(ctx)
	if err != nil {
		c.logger.Warnw("cannot load genres", "error", err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Genres = append([]movie.Genre{}, genres...)
}

func (c *Controller) loadTrending(ctx context.Context) {
	trending, err := c.catalog.ListTrendingToday(ctx)
	if err != nil {
		c.logger.Warnw("cannot load trending movies", "error", err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Trending = append([]movie.Summary{}, trending...)
}

func (c *Controller) loadTopSearched(ctx context.Context) {
	if c.top == nil {
		return
	}
	top := c.top.ListTopSearched(ctx, c.topLimit)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.TopSearched = append([]searches.Entry{}, top...)
}

// SetTerm records a keystroke. The debounced term follows once input has
// been quiet for the debounce delay, and a first page is fetched in the
// background when that changes the resolved query.
func (c *Controller) SetTerm(term string) State {
	c.mu.Lock()
	if c.closed {
		defer c.mu.Unlock()
		return c.state.clone()
	}
	c.state.RawTerm = term
	snapshot := c.state.clone()
	c.mu.Unlock()

	c.debouncer.Trigger(func() {
		c.settleTerm(term)
	})
	return snapshot
}

func (c *Controller) settleTerm(term string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.DebouncedTerm = term
	req, ok := c.startIfChangedLocked(c.ctx)
	c.mu.Unlock()

	if ok {
		c.runFirstPage(req)
	}
}

// Submit skips the debounce: the raw term becomes the debounced term and the
// first page is fetched immediately, even when the query is unchanged.
func (c *Controller) Submit(ctx context.Context) State {
	c.debouncer.Cancel()

	c.mu.Lock()
	if c.closed {
		defer c.mu.Unlock()
		return c.state.clone()
	}
	c.state.DebouncedTerm = c.state.RawTerm
	req := c.startFirstPageLocked(ctx, Resolve(c.state.DebouncedTerm, c.state.Filter))
	c.mu.Unlock()

	c.runFirstPage(req)
	return c.State()
}

// SetFilter replaces the filters and fetches the first page when the
// resolved query changes.
func (c *Controller) SetFilter(ctx context.Context, f movie.Filter) (State, error) {
	if err := f.Validate(); err != nil {
		return c.State(), err
	}

	c.mu.Lock()
	if c.closed {
		defer c.mu.Unlock()
		return c.state.clone(), nil
	}
	c.state.Filter = f
	req, ok := c.startIfChangedLocked(ctx)
	c.mu.Unlock()

	if ok {
		c.runFirstPage(req)
	}
	return c.State(), nil
}

// LoadMore appends the next page of the current results. It does nothing when
// no page is left or a load is already running.
func (c *Controller) LoadMore(ctx context.Context) State {
	c.mu.Lock()
	if c.closed || !c.state.HasMore || c.state.Phase == LoadingNextPage || c.state.Phase == LoadingFirstPage {
		defer c.mu.Unlock()
		return c.state.clone()
	}
	q := c.resultsQuery
	next := c.state.Page + 1
	seq := c.seq
	fetchCtx, cancel := c.derive(ctx)
	c.cancelMore = cancel
	c.state.Phase = LoadingNextPage
	c.state.Error = ""
	c.mu.Unlock()
	defer cancel()

	page, err := c.fetch(fetchCtx, q, next)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.seq {
		// a newer first page owns the state now
		return c.state.clone()
	}
	c.cancelMore = nil
	if err != nil {
		c.logger.Warnw("cannot load next page", "mode", q.Mode.String(), "page", next, "error", err)
		c.state.Phase = Failed
		c.state.Error = MsgLoadMoreFailed
		c.failed = opNextPage
		return c.state.clone()
	}
	c.state.Results = append(c.state.Results, page.Results...)
	c.state.Page = next
	c.state.HasMore = next < page.TotalPages
	c.state.Phase = Loaded
	c.failed = opNone
	return c.state.clone()
}

// Retry repeats the last failed load. Page is never rolled back after a
// load-more failure, so the same next page is requested again.
func (c *Controller) Retry(ctx context.Context) State {
	c.mu.Lock()
	if c.closed || c.state.Phase != Failed {
		defer c.mu.Unlock()
		return c.state.clone()
	}
	switch c.failed {
	case opFirstPage:
		req := c.startFirstPageLocked(ctx, c.failedQuery)
		c.mu.Unlock()
		c.runFirstPage(req)
		return c.State()
	case opNextPage:
		c.mu.Unlock()
		return c.LoadMore(ctx)
	default:
		defer c.mu.Unlock()
		return c.state.clone()
	}
}

// Close cancels the pending debounce and every in-flight fetch. The
// controller ignores all input afterwards.
func (c *Controller) Close() {
	c.debouncer.Cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
}

type firstPageRequest struct {
	seq    uint64
	query  Query
	ctx    context.Context
	cancel context.CancelFunc
}

func (c *Controller) startIfChangedLocked(parent context.Context) (firstPageRequest, bool) {
	q := Resolve(c.state.DebouncedTerm, c.state.Filter)
	if c.hasRequested && q == c.requested {
		return firstPageRequest{}, false
	}
	return c.startFirstPageLocked(parent, q), true
}

// startFirstPageLocked supersedes every in-flight load and switches the
// state to LoadingFirstPage. c.mu must be held.
func (c *Controller) startFirstPageLocked(parent context.Context, q Query) firstPageRequest {
	c.seq++
	if c.cancelFirst != nil {
		c.cancelFirst()
	}
	if c.cancelMore != nil {
		c.cancelMore()
		c.cancelMore = nil
	}
	ctx, cancel := c.derive(parent)
	c.cancelFirst = cancel
	c.requested = q
	c.hasRequested = true
	c.state.Mode = q.Mode
	c.state.Phase = LoadingFirstPage
	c.state.Error = ""
	return firstPageRequest{seq: c.seq, query: q, ctx: ctx, cancel: cancel}
}

func (c *Controller) runFirstPage(req firstPageRequest) {
	defer req.cancel()

	page, err := c.fetch(req.ctx, req.query, 1)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || req.seq != c.seq {
		return
	}
	c.cancelFirst = nil
	if err != nil {
		c.logger.Warnw("cannot load first page", "mode", req.query.Mode.String(), "term", req.query.Term, "error", err)
		c.state.Phase = Failed
		c.state.Error = firstPageMessage(req.query.Mode)
		c.failed = opFirstPage
		c.failedQuery = req.query
		// stale results stay visible but cannot be extended by another query
		if req.query != c.resultsQuery {
			c.state.HasMore = false
		}
		return
	}

	c.state.Results = append([]movie.Summary{}, page.Results...)
	c.state.Page = 1
	c.state.HasMore = 1 < page.TotalPages
	c.state.Phase = Loaded
	c.resultsQuery = req.query
	c.failed = opNone

	if req.query.Mode == ModeSearch && len(page.Results) > 0 {
		c.recordSearchLocked(req.query.Term, page.Results[0])
	}
}

// recordSearchLocked publishes the first successful search for each term.
func (c *Controller) recordSearchLocked(term string, top movie.Summary) {
	if _, seen := c.recorded[term]; seen {
		return
	}
	c.recorded[term] = struct{}{}
	c.events.Publish(SearchPerformed{
		Term: term,
		Hint: searches.Hint{
			MovieID:    top.ID,
			Title:      top.Title,
			PosterPath: top.PosterPath,
		},
	})
}

func (c *Controller) fetch(ctx context.Context, q Query, page int) (movie.Page, error) {
	switch q.Mode {
	case ModeFiltered:
		return c.catalog.DiscoverByFilter(ctx, q.Filter, page)
	case ModeSearch:
		return c.catalog.SearchByText(ctx, q.Term, page)
	default:
		return c.catalog.ListPopular(ctx, page)
	}
}

// derive returns a fetch context that keeps the caller's values, outlives
// the caller's cancellation and ends when the controller closes.
func (c *Controller) derive(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	stop := context.AfterFunc(c.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func firstPageMessage(m Mode) string {
	if m == ModeFiltered {
		return MsgFilteredFailed
	}
	return MsgFirstPageFailed
}
