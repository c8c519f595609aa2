package browse

import (
	"fmt"
	"strings"

	"moviefinder/movie"
	"moviefinder/searches"
)

// Phase is the single loading state of a controller. Exactly one holds at a
// time, so "loading the first page" and "loading more" can never both be true.
type Phase int

const (
	Idle Phase = iota
	LoadingFirstPage
	LoadingNextPage
	Loaded
	Failed
)

var phaseNames = [...]string{"idle", "loading_first_page", "loading_next_page", "loaded", "failed"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Mode is the kind of catalog query backing the result list.
type Mode int

const (
	ModeDefault Mode = iota
	ModeSearch
	ModeFiltered
)

var modeNames = [...]string{"default", "search", "filtered"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Query is a fully resolved catalog request minus the page number. Two
// equal queries always produce the same first page.
type Query struct {
	Mode   Mode
	Term   string
	Filter movie.Filter
}

// Resolve picks the query mode. Any active filter wins over the term, and a
// blank term falls back to the popular list.
func Resolve(term string, f movie.Filter) Query {
	if f.Active() {
		return Query{Mode: ModeFiltered, Filter: f}
	}
	if t := strings.TrimSpace(term); t != "" {
		return Query{Mode: ModeSearch, Term: t}
	}
	return Query{Mode: ModeDefault}
}

// State is a snapshot of a controller. Results from a failed first-page
// load are the ones shown before the failure.
type State struct {
	Phase         Phase            `json:"phase"`
	Mode          Mode             `json:"mode"`
	RawTerm       string           `json:"rawTerm"`
	DebouncedTerm string           `json:"debouncedTerm"`
	Filter        movie.Filter     `json:"filter"`
	Page          int              `json:"page"`
	HasMore       bool             `json:"hasMore"`
	Results       []movie.Summary  `json:"results"`
	Error         string           `json:"error,omitempty"`
	Genres        []movie.Genre    `json:"genres"`
	Trending      []movie.Summary  `json:"trending"`
	TopSearched   []searches.Entry `json:"topSearched"`
}

func (s State) IsLoading() bool {
	return s.Phase == LoadingFirstPage
}

func (s State) IsLoadingMore() bool {
	return s.Phase == LoadingNextPage
}

func (s State) clone() State {
	out := s
	out.Results = append([]movie.Summary{}, s.Results...)
	out.Genres = append([]movie.Genre{}, s.Genres...)
	out.Trending = append([]movie.Summary{}, s.Trending...)
	out.TopSearched = append([]searches.Entry{}, s.TopSearched...)
	return out
}
