package browse

import (
	"context"
	"time"

	"moviefinder/events"
	"moviefinder/searches"
)

// SearchPerformed is published the first time a search term returns results
// in a session. Hint is the top-ranked movie of that first page.
type SearchPerformed struct {
	Term string
	Hint searches.Hint
}

// SearchRecorder is the usage-tracking side that consumes SearchPerformed.
type SearchRecorder interface {
	RecordSearch(ctx context.Context, term string, hint searches.Hint)
}

const recordTimeout = 10 * time.Second

// SubscribeRecorder forwards every SearchPerformed on bus to r. The
// recorder runs on the bus goroutine, detached from any browse request.
func SubscribeRecorder(bus *events.Bus, r SearchRecorder) {
	bus.Subscribe(events.TypeOf(SearchPerformed{}), func(e interface{}) {
		ev, ok := e.(SearchPerformed)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		r.RecordSearch(ctx, ev.Term, ev.Hint)
	})
}
