package search

import (
	"context"
	"sync"
	"time"

	"github.com/Jalson1982/WeatherApp/internal/weather"
)

// MinQueryLength is the shortest query that triggers a remote call;
// anything shorter just clears the result list.
const MinQueryLength = 2

// Geocoder is the remote client the searcher calls once a query survives
// the debounce window.
type Geocoder interface {
	Search(ctx context.Context, query string, limit int) ([]weather.Location, error)
}

// Result is one settled search delivered to the consumer.
type Result struct {
	Query     string
	Locations []weather.Location
	Err       error
}

// pendingQuery tags a query with its observation order so stale results
// can be told apart from the latest one.
type pendingQuery struct {
	query string
	gen   uint64
}

// Searcher debounces queries and resolves them against a Geocoder.
// An in-flight search is not cancelled when a newer query arrives, but a
// result resolving after a newer query has been observed is dropped: the
// consumer only ever sees results for the latest query.
type Searcher struct {
	geocoder  Geocoder
	limit     int
	minLength int
	timeout   time.Duration
	deliver   func(Result)
	debounce  *Debouncer[pendingQuery]

	mu  sync.Mutex
	gen uint64
}

// Config tunes a Searcher. Zero values fall back to the defaults.
type Config struct {
	Delay     time.Duration
	Limit     int
	MinLength int
	Timeout   time.Duration
}

// NewSearcher creates a Searcher delivering settled results to deliver.
// Delivery happens on the debounce timer goroutine.
func NewSearcher(geocoder Geocoder, cfg Config, deliver func(Result)) *Searcher {
	if cfg.Limit <= 0 {
		cfg.Limit = 5
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = MinQueryLength
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	s := &Searcher{
		geocoder:  geocoder,
		limit:     cfg.Limit,
		minLength: cfg.MinLength,
		timeout:   cfg.Timeout,
		deliver:   deliver,
	}
	s.debounce = NewDebouncer(cfg.Delay, s.run)
	return s
}

// Observe records the latest query text. Rapid successive calls coalesce
// so only the last query after the quiescence window reaches the geocoder.
func (s *Searcher) Observe(query string) {
	s.mu.Lock()
	s.gen++
	pending := pendingQuery{query: query, gen: s.gen}
	s.mu.Unlock()
	s.debounce.Observe(pending)
}

// Close stops any pending debounce delivery.
func (s *Searcher) Close() {
	s.debounce.Cancel()
}

func (s *Searcher) run(pending pendingQuery) {
	if len(pending.query) < s.minLength {
		s.emit(pending.gen, Result{Query: pending.query})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	locations, err := s.geocoder.Search(ctx, pending.query, s.limit)
	s.emit(pending.gen, Result{Query: pending.query, Locations: locations, Err: err})
}

// emit delivers the result unless a newer query was observed while the
// search was in flight.
func (s *Searcher) emit(gen uint64, res Result) {
	s.mu.Lock()
	stale := gen != s.gen
	s.mu.Unlock()
	if stale {
		return
	}
	s.deliver(res)
}
