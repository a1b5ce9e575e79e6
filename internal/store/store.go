// Package store holds the single mutable application state: current
// weather, aggregated forecast, recent searches and loading/error flags.
package store

import (
	"context"
	"sync"

	"github.com/Jalson1982/WeatherApp/internal/weather"
)

// DefaultRecentSearchesLimit caps the recent-search history.
const DefaultRecentSearchesLimit = 5

// Fetcher is the weather pipeline the store drives on each fetch cycle.
type Fetcher interface {
	Fetch(ctx context.Context, loc weather.Location) (weather.WeatherResponse, error)
}

// State is a point-in-time snapshot of the application state. Reads never
// observe a fetch cycle mid-mutation.
type State struct {
	CurrentWeather *weather.CurrentWeather `json:"currentWeather"`
	Forecast       []weather.DailyForecast `json:"forecast"`
	RecentSearches []weather.Location      `json:"recentSearches"`
	Loading        bool                    `json:"loading"`
	Err            string                  `json:"error,omitempty"`
}

// Store is the process-wide state container. It exposes exactly two
// state-changing operations, FetchWeatherData and AddRecentSearch; all
// reads go through Snapshot.
type Store struct {
	mu      sync.Mutex
	fetcher Fetcher

	currentWeather *weather.CurrentWeather
	forecast       []weather.DailyForecast
	recentSearches []weather.Location
	loading        bool
	err            string

	recentLimit int
}

// New creates a Store. If recentLimit is <= 0 the default cap applies.
func New(fetcher Fetcher, recentLimit int) *Store {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentSearchesLimit
	}
	return &Store{
		fetcher:     fetcher,
		recentLimit: recentLimit,
	}
}

// FetchWeatherData runs one fetch cycle for a location. The loading flag
// is raised and the previous error cleared before the fetch starts; on
// success the current weather and forecast are replaced wholesale, on
// failure the error message is recorded and the prior data stays in place.
// Safe for concurrent use; call it from a goroutine to keep the caller
// responsive.
func (s *Store) FetchWeatherData(ctx context.Context, loc weather.Location) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	resp, err := s.fetcher.Fetch(ctx, loc)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err.Error()
		return err
	}

	current := resp.Current
	s.currentWeather = &current
	s.forecast = resp.Daily
	return nil
}

// AddRecentSearch records a selected location at the head of the history.
// A location whose id is already present is a strict no-op: no reorder,
// no duplicate. The history is truncated to the configured cap, evicting
// the oldest entries.
func (s *Store) AddRecentSearch(loc weather.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.recentSearches {
		if existing.ID == loc.ID {
			return
		}
	}

	updated := make([]weather.Location, 0, s.recentLimit)
	updated = append(updated, loc)
	rest := s.recentSearches
	if len(rest) > s.recentLimit-1 {
		rest = rest[:s.recentLimit-1]
	}
	updated = append(updated, rest...)
	s.recentSearches = updated
}

// Snapshot returns a copy of the current state. Slices are copied so a
// later fetch cycle cannot mutate what a reader is holding.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{
		Loading: s.loading,
		Err:     s.err,
	}
	if s.currentWeather != nil {
		cw := *s.currentWeather
		state.CurrentWeather = &cw
	}
	state.Forecast = append([]weather.DailyForecast(nil), s.forecast...)
	state.RecentSearches = append([]weather.Location(nil), s.recentSearches...)
	return state
}
