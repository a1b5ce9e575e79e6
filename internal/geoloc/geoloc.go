// Package geoloc wraps the platform geolocation capability behind a small
// interface and applies the timeout and result-age policy around it.
package geoloc

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Jalson1982/WeatherApp/internal/weather"
)

// Error codes reported by platform geolocation implementations.
// PermissionDenied is the only code with a dedicated user-facing message;
// everything else gets the generic retry message.
const (
	CodePermissionDenied    = 1
	CodePositionUnavailable = 2
	CodeTimeout             = 3
)

// User-facing messages, rendered verbatim by the UI layer.
const (
	MsgPermissionDenied = "Location permission denied. Please enable location services in your device settings."
	MsgGenericFailure   = "Failed to get location. Please try again."
)

// Position is a device fix.
type Position struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
	Timestamp time.Time
}

// PositionError carries the platform error code.
type PositionError struct {
	Code    int
	Message string
}

func (e *PositionError) Error() string {
	return e.Message
}

// Provider is the platform capability that produces a device fix.
type Provider interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// Options control one position request.
type Options struct {
	// EnableHighAccuracy requests a precise fix where the platform
	// distinguishes accuracy tiers.
	EnableHighAccuracy bool

	// Timeout bounds how long a fresh fix may take.
	Timeout time.Duration

	// MaximumAge allows a cached fix at most this old to stand in for a
	// fresh one.
	MaximumAge time.Duration
}

// DefaultOptions mirrors the application defaults: 20s timeout, 1s
// acceptable fix age, high accuracy requested.
func DefaultOptions() Options {
	return Options{
		EnableHighAccuracy: true,
		Timeout:            20 * time.Second,
		MaximumAge:         1 * time.Second,
	}
}

// Locator resolves the device position into a Location for the fetch
// pipeline, caching the last fix for the MaximumAge window.
type Locator struct {
	provider Provider
	opts     Options
	now      func() time.Time

	mu      sync.Mutex
	lastFix Position
	hasFix  bool
}

// NewLocator creates a Locator with the given provider and options.
func NewLocator(provider Provider, opts Options) *Locator {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	return &Locator{
		provider: provider,
		opts:     opts,
		now:      time.Now,
	}
}

// CurrentLocation returns the device position as a Location. A cached fix
// younger than MaximumAge is returned without touching the provider;
// otherwise a fresh fix is requested under the configured timeout.
//
// The error, when non-nil, is a *PositionError whose Message is ready for
// direct display.
func (l *Locator) CurrentLocation(ctx context.Context) (weather.Location, error) {
	l.mu.Lock()
	if l.hasFix && l.opts.MaximumAge > 0 && l.now().Sub(l.lastFix.Timestamp) <= l.opts.MaximumAge {
		pos := l.lastFix
		l.mu.Unlock()
		return currentLocation(pos), nil
	}
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, l.opts.Timeout)
	defer cancel()

	pos, err := l.provider.CurrentPosition(ctx)
	if err != nil {
		return weather.Location{}, classify(err)
	}
	if pos.Timestamp.IsZero() {
		pos.Timestamp = l.now()
	}

	l.mu.Lock()
	l.lastFix = pos
	l.hasFix = true
	l.mu.Unlock()

	return currentLocation(pos), nil
}

// currentLocation keeps the fixed id and display name the home screen
// expects for the device position.
func currentLocation(pos Position) weather.Location {
	return weather.Location{
		ID:   "current",
		Name: "Current Location",
		Lat:  pos.Latitude,
		Lon:  pos.Longitude,
	}
}

// classify maps any provider failure onto the two user-facing messages.
func classify(err error) *PositionError {
	var posErr *PositionError
	if errors.As(err, &posErr) && posErr.Code == CodePermissionDenied {
		return &PositionError{Code: CodePermissionDenied, Message: MsgPermissionDenied}
	}
	code := CodePositionUnavailable
	if errors.Is(err, context.DeadlineExceeded) {
		code = CodeTimeout
	}
	if errors.As(err, &posErr) {
		code = posErr.Code
	}
	return &PositionError{Code: code, Message: MsgGenericFailure}
}
