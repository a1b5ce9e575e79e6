package geoloc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeProvider returns a canned position or error and counts calls.
type fakeProvider struct {
	pos   Position
	err   error
	calls int
}

func (f *fakeProvider) CurrentPosition(ctx context.Context) (Position, error) {
	f.calls++
	if f.err != nil {
		return Position{}, f.err
	}
	return f.pos, nil
}

func TestCurrentLocationMapsFix(t *testing.T) {
	provider := &fakeProvider{pos: Position{
		Latitude:  48.8566,
		Longitude: 2.3522,
		Accuracy:  10,
		Timestamp: time.Now(),
	}}
	locator := NewLocator(provider, DefaultOptions())

	loc, err := locator.CurrentLocation(context.Background())
	require.NoError(t, err)
	require.Equal(t, "current", loc.ID)
	require.Equal(t, "Current Location", loc.Name)
	require.Equal(t, 48.8566, loc.Lat)
	require.Equal(t, 2.3522, loc.Lon)
}

func TestCurrentLocationPermissionDenied(t *testing.T) {
	locator := NewLocator(DeniedProvider{}, DefaultOptions())

	_, err := locator.CurrentLocation(context.Background())
	require.Error(t, err)

	var posErr *PositionError
	require.True(t, errors.As(err, &posErr))
	require.Equal(t, CodePermissionDenied, posErr.Code)
	require.Equal(t, MsgPermissionDenied, posErr.Message)
}

func TestCurrentLocationGenericFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("gps hardware fault")}
	locator := NewLocator(provider, DefaultOptions())

	_, err := locator.CurrentLocation(context.Background())
	require.Error(t, err)

	var posErr *PositionError
	require.True(t, errors.As(err, &posErr))
	require.NotEqual(t, CodePermissionDenied, posErr.Code)
	require.Equal(t, MsgGenericFailure, posErr.Message)
}

func TestCurrentLocationUsesRecentCachedFix(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	provider := &fakeProvider{pos: Position{Latitude: 1, Longitude: 2, Timestamp: now}}

	locator := NewLocator(provider, Options{Timeout: time.Second, MaximumAge: time.Second})
	locator.now = func() time.Time { return now }

	_, err := locator.CurrentLocation(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, provider.calls)

	// A fix younger than MaximumAge is reused without a provider call.
	locator.now = func() time.Time { return now.Add(500 * time.Millisecond) }
	_, err = locator.CurrentLocation(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, provider.calls)

	// Once the fix ages out, the provider is asked again.
	locator.now = func() time.Time { return now.Add(2 * time.Second) }
	_, err = locator.CurrentLocation(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, provider.calls)
}
