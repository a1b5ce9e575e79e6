package geoloc

import "context"

// FixedProvider is a Provider pinned to one position. Headless builds use
// it in place of a real platform capability; tests use it as a stub.
type FixedProvider struct {
	Position Position
}

func (p FixedProvider) CurrentPosition(ctx context.Context) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	return p.Position, nil
}

// DeniedProvider is a Provider that always refuses, the way a platform
// does when the user has not granted location access.
type DeniedProvider struct{}

func (DeniedProvider) CurrentPosition(ctx context.Context) (Position, error) {
	return Position{}, &PositionError{Code: CodePermissionDenied, Message: "permission denied"}
}
