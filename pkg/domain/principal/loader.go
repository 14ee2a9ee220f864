package principal

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("principal not found")

// Loader resolves a session's user id to its tenant profile.
type Loader interface {
	Load(ctx context.Context, userID string) (*Principal, error)
}
