package session

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("expired session token")
)

type Session struct {
	UserID    string
	ExpiresAt time.Time
}

// Resolver validates a bearer token and resolves it to a session.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*Session, error)
}
