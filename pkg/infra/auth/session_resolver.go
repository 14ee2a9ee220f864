package auth

import (
	"context"
	"errors"
	"time"

	"github.com/fieldops/apigate/pkg/config"
	"github.com/fieldops/apigate/pkg/domain/session"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	jwt.RegisteredClaims
}

// SessionResolver validates session tokens issued by the hosted auth
// provider (HS256 over a shared secret) and maps them to sessions.
type SessionResolver struct {
	config *config.ServerConfig
}

func NewSessionResolver(cfg *config.ServerConfig) *SessionResolver {
	return &SessionResolver{config: cfg}
}

func (r *SessionResolver) Resolve(_ context.Context, tokenString string) (*session.Session, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, session.ErrInvalidToken
			}
			return []byte(r.config.SecretKey), nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, session.ErrExpiredToken
		}
		return nil, session.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, session.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, session.ErrInvalidToken
	}

	sess := &session.Session{UserID: claims.Subject}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

// CreateToken mints a session token for infrastructure callers (tests,
// internal tooling).
func (r *SessionResolver) CreateToken(userID string, ttl time.Duration) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(r.config.SecretKey))
}
