// Package session carries the authenticated caller through a request.
package session

import (
	"context"
	"time"
)

type Session struct {
	UserID    string
	Name      string
	ExpiresAt time.Time
}

type contextKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session attached by the auth middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}
