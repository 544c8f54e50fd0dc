package models

import (
	"context"
	"time"
)

// Session is the verified identity of one request. It is derived by the auth
// gate and carried on the request context; nothing about it is global.
type Session struct {
	UserID     string       `json:"userId"`
	Email      string       `json:"email,omitempty"`
	Provider   AuthProvider `json:"provider"`
	RequestID  string       `json:"requestId,omitempty"`
	VerifiedAt time.Time    `json:"verifiedAt"`
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session placed by the auth gate, if any.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
