package auth

import (
	"context"

	"github.com/kobe-cb/retail/internal/modules/user"
)

// Session identifies the user a domain operation acts for. The console keeps
// one for its whole run; the API rebuilds one from the bearer token on every
// request.
type Session struct {
	UserID int       `json:"user_id"`
	Name   string    `json:"name"`
	Role   user.Role `json:"role"`
}

// Authenticated reports whether the session belongs to a logged-in user.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != 0
}

type sessionKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored by WithSession, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
