package auth

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Login checks the credentials and returns the session for that user.
	Login(ctx context.Context, name, password string) (*Session, error)

	// IssueToken signs a bearer token for an authenticated session.
	IssueToken(s *Session) (string, error)

	// ParseToken validates a bearer token and returns its session.
	ParseToken(token string) (*Session, error)
}
