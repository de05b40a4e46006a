package user

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/kobe-cb/retail/internal/metrics"
)

func init() {
	metrics.RegisterRejections(ErrNotFound, ErrUnknownRole, ErrInvalidCode, ErrInvalidSignUp)
}

type service struct {
	repo  Repository
	codes SignupCodes
}

// NewService creates a new user service.
func NewService(repo Repository, codes SignupCodes) Service {
	return &service{repo: repo, codes: codes}
}

func (s *service) SignUp(ctx context.Context, req SignUpRequest) (user *User, err error) {
	defer func() { metrics.Observe("sign_up", err) }()

	if strings.TrimSpace(req.Name) == "" || req.Password == "" {
		return nil, ErrInvalidSignUp
	}
	role, err := ParseRole(string(req.Role))
	if err != nil {
		return nil, err
	}
	switch role {
	case RoleManager:
		if !codeMatches(s.codes.Manager, req.Code) {
			return nil, fmt.Errorf("%w for manager", ErrInvalidCode)
		}
	case RoleAdmin:
		if !codeMatches(s.codes.Admin, req.Code) {
			return nil, fmt.Errorf("%w for admin", ErrInvalidCode)
		}
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user = &User{
		Name:         req.Name,
		PasswordHash: hashedPassword,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Role:         role,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *service) GetUser(ctx context.Context, id int) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func codeMatches(want, got string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
