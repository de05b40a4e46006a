package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/kobe-cb/retail/internal/metrics"
	"github.com/kobe-cb/retail/internal/modules/user"
)

func init() {
	metrics.RegisterRejections(ErrInvalidCredentials, ErrInvalidToken, ErrNotAuthenticated,
		ErrNotManager, ErrNotAdmin, ErrNotStoreManager, ErrProductNotAtStore)
}

// Options configures token signing and legacy password handling.
type Options struct {
	Secret                  []byte
	TokenTTL                time.Duration
	AllowPlaintextPasswords bool
	Now                     func() time.Time
}

type service struct {
	userRepo user.Repository
	opts     Options
}

// NewService creates a new auth service.
func NewService(userRepo user.Repository, opts Options) Service {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{userRepo: userRepo, opts: opts}
}

func (s *service) Login(ctx context.Context, name, password string) (sess *Session, err error) {
	defer func() { metrics.Observe("log_in", err) }()

	users, err := s.userRepo.ListUsersByName(ctx, name)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if user.CheckPassword(u.PasswordHash, password, s.opts.AllowPlaintextPasswords) {
			return &Session{UserID: u.ID, Name: u.Name, Role: u.Role}, nil
		}
	}
	return nil, ErrInvalidCredentials
}

type claims struct {
	Name string    `json:"name"`
	Role user.Role `json:"role"`
	jwt.StandardClaims
}

func (s *service) IssueToken(sess *Session) (string, error) {
	if !sess.Authenticated() {
		return "", ErrNotAuthenticated
	}
	if len(s.opts.Secret) == 0 {
		return "", fmt.Errorf("token signing secret is not configured")
	}

	now := s.opts.Now()
	c := &claims{
		Name: sess.Name,
		Role: sess.Role,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   strconv.Itoa(sess.UserID),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.opts.TokenTTL).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.opts.Secret)
}

func (s *service) ParseToken(tokenString string) (*Session, error) {
	if len(s.opts.Secret) == 0 {
		return nil, ErrInvalidToken
	}

	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.opts.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.Atoi(c.Subject)
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}
	return &Session{UserID: userID, Name: c.Name, Role: c.Role}, nil
}
