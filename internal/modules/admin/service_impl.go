package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/kobe-cb/retail/internal/metrics"
	"github.com/kobe-cb/retail/internal/modules/auth"
	"github.com/kobe-cb/retail/internal/modules/inventory"
	"github.com/kobe-cb/retail/internal/modules/user"
)

type service struct {
	users    user.Repository
	products inventory.ProductRepository
	checker  *auth.Checker
}

// NewService creates a new admin service.
func NewService(users user.Repository, products inventory.ProductRepository, checker *auth.Checker) Service {
	return &service{users: users, products: products, checker: checker}
}

func (s *service) ViewUser(ctx context.Context, sess *auth.Session, userID int) (*user.User, error) {
	if err := s.checker.RequireAdmin(ctx, sess); err != nil {
		return nil, err
	}
	return s.users.GetUserByID(ctx, userID)
}

func (s *service) UpdateUser(ctx context.Context, sess *auth.Session, userID int, patch UserPatch) (u *user.User, err error) {
	defer func() { metrics.Observe("admin_update_user", err) }()

	if err := s.checker.RequireAdmin(ctx, sess); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, inventory.ErrNoChanges
	}
	u, err = s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, user.ErrInvalidSignUp
		}
		u.Name = *patch.Name
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, user.ErrInvalidSignUp
		}
		hashed, err := user.HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hashed
	}
	if patch.Latitude != nil {
		u.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		u.Longitude = *patch.Longitude
	}
	if patch.Role != nil {
		role, err := user.ParseRole(string(*patch.Role))
		if err != nil {
			return nil, err
		}
		u.Role = role
	}

	if err := s.users.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("update user %d: %w", userID, err)
	}
	return u, nil
}

func (s *service) ViewProduct(ctx context.Context, sess *auth.Session, storeID int, name string) (*inventory.Product, error) {
	if err := s.checker.RequireAdmin(ctx, sess); err != nil {
		return nil, err
	}
	return s.products.GetProduct(ctx, storeID, name)
}

// UpdateProduct overwrites any store's product without an audit row.
func (s *service) UpdateProduct(ctx context.Context, sess *auth.Session, storeID int, name string, patch inventory.ProductPatch) (p *inventory.Product, err error) {
	defer func() { metrics.Observe("admin_update_product", err) }()

	if err := s.checker.RequireAdmin(ctx, sess); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, inventory.ErrNoChanges
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return s.products.UpdateProduct(ctx, storeID, name, patch, nil)
}
