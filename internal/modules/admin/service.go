// Package admin holds the unrestricted maintenance operations available to
// admin users.
package admin

import (
	"context"

	"github.com/kobe-cb/retail/internal/modules/auth"
	"github.com/kobe-cb/retail/internal/modules/inventory"
	"github.com/kobe-cb/retail/internal/modules/user"
)

// Service defines admin operations. Every call requires an admin session and
// none is scoped to stores the caller owns.
type Service interface {
	ViewUser(ctx context.Context, s *auth.Session, userID int) (*user.User, error)
	UpdateUser(ctx context.Context, s *auth.Session, userID int, patch UserPatch) (*user.User, error)
	ViewProduct(ctx context.Context, s *auth.Session, storeID int, name string) (*inventory.Product, error)
	UpdateProduct(ctx context.Context, s *auth.Session, storeID int, name string, patch inventory.ProductPatch) (*inventory.Product, error)
}

// UserPatch selects the user fields to overwrite; nil fields are kept.
type UserPatch struct {
	Name      *string    `json:"name,omitempty"`
	Password  *string    `json:"password,omitempty"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	Role      *user.Role `json:"role,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Password == nil && p.Latitude == nil && p.Longitude == nil && p.Role == nil
}
