package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/kobe-cb/retail/internal/modules/user"
)

var (
	ErrNotAuthenticated  = errors.New("not logged in")
	ErrNotManager        = errors.New("not manager")
	ErrNotAdmin          = errors.New("not admin")
	ErrNotStoreManager   = errors.New("you do not have managerial access to this store or this store does not exist")
	ErrProductNotAtStore = errors.New("this product does not exist at this store")
)

// StoreLookup answers store ownership questions.
type StoreLookup interface {
	IsStoreManagedBy(ctx context.Context, storeID, managerID int) (bool, error)
}

// ProductLookup answers product existence questions.
type ProductLookup interface {
	ProductExists(ctx context.Context, storeID int, productName string) (bool, error)
}

// Checker holds the authorization predicates. Every check reads the current
// rows, so a role changed by an admin takes effect on the next check.
type Checker struct {
	users    user.Repository
	stores   StoreLookup
	products ProductLookup
}

// NewChecker creates a Checker over the given lookups.
func NewChecker(users user.Repository, stores StoreLookup, products ProductLookup) *Checker {
	return &Checker{users: users, stores: stores, products: products}
}

// RequireManager fails with ErrNotManager unless the session user is a manager.
func (c *Checker) RequireManager(ctx context.Context, s *Session) error {
	return c.requireRole(ctx, s, user.RoleManager, ErrNotManager)
}

// RequireAdmin fails with ErrNotAdmin unless the session user is an admin.
func (c *Checker) RequireAdmin(ctx context.Context, s *Session) error {
	return c.requireRole(ctx, s, user.RoleAdmin, ErrNotAdmin)
}

func (c *Checker) requireRole(ctx context.Context, s *Session, role user.Role, denied error) error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	u, err := c.users.GetUserByID(ctx, s.UserID)
	if errors.Is(err, user.ErrNotFound) {
		return fmt.Errorf("%w: %w", denied, err)
	}
	if err != nil {
		return err
	}
	if u.Role != role {
		return denied
	}
	return nil
}

// RequireStoreOwner fails with ErrNotStoreManager unless storeID exists and is
// managed by the session user. A missing store and a foreign store fail the
// same way.
func (c *Checker) RequireStoreOwner(ctx context.Context, s *Session, storeID int) error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	ok, err := c.stores.IsStoreManagedBy(ctx, storeID, s.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotStoreManager
	}
	return nil
}

// RequireProductAtStore fails with ErrProductNotAtStore unless a product with
// exactly productName is stocked at storeID.
func (c *Checker) RequireProductAtStore(ctx context.Context, storeID int, productName string) error {
	ok, err := c.products.ProductExists(ctx, storeID, productName)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProductNotAtStore
	}
	return nil
}
