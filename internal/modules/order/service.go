package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kobe-cb/retail/internal/geo"
	"github.com/kobe-cb/retail/internal/metrics"
	"github.com/kobe-cb/retail/internal/modules/auth"
	"github.com/kobe-cb/retail/internal/modules/inventory"
	"github.com/kobe-cb/retail/internal/modules/user"
)

func init() {
	metrics.RegisterRejections(ErrInvalidUnits, ErrInsufficientInventory, ErrOutOfRange)
}

// Service defines the order business logic.
type Service interface {
	// PlaceOrder buys req.Units of a product for the session user.
	PlaceOrder(ctx context.Context, s *auth.Session, req PlaceOrderRequest) (*Receipt, error)

	// RecentOrders returns the session user's newest orders.
	RecentOrders(ctx context.Context, s *auth.Session) ([]*RecentOrder, error)
}

// Options tunes the order service.
type Options struct {
	EnforceRadius bool
	Radius        float64
	RecentLimit   int
	Now           func() time.Time
}

type service struct {
	repo    Repository
	users   user.Repository
	stores  inventory.StoreRepository
	checker *auth.Checker
	opts    Options
}

// NewService creates a new order service.
func NewService(repo Repository, users user.Repository, stores inventory.StoreRepository, checker *auth.Checker, opts Options) Service {
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = 5
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{repo: repo, users: users, stores: stores, checker: checker, opts: opts}
}

func (s *service) PlaceOrder(ctx context.Context, sess *auth.Session, req PlaceOrderRequest) (receipt *Receipt, err error) {
	defer func() { metrics.Observe("place_order", err) }()

	if !sess.Authenticated() {
		return nil, auth.ErrNotAuthenticated
	}
	if req.Units <= 0 {
		return nil, ErrInvalidUnits
	}
	if err := s.checker.RequireProductAtStore(ctx, req.StoreID, req.ProductName); err != nil {
		return nil, err
	}
	store, err := s.stores.GetStoreByID(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}
	if s.opts.EnforceRadius {
		u, err := s.users.GetUserByID(ctx, sess.UserID)
		if err != nil {
			return nil, err
		}
		if !geo.WithinRange(u.Latitude, u.Longitude, store.Latitude, store.Longitude, s.opts.Radius) {
			d := geo.Distance(u.Latitude, u.Longitude, store.Latitude, store.Longitude)
			return nil, fmt.Errorf("%w: %s is %.1f away", ErrOutOfRange, store.Name, d)
		}
	}

	o := &Order{
		CustomerID:  sess.UserID,
		StoreID:     req.StoreID,
		ProductName: req.ProductName,
		Units:       req.Units,
		OrderTime:   s.opts.Now(),
	}
	price, remaining, err := s.repo.PlaceOrder(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	metrics.UnitsOrdered(o.Units)

	return &Receipt{
		Order:          o,
		StoreName:      store.Name,
		UnitPrice:      price,
		Total:          price.Mul(decimal.NewFromInt(int64(o.Units))),
		RemainingUnits: remaining,
	}, nil
}

func (s *service) RecentOrders(ctx context.Context, sess *auth.Session) ([]*RecentOrder, error) {
	if !sess.Authenticated() {
		return nil, auth.ErrNotAuthenticated
	}
	return s.repo.ListRecentOrders(ctx, sess.UserID, s.opts.RecentLimit)
}
