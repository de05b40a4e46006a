package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kobe-cb/retail/internal/config"
	"github.com/kobe-cb/retail/internal/geo"
	"github.com/kobe-cb/retail/internal/metrics"
	"github.com/kobe-cb/retail/internal/modules/auth"
	"github.com/kobe-cb/retail/internal/modules/user"
)

func init() {
	metrics.RegisterRejections(ErrStoreNotFound, ErrWarehouseNotFound, ErrNoChanges, ErrInvalidPatch, ErrInvalidUnits)
}

// Service defines inventory business logic for stores, products, supply and reports.
type Service interface {
	// Customer views
	StoresWithinRange(ctx context.Context, s *auth.Session) ([]*StoreDistance, error)
	ListProducts(ctx context.Context, storeID int) ([]*Product, error)

	// Manager operations
	ManagedProduct(ctx context.Context, s *auth.Session, storeID int, name string) (*Product, error)
	UpdateProduct(ctx context.Context, s *auth.Session, req UpdateProductRequest) (*Product, error)
	PlaceSupplyRequest(ctx context.Context, s *auth.Session, req SupplyRequestInput) (*SupplyReceipt, error)
	RecentUpdates(ctx context.Context, s *auth.Session) ([]*ProductUpdate, error)
	PopularProducts(ctx context.Context, s *auth.Session) ([]*PopularProduct, error)
	PopularCustomers(ctx context.Context, s *auth.Session) ([]*PopularCustomer, error)
}

// UpdateProductRequest holds the product to change and the fields to overwrite.
type UpdateProductRequest struct {
	StoreID     int          `json:"store_id"`
	ProductName string       `json:"product_name"`
	Patch       ProductPatch `json:"patch"`
}

// SupplyRequestInput holds data for asking a warehouse to restock a product.
type SupplyRequestInput struct {
	StoreID     int    `json:"store_id"`
	ProductName string `json:"product_name"`
	WarehouseID int    `json:"warehouse_id"`
	Units       int    `json:"units"`
}

// SupplyReceipt is the stored request together with the product after it.
type SupplyReceipt struct {
	Request      *SupplyRequest `json:"request"`
	UnitsGranted int            `json:"units_granted"`
	Product      *Product       `json:"product"`
}

// Options tunes the inventory service.
type Options struct {
	Radius       float64
	RecentLimit  int
	PopularLimit int
	SupplyPolicy config.SupplyGrantPolicy
	Now          func() time.Time
}

type service struct {
	users    user.Repository
	stores   StoreRepository
	products ProductRepository
	supply   SupplyRepository
	reports  ReportRepository
	checker  *auth.Checker
	opts     Options
}

// NewService creates a new inventory service.
func NewService(
	users user.Repository,
	stores StoreRepository,
	products ProductRepository,
	supply SupplyRepository,
	reports ReportRepository,
	checker *auth.Checker,
	opts Options,
) Service {
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = 5
	}
	if opts.PopularLimit <= 0 {
		opts.PopularLimit = 5
	}
	if opts.SupplyPolicy == "" {
		opts.SupplyPolicy = config.GrantRequested
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{
		users:    users,
		stores:   stores,
		products: products,
		supply:   supply,
		reports:  reports,
		checker:  checker,
		opts:     opts,
	}
}

// ---- Customer views ----

func (s *service) StoresWithinRange(ctx context.Context, sess *auth.Session) ([]*StoreDistance, error) {
	if !sess.Authenticated() {
		return nil, auth.ErrNotAuthenticated
	}
	u, err := s.users.GetUserByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	stores, err := s.stores.ListStores(ctx)
	if err != nil {
		return nil, err
	}

	var nearby []*StoreDistance
	for _, st := range stores {
		d := geo.Distance(u.Latitude, u.Longitude, st.Latitude, st.Longitude)
		if d <= s.opts.Radius {
			nearby = append(nearby, &StoreDistance{Store: st, Distance: d})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].Distance < nearby[j].Distance })
	return nearby, nil
}

func (s *service) ListProducts(ctx context.Context, storeID int) ([]*Product, error) {
	if _, err := s.stores.GetStoreByID(ctx, storeID); err != nil {
		return nil, err
	}
	return s.products.ListProducts(ctx, storeID)
}

// ---- Manager operations ----

func (s *service) ManagedProduct(ctx context.Context, sess *auth.Session, storeID int, name string) (*Product, error) {
	if err := s.requireOwnedProduct(ctx, sess, storeID, name); err != nil {
		return nil, err
	}
	return s.products.GetProduct(ctx, storeID, name)
}

func (s *service) UpdateProduct(ctx context.Context, sess *auth.Session, req UpdateProductRequest) (p *Product, err error) {
	defer func() { metrics.Observe("update_product", err) }()

	if err := s.requireOwnedProduct(ctx, sess, req.StoreID, req.ProductName); err != nil {
		return nil, err
	}
	if req.Patch.Empty() {
		return nil, ErrNoChanges
	}
	if err := req.Patch.Validate(); err != nil {
		return nil, err
	}

	audit := &ProductUpdate{
		ManagerID:   sess.UserID,
		StoreID:     req.StoreID,
		ProductName: req.ProductName,
		UpdatedOn:   s.opts.Now(),
	}
	p, err = s.products.UpdateProduct(ctx, req.StoreID, req.ProductName, req.Patch, audit)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

func (s *service) PlaceSupplyRequest(ctx context.Context, sess *auth.Session, in SupplyRequestInput) (receipt *SupplyReceipt, err error) {
	defer func() { metrics.Observe("supply_request", err) }()

	if err := s.requireOwnedProduct(ctx, sess, in.StoreID, in.ProductName); err != nil {
		return nil, err
	}
	if in.Units <= 0 {
		return nil, ErrInvalidUnits
	}
	ok, err := s.supply.WarehouseExists(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrWarehouseNotFound, in.WarehouseID)
	}

	req := &SupplyRequest{
		ManagerID:      sess.UserID,
		WarehouseID:    in.WarehouseID,
		StoreID:        in.StoreID,
		ProductName:    in.ProductName,
		UnitsRequested: in.Units,
	}
	grant := 0
	var audit *ProductUpdate
	if s.opts.SupplyPolicy == config.GrantRequested {
		grant = in.Units
		audit = &ProductUpdate{
			ManagerID:   sess.UserID,
			StoreID:     in.StoreID,
			ProductName: in.ProductName,
			UpdatedOn:   s.opts.Now(),
		}
	}

	p, err := s.supply.PlaceSupplyRequest(ctx, req, grant, audit)
	if err != nil {
		return nil, fmt.Errorf("place supply request: %w", err)
	}
	metrics.UnitsSupplied(grant)
	return &SupplyReceipt{Request: req, UnitsGranted: grant, Product: p}, nil
}

func (s *service) RecentUpdates(ctx context.Context, sess *auth.Session) ([]*ProductUpdate, error) {
	if err := s.checker.RequireManager(ctx, sess); err != nil {
		return nil, err
	}
	return s.products.ListRecentUpdates(ctx, sess.UserID, s.opts.RecentLimit)
}

func (s *service) PopularProducts(ctx context.Context, sess *auth.Session) ([]*PopularProduct, error) {
	if err := s.checker.RequireManager(ctx, sess); err != nil {
		return nil, err
	}
	return s.reports.PopularProducts(ctx, sess.UserID, s.opts.PopularLimit)
}

func (s *service) PopularCustomers(ctx context.Context, sess *auth.Session) ([]*PopularCustomer, error) {
	if err := s.checker.RequireManager(ctx, sess); err != nil {
		return nil, err
	}
	return s.reports.PopularCustomers(ctx, sess.UserID, s.opts.PopularLimit)
}

func (s *service) requireOwnedProduct(ctx context.Context, sess *auth.Session, storeID int, name string) error {
	if err := s.checker.RequireManager(ctx, sess); err != nil {
		return err
	}
	if err := s.checker.RequireStoreOwner(ctx, sess, storeID); err != nil {
		return err
	}
	return s.checker.RequireProductAtStore(ctx, storeID, name)
}
