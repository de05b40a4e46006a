package inventory

import "context"

// StoreRepository defines store data storage. Stores are read-only here.
type StoreRepository interface {
	GetStoreByID(ctx context.Context, id int) (*Store, error)
	ListStores(ctx context.Context) ([]*Store, error)
	IsStoreManagedBy(ctx context.Context, storeID, managerID int) (bool, error)
}

// ProductRepository defines product data storage.
type ProductRepository interface {
	GetProduct(ctx context.Context, storeID int, name string) (*Product, error)
	ListProducts(ctx context.Context, storeID int) ([]*Product, error)
	ProductExists(ctx context.Context, storeID int, name string) (bool, error)

	// UpdateProduct applies patch and, when audit is non-nil, appends it with a
	// freshly allocated update number, all in one transaction.
	UpdateProduct(ctx context.Context, storeID int, name string, patch ProductPatch, audit *ProductUpdate) (*Product, error)

	ListRecentUpdates(ctx context.Context, managerID, limit int) ([]*ProductUpdate, error)
}

// SupplyRepository defines warehouse and supply request storage.
type SupplyRepository interface {
	WarehouseExists(ctx context.Context, id int) (bool, error)

	// PlaceSupplyRequest inserts req with a fresh request number, adds grant
	// units to the product and, when grant is positive and audit is non-nil,
	// appends the audit row. Everything happens in one transaction.
	PlaceSupplyRequest(ctx context.Context, req *SupplyRequest, grant int, audit *ProductUpdate) (*Product, error)
}

// ReportRepository defines the manager's order reports.
type ReportRepository interface {
	PopularProducts(ctx context.Context, managerID, limit int) ([]*PopularProduct, error)
	PopularCustomers(ctx context.Context, managerID, limit int) ([]*PopularCustomer, error)
}
