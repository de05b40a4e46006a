package inventory

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrStoreNotFound     = errors.New("store not found")
	ErrWarehouseNotFound = errors.New("warehouse not found")
	ErrNoChanges         = errors.New("no changes requested")
	ErrInvalidPatch      = errors.New("units and price must not be negative")
	ErrInvalidUnits      = errors.New("requested units must be greater than zero")
)

// Store is a retail location run by exactly one manager.
type Store struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	ManagerID int     `json:"manager_id"`
}

// StoreDistance pairs a store with its planar distance from the viewer.
type StoreDistance struct {
	*Store
	Distance float64 `json:"distance"`
}

// Product is the stock of one named product at one store.
type Product struct {
	StoreID      int             `json:"store_id"`
	Name         string          `json:"name"`
	Units        int             `json:"units"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

// ProductPatch selects the product fields to overwrite; nil fields are kept.
type ProductPatch struct {
	Units        *int             `json:"units,omitempty"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ProductPatch) Empty() bool {
	return p.Units == nil && p.PricePerUnit == nil
}

// Validate rejects negative values.
func (p ProductPatch) Validate() error {
	if p.Units != nil && *p.Units < 0 {
		return ErrInvalidPatch
	}
	if p.PricePerUnit != nil && p.PricePerUnit.IsNegative() {
		return ErrInvalidPatch
	}
	return nil
}

// ProductUpdate is the audit row appended whenever a manager changes a product.
type ProductUpdate struct {
	Number      int       `json:"update_number"`
	ManagerID   int       `json:"manager_id"`
	StoreID     int       `json:"store_id"`
	ProductName string    `json:"product_name"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// SupplyRequest asks a warehouse to restock a store's product.
type SupplyRequest struct {
	Number         int    `json:"request_number"`
	ManagerID      int    `json:"manager_id"`
	WarehouseID    int    `json:"warehouse_id"`
	StoreID        int    `json:"store_id"`
	ProductName    string `json:"product_name"`
	UnitsRequested int    `json:"units_requested"`
}

// PopularProduct is a row of the manager's most-ordered products report.
type PopularProduct struct {
	StoreID      int    `json:"store_id"`
	ProductName  string `json:"product_name"`
	OrderCount   int    `json:"order_count"`
	UnitsOrdered int    `json:"units_ordered"`
}

// PopularCustomer is a row of the manager's most-frequent customers report.
type PopularCustomer struct {
	CustomerID int    `json:"customer_id"`
	Name       string `json:"name"`
	OrderCount int    `json:"order_count"`
}
