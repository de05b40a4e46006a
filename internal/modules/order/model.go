package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidUnits          = errors.New("units must be greater than zero")
	ErrInsufficientInventory = errors.New("not enough inventory")
	ErrOutOfRange            = errors.New("store is out of range")
)

// Order is one purchase of a single product at a single store.
type Order struct {
	Number      int       `json:"order_number"`
	CustomerID  int       `json:"customer_id"`
	StoreID     int       `json:"store_id"`
	ProductName string    `json:"product_name"`
	Units       int       `json:"units"`
	OrderTime   time.Time `json:"order_time"`
}

// PlaceOrderRequest holds the product and quantity a customer wants.
type PlaceOrderRequest struct {
	StoreID     int    `json:"store_id"`
	ProductName string `json:"product_name"`
	Units       int    `json:"units"`
}

// Receipt reports a placed order and what it cost.
type Receipt struct {
	Order          *Order          `json:"order"`
	StoreName      string          `json:"store_name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Total          decimal.Decimal `json:"total"`
	RemainingUnits int             `json:"remaining_units"`
}

// RecentOrder is an order joined with its store's name.
type RecentOrder struct {
	*Order
	StoreName string `json:"store_name"`
}
