package order

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines data access for orders.
type Repository interface {
	// PlaceOrder checks inventory, decrements it only while enough stock
	// remains, allocates the next order number and inserts o in one
	// transaction. It fills o.Number and returns the unit price and the units
	// left afterwards.
	PlaceOrder(ctx context.Context, o *Order) (unitPrice decimal.Decimal, remaining int, err error)

	// ListRecentOrders returns a customer's newest orders first.
	ListRecentOrders(ctx context.Context, customerID, limit int) ([]*RecentOrder, error)
}
