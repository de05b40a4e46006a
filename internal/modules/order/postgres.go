package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kobe-cb/retail/internal/database"
	"github.com/kobe-cb/retail/internal/modules/auth"
	"github.com/kobe-cb/retail/internal/sequence"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) PlaceOrder(ctx context.Context, o *Order) (decimal.Decimal, int, error) {
	var price decimal.Decimal
	var remaining int
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var available int
		err := tx.QueryRowContext(ctx, `
SELECT numberofunits,priceperunit FROM product
WHERE storeid=$1 AND productname=$2`, o.StoreID, o.ProductName).Scan(&available, &price)
		if errors.Is(err, sql.ErrNoRows) {
			return auth.ErrProductNotAtStore
		}
		if err != nil {
			return fmt.Errorf("read inventory: %w", err)
		}
		if o.Units > available {
			return fmt.Errorf("%w: %d < %d", ErrInsufficientInventory, available, o.Units)
		}

		left, err := takeUnits(ctx, tx, o.StoreID, o.ProductName, o.Units)
		if err != nil {
			return err
		}

		number, err := sequence.Next(ctx, tx, sequence.Orders)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
INSERT INTO orders (ordernumber,customerid,storeid,productname,unitsordered,ordertime)
VALUES ($1,$2,$3,$4,$5,$6)`,
			number, o.CustomerID, o.StoreID, o.ProductName, o.Units, o.OrderTime)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		o.Number = number
		remaining = left
		return nil
	})
	if err != nil {
		return decimal.Zero, 0, err
	}
	return price, remaining, nil
}

// takeUnits decrements a product only while enough stock remains.
func takeUnits(ctx context.Context, q database.DBTX, storeID int, name string, units int) (int, error) {
	res, err := q.ExecContext(ctx, `
UPDATE product SET numberofunits=numberofunits-$1
WHERE storeid=$2 AND productname=$3 AND numberofunits>=$1`, units, storeID, name)
	if err != nil {
		return 0, fmt.Errorf("decrement inventory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("decrement inventory: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: fewer than %d left", ErrInsufficientInventory, units)
	}

	var left int
	err = q.QueryRowContext(ctx, `
SELECT numberofunits FROM product WHERE storeid=$1 AND productname=$2`, storeID, name).Scan(&left)
	if err != nil {
		return 0, fmt.Errorf("read inventory: %w", err)
	}
	return left, nil
}

func (r *postgresRepo) ListRecentOrders(ctx context.Context, customerID, limit int) ([]*RecentOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT o.ordernumber, o.customerid, o.storeid, o.productname, o.unitsordered, o.ordertime, s.name
FROM orders o
JOIN store s ON s.storeid = o.storeid
WHERE o.customerid=$1
ORDER BY o.ordertime DESC, o.ordernumber DESC
LIMIT $2`, customerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*RecentOrder
	for rows.Next() {
		ro := &RecentOrder{Order: &Order{}}
		if err := rows.Scan(&ro.Number, &ro.CustomerID, &ro.StoreID, &ro.ProductName,
			&ro.Units, &ro.OrderTime, &ro.StoreName); err != nil {
			return nil, err
		}
		ro.ProductName = strings.TrimRight(ro.ProductName, " ")
		ro.StoreName = strings.TrimSpace(ro.StoreName)
		orders = append(orders, ro)
	}
	return orders, rows.Err()
}
