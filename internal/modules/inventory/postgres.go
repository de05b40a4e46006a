package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kobe-cb/retail/internal/database"
	"github.com/kobe-cb/retail/internal/modules/auth"
	"github.com/kobe-cb/retail/internal/sequence"
)

// ---- Store ----

type storePostgres struct{ db *sql.DB }

func NewStorePostgresRepository(db *sql.DB) StoreRepository { return &storePostgres{db: db} }

func (r *storePostgres) GetStoreByID(ctx context.Context, id int) (*Store, error) {
	s := &Store{}
	err := r.db.QueryRowContext(ctx, `
SELECT storeid,name,latitude,longitude,managerid
FROM store WHERE storeid=$1`, id).
		Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.ManagerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrStoreNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	s.Name = strings.TrimSpace(s.Name)
	return s, nil
}

func (r *storePostgres) ListStores(ctx context.Context) ([]*Store, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT storeid,name,latitude,longitude,managerid
FROM store ORDER BY storeid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var stores []*Store
	for rows.Next() {
		s := &Store{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.ManagerID); err != nil {
			return nil, err
		}
		s.Name = strings.TrimSpace(s.Name)
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *storePostgres) IsStoreManagedBy(ctx context.Context, storeID, managerID int) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM store WHERE storeid=$1 AND managerid=$2`, storeID, managerID).Scan(&n)
	return n > 0, err
}

// ---- Product ----

type productPostgres struct{ db *sql.DB }

func NewProductPostgresRepository(db *sql.DB) ProductRepository { return &productPostgres{db: db} }

func (r *productPostgres) GetProduct(ctx context.Context, storeID int, name string) (*Product, error) {
	return getProduct(ctx, r.db, storeID, name)
}

func (r *productPostgres) ListProducts(ctx context.Context, storeID int) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT storeid,productname,numberofunits,priceperunit
FROM product WHERE storeid=$1 ORDER BY productname`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []*Product
	for rows.Next() {
		p := &Product{}
		if err := rows.Scan(&p.StoreID, &p.Name, &p.Units, &p.PricePerUnit); err != nil {
			return nil, err
		}
		p.Name = strings.TrimRight(p.Name, " ")
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productPostgres) ProductExists(ctx context.Context, storeID int, name string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM product WHERE storeid=$1 AND productname=$2`, storeID, name).Scan(&n)
	return n > 0, err
}

func (r *productPostgres) UpdateProduct(ctx context.Context, storeID int, name string, patch ProductPatch, audit *ProductUpdate) (*Product, error) {
	var sets []string
	var args []interface{}
	if patch.Units != nil {
		args = append(args, *patch.Units)
		sets = append(sets, fmt.Sprintf("numberofunits=$%d", len(args)))
	}
	if patch.PricePerUnit != nil {
		args = append(args, *patch.PricePerUnit)
		sets = append(sets, fmt.Sprintf("priceperunit=$%d", len(args)))
	}
	if len(sets) == 0 {
		return nil, ErrNoChanges
	}
	args = append(args, storeID, name)
	query := fmt.Sprintf(`UPDATE product SET %s WHERE storeid=$%d AND productname=$%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))

	var p *Product
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return auth.ErrProductNotAtStore
		}
		if audit != nil {
			if err := insertUpdate(ctx, tx, audit); err != nil {
				return err
			}
		}
		p, err = getProduct(ctx, tx, storeID, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productPostgres) ListRecentUpdates(ctx context.Context, managerID, limit int) ([]*ProductUpdate, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT updatenumber,managerid,storeid,productname,updatedon
FROM productupdates WHERE managerid=$1
ORDER BY updatedon DESC, updatenumber DESC LIMIT $2`, managerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var updates []*ProductUpdate
	for rows.Next() {
		u := &ProductUpdate{}
		if err := rows.Scan(&u.Number, &u.ManagerID, &u.StoreID, &u.ProductName, &u.UpdatedOn); err != nil {
			return nil, err
		}
		u.ProductName = strings.TrimRight(u.ProductName, " ")
		updates = append(updates, u)
	}
	return updates, rows.Err()
}

// ---- Supply ----

type supplyPostgres struct{ db *sql.DB }

func NewSupplyPostgresRepository(db *sql.DB) SupplyRepository { return &supplyPostgres{db: db} }

func (r *supplyPostgres) WarehouseExists(ctx context.Context, id int) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM warehouse WHERE warehouseid=$1`, id).Scan(&n)
	return n > 0, err
}

func (r *supplyPostgres) PlaceSupplyRequest(ctx context.Context, req *SupplyRequest, grant int, audit *ProductUpdate) (*Product, error) {
	var p *Product
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		number, err := sequence.Next(ctx, tx, sequence.SupplyRequests)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
INSERT INTO productsupplyrequests (requestnumber,managerid,warehouseid,storeid,productname,unitsrequested)
VALUES ($1,$2,$3,$4,$5,$6)`,
			number, req.ManagerID, req.WarehouseID, req.StoreID, req.ProductName, req.UnitsRequested)
		if err != nil {
			return fmt.Errorf("insert supply request: %w", err)
		}
		req.Number = number

		if grant > 0 {
			res, err := tx.ExecContext(ctx,
				`UPDATE product SET numberofunits=numberofunits+$1 WHERE storeid=$2 AND productname=$3`,
				grant, req.StoreID, req.ProductName)
			if err != nil {
				return fmt.Errorf("restock product: %w", err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return auth.ErrProductNotAtStore
			}
			if audit != nil {
				if err := insertUpdate(ctx, tx, audit); err != nil {
					return err
				}
			}
		}

		p, err = getProduct(ctx, tx, req.StoreID, req.ProductName)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ---- Reports ----

type reportPostgres struct{ db *sql.DB }

func NewReportPostgresRepository(db *sql.DB) ReportRepository { return &reportPostgres{db: db} }

func (r *reportPostgres) PopularProducts(ctx context.Context, managerID, limit int) ([]*PopularProduct, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT o.storeid, o.productname, COUNT(*) AS ordercount, SUM(o.unitsordered) AS units
FROM orders o
JOIN store s ON s.storeid = o.storeid
WHERE s.managerid=$1
GROUP BY o.storeid, o.productname
ORDER BY ordercount DESC, units DESC, o.storeid, o.productname
LIMIT $2`, managerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []*PopularProduct
	for rows.Next() {
		p := &PopularProduct{}
		if err := rows.Scan(&p.StoreID, &p.ProductName, &p.OrderCount, &p.UnitsOrdered); err != nil {
			return nil, err
		}
		p.ProductName = strings.TrimRight(p.ProductName, " ")
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *reportPostgres) PopularCustomers(ctx context.Context, managerID, limit int) ([]*PopularCustomer, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT o.customerid, u.name, COUNT(*) AS ordercount
FROM orders o
JOIN store s ON s.storeid = o.storeid
JOIN users u ON u.userid = o.customerid
WHERE s.managerid=$1
GROUP BY o.customerid, u.name
ORDER BY ordercount DESC, o.customerid
LIMIT $2`, managerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var customers []*PopularCustomer
	for rows.Next() {
		c := &PopularCustomer{}
		if err := rows.Scan(&c.CustomerID, &c.Name, &c.OrderCount); err != nil {
			return nil, err
		}
		c.Name = strings.TrimSpace(c.Name)
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// ---- helpers ----

func getProduct(ctx context.Context, q database.DBTX, storeID int, name string) (*Product, error) {
	p := &Product{}
	err := q.QueryRowContext(ctx, `
SELECT storeid,productname,numberofunits,priceperunit
FROM product WHERE storeid=$1 AND productname=$2`, storeID, name).
		Scan(&p.StoreID, &p.Name, &p.Units, &p.PricePerUnit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrProductNotAtStore
	}
	if err != nil {
		return nil, err
	}
	p.Name = strings.TrimRight(p.Name, " ")
	return p, nil
}

// insertUpdate allocates the next update number and appends audit.
func insertUpdate(ctx context.Context, tx *sql.Tx, audit *ProductUpdate) error {
	number, err := sequence.Next(ctx, tx, sequence.ProductUpdates)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO productupdates (updatenumber,managerid,storeid,productname,updatedon)
VALUES ($1,$2,$3,$4,$5)`,
		number, audit.ManagerID, audit.StoreID, audit.ProductName, audit.UpdatedOn)
	if err != nil {
		return fmt.Errorf("insert product update: %w", err)
	}
	audit.Number = number
	return nil
}
