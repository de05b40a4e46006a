package inventory

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kobe-cb/retail/internal/config"
	"github.com/kobe-cb/retail/internal/database/dbtest"
	"github.com/kobe-cb/retail/internal/modules/auth"
	"github.com/kobe-cb/retail/internal/modules/user"
)

var (
	mia   = &auth.Session{UserID: 2, Name: "mia", Role: user.RoleManager}
	rival = &auth.Session{UserID: 3, Name: "max", Role: user.RoleManager}
	cara  = &auth.Session{UserID: 4, Name: "cara", Role: user.RoleCustomer}

	fixedNow = time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)
)

func newTestService(t *testing.T, opts Options) (Service, *sql.DB) {
	t.Helper()
	db := dbtest.Open(t)
	dbtest.Seed(t, db)

	users := user.NewPostgresRepository(db)
	stores := NewStorePostgresRepository(db)
	products := NewProductPostgresRepository(db)
	if opts.Radius == 0 {
		opts.Radius = 30
	}
	opts.Now = func() time.Time { return fixedNow }
	svc := NewService(users, stores, products,
		NewSupplyPostgresRepository(db), NewReportPostgresRepository(db),
		auth.NewChecker(users, stores, products), opts)
	return svc, db
}

func unitsOf(t *testing.T, db *sql.DB, storeID int, name string) int {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT numberofunits FROM product WHERE storeid=$1 AND productname=$2`, storeID, name).Scan(&n)
	if err != nil {
		t.Fatalf("read units: %v", err)
	}
	return n
}

func intPtr(n int) *int { return &n }

func TestStoresWithinRange(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		sess   *auth.Session
		want   []string
	}{
		{"default radius", 30, cara, []string{"Downtown"}},
		{"wider radius sorted nearest first", 50, cara, []string{"Downtown", "Uptown"}},
		{"manager coordinates", 30, mia, []string{"Downtown"}},
		{"nothing near", 30, &auth.Session{UserID: 5, Role: user.RoleCustomer}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, Options{Radius: tt.radius})
			got, err := svc.StoresWithinRange(context.Background(), tt.sess)
			if err != nil {
				t.Fatalf("stores within range: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %d stores", tt.want, len(got))
			}
			for i, name := range tt.want {
				if got[i].Name != name {
					t.Fatalf("store %d: expected %s, got %s", i, name, got[i].Name)
				}
				if got[i].Distance > tt.radius {
					t.Fatalf("store %s is %v away, beyond %v", got[i].Name, got[i].Distance, tt.radius)
				}
			}
		})
	}

	svc, _ := newTestService(t, Options{})
	if _, err := svc.StoresWithinRange(context.Background(), nil); !errors.Is(err, auth.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestListProducts(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	products, err := svc.ListProducts(ctx, 1)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 2 || products[0].Name != "7up" || products[1].Name != "Brisk" {
		t.Fatalf("unexpected products: %+v", products)
	}
	if !products[0].PricePerUnit.Equal(decimal.NewFromInt(3)) || products[0].Units != 50 {
		t.Fatalf("unexpected 7up row: %+v", products[0])
	}

	if _, err := svc.ListProducts(ctx, 99); !errors.Is(err, ErrStoreNotFound) {
		t.Fatalf("expected ErrStoreNotFound, got %v", err)
	}
}

func TestUpdateProductAppliesPatchAndAudits(t *testing.T) {
	svc, db := newTestService(t, Options{})
	ctx := context.Background()

	price := decimal.NewFromInt(5)
	p, err := svc.UpdateProduct(ctx, mia, UpdateProductRequest{
		StoreID:     1,
		ProductName: "7up",
		Patch:       ProductPatch{Units: intPtr(7), PricePerUnit: &price},
	})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if p.Units != 7 || !p.PricePerUnit.Equal(price) {
		t.Fatalf("unexpected product after update: %+v", p)
	}

	if n := dbtest.Count(t, db, "FROM productupdates"); n != 2 {
		t.Fatalf("expected 2 audit rows, got %d", n)
	}
	if n := dbtest.Count(t, db, "FROM productupdates WHERE updatenumber=8 AND managerid=2 AND storeid=1 AND productname='7up'"); n != 1 {
		t.Fatalf("expected audit row 8 for mia")
	}

	updates, err := svc.RecentUpdates(ctx, mia)
	if err != nil {
		t.Fatalf("recent updates: %v", err)
	}
	if len(updates) != 2 || updates[0].Number != 8 || !updates[0].UpdatedOn.Equal(fixedNow) {
		t.Fatalf("expected newest update first, got %+v", updates)
	}
}

func TestUpdateProductOnlyTouchesPatchedColumns(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	p, err := svc.UpdateProduct(context.Background(), mia, UpdateProductRequest{
		StoreID:     1,
		ProductName: "Brisk",
		Patch:       ProductPatch{Units: intPtr(0)},
	})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if p.Units != 0 || !p.PricePerUnit.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("unexpected product: %+v", p)
	}
}

func TestUpdateProductRejections(t *testing.T) {
	negative := decimal.NewFromInt(-1)
	tests := []struct {
		name string
		sess *auth.Session
		req  UpdateProductRequest
		want error
	}{
		{"not logged in", nil, UpdateProductRequest{StoreID: 1, ProductName: "7up", Patch: ProductPatch{Units: intPtr(1)}}, auth.ErrNotAuthenticated},
		{"customer", cara, UpdateProductRequest{StoreID: 1, ProductName: "7up", Patch: ProductPatch{Units: intPtr(1)}}, auth.ErrNotManager},
		{"foreign store", rival, UpdateProductRequest{StoreID: 1, ProductName: "7up", Patch: ProductPatch{Units: intPtr(1)}}, auth.ErrNotStoreManager},
		{"missing store", mia, UpdateProductRequest{StoreID: 99, ProductName: "7up", Patch: ProductPatch{Units: intPtr(1)}}, auth.ErrNotStoreManager},
		{"name is case sensitive", mia, UpdateProductRequest{StoreID: 1, ProductName: "7UP", Patch: ProductPatch{Units: intPtr(1)}}, auth.ErrProductNotAtStore},
		{"empty patch", mia, UpdateProductRequest{StoreID: 1, ProductName: "7up"}, ErrNoChanges},
		{"negative units", mia, UpdateProductRequest{StoreID: 1, ProductName: "7up", Patch: ProductPatch{Units: intPtr(-3)}}, ErrInvalidPatch},
		{"negative price", mia, UpdateProductRequest{StoreID: 1, ProductName: "7up", Patch: ProductPatch{PricePerUnit: &negative}}, ErrInvalidPatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := newTestService(t, Options{})
			if _, err := svc.UpdateProduct(context.Background(), tt.sess, tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if n := unitsOf(t, db, 1, "7up"); n != 50 {
				t.Fatalf("product changed to %d units", n)
			}
			if n := dbtest.Count(t, db, "FROM productupdates"); n != 1 {
				t.Fatalf("expected no new audit rows, got %d", n)
			}
		})
	}
}

func TestManagedProduct(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	p, err := svc.ManagedProduct(ctx, mia, 2, "7up")
	if err != nil {
		t.Fatalf("managed product: %v", err)
	}
	if p.Units != 5 || !p.PricePerUnit.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("unexpected product: %+v", p)
	}
	if _, err := svc.ManagedProduct(ctx, rival, 2, "7up"); !errors.Is(err, auth.ErrNotStoreManager) {
		t.Fatalf("expected ErrNotStoreManager, got %v", err)
	}
}

func TestSupplyRequestGrantsRequestedUnits(t *testing.T) {
	svc, db := newTestService(t, Options{SupplyPolicy: config.GrantRequested})

	receipt, err := svc.PlaceSupplyRequest(context.Background(), mia, SupplyRequestInput{
		StoreID: 1, ProductName: "Brisk", WarehouseID: 1, Units: 5,
	})
	if err != nil {
		t.Fatalf("supply request: %v", err)
	}
	if receipt.Request.Number != 4 || receipt.UnitsGranted != 5 || receipt.Product.Units != 15 {
		t.Fatalf("unexpected receipt: request %+v granted %d product %+v", receipt.Request, receipt.UnitsGranted, receipt.Product)
	}
	if n := unitsOf(t, db, 1, "Brisk"); n != 15 {
		t.Fatalf("expected 15 units, got %d", n)
	}
	if n := dbtest.Count(t, db, "FROM productsupplyrequests WHERE requestnumber=4 AND unitsrequested=5 AND managerid=2"); n != 1 {
		t.Fatalf("expected one request row, got %d", n)
	}
	if n := dbtest.Count(t, db, "FROM productupdates WHERE updatenumber=8 AND productname='Brisk'"); n != 1 {
		t.Fatalf("expected one audit row, got %d", n)
	}
}

func TestSupplyRequestDeferredLeavesInventory(t *testing.T) {
	svc, db := newTestService(t, Options{SupplyPolicy: config.GrantDeferred})

	receipt, err := svc.PlaceSupplyRequest(context.Background(), mia, SupplyRequestInput{
		StoreID: 1, ProductName: "Brisk", WarehouseID: 2, Units: 8,
	})
	if err != nil {
		t.Fatalf("supply request: %v", err)
	}
	if receipt.UnitsGranted != 0 || receipt.Product.Units != 10 {
		t.Fatalf("unexpected receipt: granted %d product %+v", receipt.UnitsGranted, receipt.Product)
	}
	if n := dbtest.Count(t, db, "FROM productsupplyrequests WHERE unitsrequested=8"); n != 1 {
		t.Fatalf("expected the request to be recorded")
	}
	if n := dbtest.Count(t, db, "FROM productupdates"); n != 1 {
		t.Fatalf("deferred grant must not audit, got %d rows", n)
	}
}

func TestSupplyRequestRejections(t *testing.T) {
	tests := []struct {
		name string
		sess *auth.Session
		in   SupplyRequestInput
		want error
	}{
		{"customer", cara, SupplyRequestInput{StoreID: 1, ProductName: "Brisk", WarehouseID: 1, Units: 5}, auth.ErrNotManager},
		{"foreign store", rival, SupplyRequestInput{StoreID: 1, ProductName: "Brisk", WarehouseID: 1, Units: 5}, auth.ErrNotStoreManager},
		{"unknown product", mia, SupplyRequestInput{StoreID: 1, ProductName: "Pepsi", WarehouseID: 1, Units: 5}, auth.ErrProductNotAtStore},
		{"zero units", mia, SupplyRequestInput{StoreID: 1, ProductName: "Brisk", WarehouseID: 1, Units: 0}, ErrInvalidUnits},
		{"unknown warehouse", mia, SupplyRequestInput{StoreID: 1, ProductName: "Brisk", WarehouseID: 9, Units: 5}, ErrWarehouseNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := newTestService(t, Options{})
			if _, err := svc.PlaceSupplyRequest(context.Background(), tt.sess, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if n := dbtest.Count(t, db, "FROM productsupplyrequests"); n != 1 {
				t.Fatalf("expected no new request rows, got %d", n)
			}
			if n := unitsOf(t, db, 1, "Brisk"); n != 10 {
				t.Fatalf("inventory changed to %d", n)
			}
		})
	}
}

func TestRecentUpdatesManagerOnly(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	updates, err := svc.RecentUpdates(ctx, mia)
	if err != nil {
		t.Fatalf("recent updates: %v", err)
	}
	if len(updates) != 1 || updates[0].Number != 7 || updates[0].ProductName != "7up" {
		t.Fatalf("unexpected updates: %+v", updates)
	}

	none, err := svc.RecentUpdates(ctx, rival)
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no updates for max, got %v %v", none, err)
	}

	if _, err := svc.RecentUpdates(ctx, cara); !errors.Is(err, auth.ErrNotManager) {
		t.Fatalf("expected ErrNotManager, got %v", err)
	}
}

func TestRecentUpdatesLimit(t *testing.T) {
	svc, _ := newTestService(t, Options{RecentLimit: 2})
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := svc.UpdateProduct(ctx, mia, UpdateProductRequest{StoreID: 2, ProductName: "7up", Patch: ProductPatch{Units: intPtr(i)}}); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}
	updates, err := svc.RecentUpdates(ctx, mia)
	if err != nil {
		t.Fatalf("recent updates: %v", err)
	}
	if len(updates) != 2 || updates[0].Number != 10 || updates[1].Number != 9 {
		t.Fatalf("expected updates 10 and 9, got %+v", updates)
	}
}

func TestPopularReports(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	products, err := svc.PopularProducts(ctx, mia)
	if err != nil {
		t.Fatalf("popular products: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %+v", products)
	}
	if products[0].ProductName != "7up" || products[0].OrderCount != 3 || products[0].UnitsOrdered != 6 {
		t.Fatalf("unexpected top product: %+v", products[0])
	}
	if products[1].ProductName != "Brisk" || products[1].OrderCount != 1 {
		t.Fatalf("unexpected second product: %+v", products[1])
	}

	customers, err := svc.PopularCustomers(ctx, mia)
	if err != nil {
		t.Fatalf("popular customers: %v", err)
	}
	if len(customers) != 2 || customers[0].CustomerID != 4 || customers[0].Name != "cara" || customers[0].OrderCount != 3 {
		t.Fatalf("unexpected customers: %+v", customers)
	}

	empty, err := svc.PopularProducts(ctx, rival)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected no orders at max's store, got %v %v", empty, err)
	}

	if _, err := svc.PopularCustomers(ctx, cara); !errors.Is(err, auth.ErrNotManager) {
		t.Fatalf("expected ErrNotManager, got %v", err)
	}
}
