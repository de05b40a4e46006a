package sequence

import (
	"context"
	"testing"
	"time"

	"github.com/kobe-cb/retail/internal/database/dbtest"
)

func TestNextOnEmptyTables(t *testing.T) {
	db := dbtest.Open(t)
	for _, c := range []Counter{Orders, ProductUpdates, SupplyRequests} {
		got, err := Next(context.Background(), db, c)
		if err != nil {
			t.Fatalf("%s: %v", c.Table, err)
		}
		if got != 1 {
			t.Fatalf("%s: expected 1 on empty table, got %d", c.Table, got)
		}
	}
}

func TestNextFollowsMaximum(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Seed(t, db)

	cases := []struct {
		counter Counter
		want    int
	}{
		{Orders, 41},
		{ProductUpdates, 8},
		{SupplyRequests, 4},
	}
	for _, tc := range cases {
		got, err := Next(context.Background(), db, tc.counter)
		if err != nil {
			t.Fatalf("%s: %v", tc.counter.Table, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.counter.Table, tc.want, got)
		}
	}
}

func TestNextDoesNotReserve(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Seed(t, db)
	ctx := context.Background()

	first, err := Next(ctx, db, Orders)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := Next(ctx, db, Orders)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first != second {
		t.Fatalf("expected the same value twice, got %d and %d", first, second)
	}

	dbtest.Exec(t, db, `INSERT INTO orders (ordernumber, customerid, storeid, productname, unitsordered, ordertime)
		VALUES ($1, 4, 1, '7up', 1, $2)`, first, time.Now())
	third, err := Next(ctx, db, Orders)
	if err != nil {
		t.Fatalf("third: %v", err)
	}
	if third != first+1 {
		t.Fatalf("expected %d after insert, got %d", first+1, third)
	}
}

func TestCountersAreIndependent(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Exec(t, db, `INSERT INTO productupdates (updatenumber, managerid, storeid, productname, updatedon)
		VALUES (99, 2, 1, '7up', $1)`, time.Now())

	orders, err := Next(context.Background(), db, Orders)
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	updates, err := Next(context.Background(), db, ProductUpdates)
	if err != nil {
		t.Fatalf("updates: %v", err)
	}
	if orders != 1 || updates != 100 {
		t.Fatalf("expected 1 and 100, got %d and %d", orders, updates)
	}
}
