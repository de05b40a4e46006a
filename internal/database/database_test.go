package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/kobe-cb/retail/internal/database"
	"github.com/kobe-cb/retail/internal/database/dbtest"
)

func TestWithTxCommitsOnSuccess(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO warehouse (warehouseid, area) VALUES ($1, $2)`, 1, "North")
		return err
	})
	if err != nil {
		t.Fatalf("with tx: %v", err)
	}
	if n := dbtest.Count(t, db, "FROM warehouse"); n != 1 {
		t.Fatalf("expected 1 warehouse, got %d", n)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO warehouse (warehouseid, area) VALUES ($1, $2)`, 1, "North"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n := dbtest.Count(t, db, "FROM warehouse"); n != 0 {
		t.Fatalf("expected rollback, found %d warehouses", n)
	}
}
