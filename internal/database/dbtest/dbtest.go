// Package dbtest provides throwaway SQLite databases that mirror the retail
// schema for package tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/kobe-cb/retail/internal/config"
	"github.com/kobe-cb/retail/internal/database"
)

const schema = `
CREATE TABLE users (
	userid    INTEGER PRIMARY KEY,
	name      TEXT NOT NULL,
	password  TEXT NOT NULL,
	latitude  REAL NOT NULL,
	longitude REAL NOT NULL,
	type      TEXT NOT NULL
);
CREATE TABLE store (
	storeid         INTEGER PRIMARY KEY,
	name            TEXT NOT NULL,
	latitude        REAL NOT NULL,
	longitude       REAL NOT NULL,
	managerid       INTEGER NOT NULL REFERENCES users(userid),
	dateestablished TIMESTAMP
);
CREATE TABLE product (
	storeid       INTEGER NOT NULL REFERENCES store(storeid),
	productname   TEXT NOT NULL,
	numberofunits INTEGER NOT NULL,
	priceperunit  INTEGER NOT NULL,
	PRIMARY KEY (storeid, productname)
);
CREATE TABLE warehouse (
	warehouseid INTEGER PRIMARY KEY,
	area        TEXT,
	latitude    REAL,
	longitude   REAL
);
CREATE TABLE orders (
	ordernumber  INTEGER PRIMARY KEY,
	customerid   INTEGER NOT NULL,
	storeid      INTEGER NOT NULL,
	productname  TEXT NOT NULL,
	unitsordered INTEGER NOT NULL,
	ordertime    TIMESTAMP NOT NULL
);
CREATE TABLE productupdates (
	updatenumber INTEGER PRIMARY KEY,
	managerid    INTEGER NOT NULL,
	storeid      INTEGER NOT NULL,
	productname  TEXT NOT NULL,
	updatedon    TIMESTAMP NOT NULL
);
CREATE TABLE productsupplyrequests (
	requestnumber  INTEGER PRIMARY KEY,
	managerid      INTEGER NOT NULL,
	warehouseid    INTEGER NOT NULL,
	storeid        INTEGER NOT NULL,
	productname    TEXT NOT NULL,
	unitsrequested INTEGER NOT NULL
);
`

// Open creates a fresh database file under t.TempDir with the retail schema.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "retail.db")
	db, err := database.Open(context.Background(), config.DB{Driver: "sqlite", Name: path})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

// Exec runs a fixture statement and fails the test on error.
func Exec(t testing.TB, db *sql.DB, query string, args ...interface{}) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

// Count returns SELECT COUNT(*) for the given query tail, e.g. "FROM orders".
func Count(t testing.TB, db *sql.DB, tail string, args ...interface{}) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) "+tail, args...).Scan(&n); err != nil {
		t.Fatalf("count %q: %v", tail, err)
	}
	return n
}

// Seed loads a small fixture: one admin, two managers, two customers, three
// stores, a handful of products, two warehouses and some history rows.
//
//	users:  1 admin (0,0)  2 manager "mia" (10,10)  3 manager "max" (90,90)
//	        4 customer "cara" (0,0)  5 customer "cole" (50,50)
//	store:  1 "Downtown" (20,0) mgr 2   2 "Uptown" (40,0) mgr 2   3 "Far" (90,90) mgr 3
func Seed(t testing.TB, db *sql.DB) {
	t.Helper()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	Exec(t, db, `INSERT INTO users (userid, name, password, latitude, longitude, type) VALUES
		(1, 'ada', 'adminpw', 0, 0, 'admin'),
		(2, 'mia', 'managerpw', 10, 10, 'manager '),
		(3, 'max', 'managerpw', 90, 90, 'manager'),
		(4, 'cara', 'customerpw', 0, 0, 'customer'),
		(5, 'cole', 'customerpw', 50, 50, 'customer')`)
	Exec(t, db, `INSERT INTO store (storeid, name, latitude, longitude, managerid) VALUES
		(1, 'Downtown', 20, 0, 2),
		(2, 'Uptown', 40, 0, 2),
		(3, 'Far', 90, 90, 3)`)
	Exec(t, db, `INSERT INTO product (storeid, productname, numberofunits, priceperunit) VALUES
		(1, '7up', 50, 3),
		(1, 'Brisk', 10, 2),
		(2, '7up', 5, 4),
		(3, 'Pepsi', 20, 1)`)
	Exec(t, db, `INSERT INTO warehouse (warehouseid, area, latitude, longitude) VALUES
		(1, 'North', 5, 5),
		(2, 'South', 80, 80)`)
	for i := 1; i <= 3; i++ {
		Exec(t, db, `INSERT INTO orders (ordernumber, customerid, storeid, productname, unitsordered, ordertime)
			VALUES ($1, $2, $3, $4, $5, $6)`, i*10, 4, 1, "7up", i, base.Add(time.Duration(i)*time.Hour))
	}
	Exec(t, db, `INSERT INTO orders (ordernumber, customerid, storeid, productname, unitsordered, ordertime)
		VALUES ($1, $2, $3, $4, $5, $6)`, 40, 5, 1, "Brisk", 1, base)
	Exec(t, db, `INSERT INTO productupdates (updatenumber, managerid, storeid, productname, updatedon)
		VALUES ($1, $2, $3, $4, $5)`, 7, 2, 1, "7up", base)
	Exec(t, db, `INSERT INTO productsupplyrequests (requestnumber, managerid, warehouseid, storeid, productname, unitsrequested)
		VALUES ($1, $2, $3, $4, $5, $6)`, 3, 2, 1, 1, "Brisk", 5)
}
