// Package sequence allocates keys for the append-only tables. The schema has
// no native sequences for them, so the next key is the current maximum plus
// one. The value is not reserved: callers must insert it inside the same
// transaction that read it, and concurrent writers can still collide on the
// primary key.
package sequence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kobe-cb/retail/internal/database"
)

// Counter names the key column of one append-only table.
type Counter struct {
	Table  string
	Column string
}

var (
	Orders         = Counter{Table: "orders", Column: "ordernumber"}
	ProductUpdates = Counter{Table: "productupdates", Column: "updatenumber"}
	SupplyRequests = Counter{Table: "productsupplyrequests", Column: "requestnumber"}
)

// Next returns the key the next row of c should use. An empty table starts at 1.
func Next(ctx context.Context, q database.DBTX, c Counter) (int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC LIMIT 1`, c.Column, c.Table, c.Column)

	var current int
	err := q.QueryRowContext(ctx, query).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("next %s.%s: %w", c.Table, c.Column, err)
	}
	return current + 1, nil
}
