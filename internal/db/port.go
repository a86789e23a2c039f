// Package db defines a backend-neutral, synchronous database port: typed
// parameters and values, ordered rows with typed accessors, and the DB capability.
// Adapters live in subpackages.
package db

import "context"

// DB executes parameterized SQL. Placeholders are positional and params bind
// in the order given. Calls block until the statement finishes; the context
// carries values only and does not cancel an operation once started.
type DB interface {
	// FetchOne returns the first row, or nil when the result is empty.
	FetchOne(ctx context.Context, sql string, params ...Param) (*Row, error)
	// FetchAll returns every row in driver order.
	FetchAll(ctx context.Context, sql string, params ...Param) ([]*Row, error)
	// Exec runs a write statement and returns the affected row count.
	Exec(ctx context.Context, sql string, params ...Param) (uint64, error)
	// ExecReturningLastInsertID runs an insert and returns the id it generated
	// on the same connection.
	ExecReturningLastInsertID(ctx context.Context, sql string, params ...Param) (uint64, error)
}
