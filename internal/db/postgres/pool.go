// Package postgres implements the db port over pgx. Unlike the MySQL adapter,
// booleans bind natively and ExecReturningLastInsertID expects a RETURNING clause.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/and161185/wzs-web/internal/config"
	"github.com/and161185/wzs-web/internal/errs"
)

// PgxPool is the subset of a connection pool the adapter needs.
// It is implemented by *pgxpool.Pool and pgxmock.PgxPoolIface.
type PgxPool interface {
	// Exec executes a SQL command and returns the command tag.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	// Query executes a SELECT and returns a rows iterator.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	// QueryRow executes a query expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	// Close shuts down the pool and frees resources.
	Close()
}

// Open creates a pool for cfg.URL, capped at cfg.MaxConnections, and pings it.
func Open(ctx context.Context, cfg config.DB) (*pgxpool.Pool, error) {
	if !cfg.Valid() {
		return nil, fmt.Errorf("%w: DATABASE_URL is not set", errs.ErrConfig)
	}
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: DATABASE_URL: %v", errs.ErrConfig, err)
	}
	if cfg.MaxConnections > 0 {
		pc.MaxConns = int32(cfg.MaxConnections)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgx ping: %w", err)
	}
	return pool, nil
}
