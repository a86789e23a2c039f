// Package mysql implements the db port over database/sql and go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/and161185/wzs-web/internal/db"
)

const whoWhereSQL = "SELECT CURRENT_USER(), USER(), DATABASE(), @@hostname"

var errNoInsertID = errors.New("missing last insert id")

// Adapter implements db.DB. Each call acquires its own connection from the
// shared pool and releases it before returning.
type Adapter struct {
	pool  *sql.DB
	log   *zap.Logger
	debug func() bool
}

var _ db.DB = (*Adapter)(nil)

// New wraps an open pool. A nil logger discards output.
func New(pool *sql.DB, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{pool: pool, log: log, debug: db.Debug}
}

// Close closes the underlying pool.
func (a *Adapter) Close() error { return a.pool.Close() }

// FetchOne returns the first row, or nil when the statement yields none.
func (a *Adapter) FetchOne(ctx context.Context, query string, params ...db.Param) (*db.Row, error) {
	rows, err := a.query(ctx, "fetch_one", query, params, 1)
	if err != nil {
		return nil, err
	}
	a.debugf("fetch_one done", zap.Bool("row_present", len(rows) > 0))
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// FetchAll returns every row in driver order.
func (a *Adapter) FetchAll(ctx context.Context, query string, params ...db.Param) ([]*db.Row, error) {
	rows, err := a.query(ctx, "fetch_all", query, params, 0)
	if err != nil {
		return nil, err
	}
	a.debugf("fetch_all done", zap.Int("rows", len(rows)))
	return rows, nil
}

// Exec runs a write statement and returns the affected row count.
func (a *Adapter) Exec(ctx context.Context, query string, params ...db.Param) (uint64, error) {
	res, err := a.exec(ctx, "exec", query, params)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, a.fail("exec", err)
	}
	a.debugf("exec done", zap.Int64("affected_rows", n))
	return uint64(n), nil
}

// ExecReturningLastInsertID runs an insert and returns LAST_INSERT_ID() of
// the connection that executed it. Zero means the table has no
// AUTO_INCREMENT column and is returned as is.
func (a *Adapter) ExecReturningLastInsertID(ctx context.Context, query string, params ...db.Param) (uint64, error) {
	res, err := a.exec(ctx, "exec_returning_last_insert_id", query, params)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, a.fail("exec_returning_last_insert_id", err)
	}
	if id < 0 {
		return 0, a.fail("exec_returning_last_insert_id", errNoInsertID)
	}
	a.debugf("exec_returning_last_insert_id done", zap.Int64("id", id))
	return uint64(id), nil
}

func (a *Adapter) query(ctx context.Context, op, query string, params []db.Param, limit int) ([]*db.Row, error) {
	ctx = context.WithoutCancel(ctx)
	conn, err := a.pool.Conn(ctx)
	if err != nil {
		return nil, a.fail(op+": get_conn", err)
	}
	defer conn.Close()

	a.logStatement(op, query, params)
	rows, err := conn.QueryContext(ctx, query, bindParams(params)...)
	if err != nil {
		return nil, a.failOn(ctx, conn, op, err)
	}
	defer rows.Close()

	out, err := scanRows(rows, limit)
	if err != nil {
		return nil, a.failOn(ctx, conn, op, err)
	}
	return out, nil
}

func (a *Adapter) exec(ctx context.Context, op, query string, params []db.Param) (sql.Result, error) {
	ctx = context.WithoutCancel(ctx)
	conn, err := a.pool.Conn(ctx)
	if err != nil {
		return nil, a.fail(op+": get_conn", err)
	}
	defer conn.Close()

	a.logStatement(op, query, params)
	res, err := conn.ExecContext(ctx, query, bindParams(params)...)
	if err != nil {
		return nil, a.failOn(ctx, conn, op, err)
	}
	return res, nil
}

// failOn reports err and, in debug mode, probes who and where the failing
// connection is.
func (a *Adapter) failOn(ctx context.Context, conn *sql.Conn, op string, err error) error {
	e := a.fail(op, err)
	if a.debug() {
		a.logWhoWhere(ctx, conn)
	}
	return e
}

func (a *Adapter) fail(op string, err error) error {
	summary := Summarize(err)
	a.log.Error(op+" failed", zap.String("summary", summary))
	a.debugf(op+" failed (debug)", zap.Error(err))
	return &db.ExecError{Op: op, Summary: summary, Err: err}
}

func (a *Adapter) logWhoWhere(ctx context.Context, conn *sql.Conn) {
	var user, current, database, host sql.NullString
	if err := conn.QueryRowContext(ctx, whoWhereSQL).Scan(&current, &user, &database, &host); err != nil {
		a.log.Info("who/where probe failed", zap.Error(err))
		return
	}
	a.log.Info("who/where",
		zap.String("current_user", current.String),
		zap.String("user", user.String),
		zap.String("database", database.String),
		zap.String("hostname", host.String),
	)
}

func (a *Adapter) logStatement(op, query string, params []db.Param) {
	if !a.debug() {
		return
	}
	ps := make([]string, len(params))
	for i, p := range params {
		ps[i] = p.String()
	}
	a.log.Info(op+" about to run", zap.String("sql", query), zap.Strings("params", ps))
}

func (a *Adapter) debugf(msg string, fields ...zap.Field) {
	if a.debug() {
		a.log.Info(msg, fields...)
	}
}
