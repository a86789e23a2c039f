package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/and161185/wzs-web/internal/db"
)

var errNoInsertID = errors.New("missing last insert id")

// Adapter implements db.DB on top of a PgxPool.
type Adapter struct {
	Pool  PgxPool
	log   *zap.Logger
	debug func() bool
}

var _ db.DB = (*Adapter)(nil)

// New wraps pool. A nil logger discards output.
func New(pool PgxPool, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{Pool: pool, log: log, debug: db.Debug}
}

// Close closes the underlying pool.
func (a *Adapter) Close() { a.Pool.Close() }

// FetchOne returns the first row, or nil when the result is empty.
func (a *Adapter) FetchOne(ctx context.Context, sql string, params ...db.Param) (*db.Row, error) {
	rows, err := a.query(ctx, "fetch_one", sql, params, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// FetchAll returns every row in server order.
func (a *Adapter) FetchAll(ctx context.Context, sql string, params ...db.Param) ([]*db.Row, error) {
	return a.query(ctx, "fetch_all", sql, params, 0)
}

// Exec returns the number of rows reported by the command tag.
func (a *Adapter) Exec(ctx context.Context, sql string, params ...db.Param) (uint64, error) {
	ctx = context.WithoutCancel(ctx)
	a.logStatement("exec", sql, params)
	tag, err := a.Pool.Exec(ctx, sql, bindParams(params)...)
	if err != nil {
		return 0, a.fail("exec", err)
	}
	n := tag.RowsAffected()
	if a.debug() {
		a.log.Info("exec done", zap.Int64("affected_rows", n))
	}
	return uint64(n), nil
}

// ExecReturningLastInsertID scans the first column of the statement's first
// row, e.g. INSERT ... RETURNING id.
func (a *Adapter) ExecReturningLastInsertID(ctx context.Context, sql string, params ...db.Param) (uint64, error) {
	const op = "exec_returning_last_insert_id"
	ctx = context.WithoutCancel(ctx)
	a.logStatement(op, sql, params)

	var id int64
	err := a.Pool.QueryRow(ctx, sql, bindParams(params)...).Scan(&id)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return 0, a.fail(op, errNoInsertID)
	case err != nil:
		return 0, a.fail(op, err)
	case id < 0:
		return 0, a.fail(op, errNoInsertID)
	}
	return uint64(id), nil
}

func (a *Adapter) query(ctx context.Context, op, sql string, params []db.Param, limit int) ([]*db.Row, error) {
	ctx = context.WithoutCancel(ctx)
	a.logStatement(op, sql, params)

	rows, err := a.Pool.Query(ctx, sql, bindParams(params)...)
	if err != nil {
		return nil, a.fail(op, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	var out []*db.Row
	for rows.Next() {
		raw, err := rows.Values()
		if err != nil {
			return nil, a.fail(op, err)
		}
		vals := make([]db.Value, len(raw))
		for i, v := range raw {
			vals[i] = decodeValue(v)
		}
		out = append(out, db.NewRow(cols, vals))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, a.fail(op, err)
	}
	if a.debug() {
		a.log.Info(op+" done", zap.Int("rows", len(out)))
	}
	return out, nil
}

func (a *Adapter) fail(op string, err error) error {
	summary := Summarize(err)
	a.log.Error(op+" failed", zap.String("summary", summary))
	return &db.ExecError{Op: op, Summary: summary, Err: err}
}

func (a *Adapter) logStatement(op, sql string, params []db.Param) {
	if !a.debug() {
		return
	}
	ps := make([]string, len(params))
	for i, p := range params {
		ps[i] = p.String()
	}
	a.log.Info(op+" about to run", zap.String("sql", sql), zap.Strings("params", ps))
}

// Summarize renders err as a one-line description carrying the SQL state of
// server errors.
func Summarize(err error) string {
	if err == nil {
		return ""
	}
	var pg *pgconn.PgError
	if errors.As(err, &pg) {
		return fmt.Sprintf("state=%s, severity=%s, message=%s", pg.Code, pg.Severity, pg.Message)
	}
	return "driver=" + err.Error()
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == "23505"
}
