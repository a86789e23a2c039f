// Package connect picks the db adapter from the DATABASE_URL scheme.
package connect

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/and161185/wzs-web/internal/config"
	"github.com/and161185/wzs-web/internal/db"
	"github.com/and161185/wzs-web/internal/db/mysql"
	"github.com/and161185/wzs-web/internal/db/postgres"
)

// IsPostgres reports whether url selects the pgx adapter; anything else is MySQL.
func IsPostgres(url string) bool {
	u := strings.ToLower(url)
	return strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://")
}

// Open returns the adapter for cfg and a cleanup closing its pool.
// An unset DATABASE_URL yields a nil DB and a no-op cleanup.
func Open(ctx context.Context, cfg config.DB, log *zap.Logger) (db.DB, func(), error) {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Valid() {
		log.Warn("DATABASE_URL not set; running without a database")
		return nil, func() {}, nil
	}
	if IsPostgres(cfg.URL) {
		pool, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		a := postgres.New(pool, log)
		log.Info("database ready", zap.String("driver", "postgres"))
		return a, a.Close, nil
	}
	pool, err := mysql.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	a := mysql.New(pool, log)
	log.Info("database ready", zap.String("driver", "mysql"))
	return a, func() { _ = a.Close() }, nil
}
