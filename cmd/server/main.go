// Command wzs-server wires configuration, the database port, uploads, mail and
// GraphQL into one HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/wzs-web/internal/auth"
	"github.com/and161185/wzs-web/internal/clock"
	"github.com/and161185/wzs-web/internal/config"
	"github.com/and161185/wzs-web/internal/csrf"
	"github.com/and161185/wzs-web/internal/db/connect"
	"github.com/and161185/wzs-web/internal/graphql"
	"github.com/and161185/wzs-web/internal/image"
	"github.com/and161185/wzs-web/internal/notify"
	"github.com/and161185/wzs-web/internal/upload"
	"github.com/and161185/wzs-web/internal/web"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("env", cfg.Env),
		zap.String("addr", cfg.HTTP.ListenAddr),
		zap.Bool("csrf", cfg.CSRF.Enabled),
		zap.Bool("auth", cfg.Auth.Enabled()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler, cleanup, err := buildHandler(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("startup", zap.Error(err))
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              cfg.HTTP.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTP.ListenAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown timed out", zap.Error(err))
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			cleanup()
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}

func newLogger(cfg config.Config) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if cfg.Env == config.EnvDevelopment {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// buildHandler assembles every component. The returned cleanup closes the DB pool.
func buildHandler(ctx context.Context, cfg config.Config, logger *zap.Logger) (http.Handler, func(), error) {
	database, closeDB, err := connect.Open(ctx, cfg.DB, logger)
	if err != nil {
		return nil, nil, err
	}

	clk, err := clock.NewSystem(cfg.Timezone)
	if err != nil {
		closeDB()
		return nil, nil, err
	}

	storage, err := upload.NewLocalStorage(cfg.Upload.Root)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	uploads := upload.NewService(storage, image.Imaging{}, clk, cfg.Upload, cfg.Image)

	schema, err := graphql.NewSchema(graphql.Deps{DB: database, Mailer: notify.New(cfg, logger)})
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	authn := auth.Authenticator{Secret: cfg.Auth.Secret, CookieName: cfg.Auth.CookieName}

	rt := web.Routes{
		CSRF:        csrf.Handler(cfg.CSRF, logger),
		GraphQL:     graphql.NewHandler(schema, cfg.CSRF, authn, cfg.HTTP.MaxBodyBytes, logger),
		GraphQLPath: cfg.GraphQLPath,
		Upload:      upload.NewHandler(uploads, cfg.CSRF, cfg.HTTP.MaxBodyBytes, logger),
	}
	if cfg.GraphiQL {
		rt.GraphiQL = graphql.GraphiQL(cfg.GraphQLPath)
	}
	if cfg.HTMLPath != "" {
		tmpl, err := web.LoadTemplate(cfg.HTMLPath)
		if err != nil {
			closeDB()
			return nil, nil, err
		}
		rt.SPA = web.SPA(tmpl, cfg.CSRF, logger)
	}

	logger.Info("storage ready", zap.String("root", storage.Root()))
	return web.NewHandler(rt, cfg.CORS, logger), closeDB, nil
}
