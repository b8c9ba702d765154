package feedbackboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/feedback-board/internal/cache"
	"github.com/magabrotheeeer/feedback-board/internal/config"
	"github.com/magabrotheeeer/feedback-board/internal/http/middlewarectx"
	"github.com/magabrotheeeer/feedback-board/internal/lib/password"
	"github.com/magabrotheeeer/feedback-board/internal/lib/sl"
	"github.com/magabrotheeeer/feedback-board/internal/metrics"
	"github.com/magabrotheeeer/feedback-board/internal/migrations"
	feedbackservice "github.com/magabrotheeeer/feedback-board/internal/services/feedback"
	userservice "github.com/magabrotheeeer/feedback-board/internal/services/users"
	"github.com/magabrotheeeer/feedback-board/internal/session"
	"github.com/magabrotheeeer/feedback-board/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New поднимает зависимости: БД с миграциями, хранилище сессий, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.New"

	db, err := repository.New(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	store, redisCache, err := newSessionStore(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("session store ready", slog.String("store", cfg.Session.Store))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:   logger,
		Users:    userservice.New(db, password.NewHasher(cfg.BcryptCost), m, logger),
		Feedback: feedbackservice.New(db, m, logger),
		Sessions: session.NewManager(store, cfg.Session.Name),
		Metrics:  m,
		Gatherer: reg,
		Limiter:  middlewarectx.NewClientLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  redisCache,
	}, nil
}

func newSessionStore(ctx context.Context, cfg *config.Config) (sessions.Store, *cache.Cache, error) {
	if cfg.Session.Store != config.SessionStoreRedis {
		return session.NewCookieStore(cfg.Session), nil, nil
	}
	c, err := cache.InitServer(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return session.NewRedisStore(c, cfg.Session), c, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}
	a.close()
	return err
}

func (a *App) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
}
