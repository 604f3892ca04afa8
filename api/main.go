package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/sabiboss/internal/auth"
	"github.com/rogerio-castellano/sabiboss/internal/config"
	"github.com/rogerio-castellano/sabiboss/internal/db"
	"github.com/rogerio-castellano/sabiboss/internal/http/ban"
	"github.com/rogerio-castellano/sabiboss/internal/http/handlers"
	rl "github.com/rogerio-castellano/sabiboss/internal/http/rate_limiter"
	"github.com/rogerio-castellano/sabiboss/internal/http/router"
	"github.com/rogerio-castellano/sabiboss/internal/redissvc"
	"github.com/rogerio-castellano/sabiboss/internal/repo"
	"github.com/rogerio-castellano/sabiboss/internal/store"
	"github.com/rogerio-castellano/sabiboss/internal/workspace"
)

// @title SabiBoss API
// @version 1.0
// @description Business management backend for small shop owners: customers, expenses, inventory and sales.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		backend *store.Backend
		users   repo.UserRepository
	)
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			logger.Error("could not connect to database", "error", err)
			os.Exit(1)
		}
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			logger.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		backend, users = postgresStack(ctx, database, cfg.DatabaseURL, logger)
	default:
		backend = store.NewMemoryBackend()
		users = repo.NewInMemoryUserRepository()
	}

	var (
		revocations auth.RevocationStore = auth.NewMemoryRevocations()
		guard       *ban.Guard
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Error("could not connect to redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer rdb.Close()

		revocations = redissvc.NewRedisService(rdb)
		guard = ban.NewGuard(rdb, cfg.BanStrikes, cfg.BanDuration, logger)
		go guard.RunDailySummary(ctx)
	}

	registry := workspace.NewRegistry(workspace.Deps{
		Auth:   auth.NewService(users, revocations, []byte(cfg.JWTSecret), cfg.SessionTTL),
		Store:  backend,
		Logger: logger,
	})
	defer registry.CloseAll()
	go registry.RunReaper(ctx, time.Minute)

	limiters := rl.New(cfg.RateLimit, cfg.RateBurst)
	go limiters.RunCleanup(ctx, time.Minute, 3*time.Minute)

	handlers.SetRegistry(registry)
	handlers.SetLogger(logger)

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: router.NewRouter(router.Options{
			Registry: registry,
			Limiters: limiters,
			Guard:    guard,
			Logger:   logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("server running", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func postgresStack(ctx context.Context, database *sql.DB, dsn string, logger *slog.Logger) (*store.Backend, repo.UserRepository) {
	hub := store.NewHub()
	go store.NewListener(dsn, hub, logger).Run(ctx)
	return store.NewPostgresBackend(database, hub), repo.NewPostgresUserRepository(database)
}
