// MyRecipes - recipe sharing and cooking video API
// Entry point for the web server
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/findosh/myrecipes/internal/config"
	"github.com/findosh/myrecipes/internal/cooking"
	"github.com/findosh/myrecipes/internal/handlers"
	"github.com/findosh/myrecipes/internal/logging"
	"github.com/findosh/myrecipes/internal/middleware"
	"github.com/findosh/myrecipes/internal/services/catalog"
	"github.com/findosh/myrecipes/internal/services/favorites"
	"github.com/findosh/myrecipes/internal/services/subscription"
	"github.com/findosh/myrecipes/internal/storage"
	"github.com/findosh/myrecipes/internal/storage/seed"
)

const name = "myrecipes"

// set at build time
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg := config.Load()
	log := logging.SetDefaultStructuredLogger(name, version, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	repos, closeStorage, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	if cfg.RedisURL != "" {
		rdb, err := storage.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		repos.KV = storage.NewRedisKV(rdb, name)
	}

	if err := seed.Seed(ctx, repos); err != nil {
		return fmt.Errorf("failed to seed storage: %w", err)
	}
	plans, err := seed.Plans()
	if err != nil {
		return err
	}

	// Initialize services
	catalogService := catalog.NewService(repos.Recipes, repos.Videos, repos.Cooks)
	favoritesService := favorites.NewService(repos.KV, log)
	subscriptionService := subscription.NewService(plans, repos.Subscriptions)
	manager := cooking.NewManager(
		cooking.NewLogNotifier(log),
		log,
		cooking.WithTickInterval(cfg.TickInterval),
		cooking.WithIdleTTL(cfg.SessionTTL),
	)

	h := handlers.New(catalogService, favoritesService, subscriptionService, manager, log)

	// Setup routes
	mux := http.NewServeMux()
	h.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	if !cfg.IsDevelopment() && cfg.UsesDefaultSecret() {
		log.Warn("client cookies are signed with the default secret; set MYRECIPES_SECRET_KEY",
			"environment", cfg.Environment)
	}
	clients := middleware.NewClientIdentity(cfg.SecretKey, cfg.ClientDuration, cfg.SecureCookies)

	// Apply global middleware
	handler := middleware.Chain(
		mux,
		middleware.Metrics,
		middleware.RequestID,
		middleware.Recover,
		middleware.RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)),
		clients.Middleware,
		middleware.SecurityHeaders,
		middleware.Logger(log),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          logging.NewLogLogger(log, slog.LevelError),
	}

	log.Info("server starting",
		"address", server.Addr,
		"environment", cfg.Environment,
		"storage", cfg.Storage,
		"redis", cfg.RedisURL != "",
		"rateLimit", cfg.RateLimit,
		"sessionTTL", cfg.SessionTTL,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return manager.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped gracefully")
	return nil
}

// openStorage returns the configured repositories and a func releasing them
func openStorage(cfg *config.Config) (storage.Repositories, func(), error) {
	if !cfg.UsesSQLite() {
		return storage.NewMemory(), func() {}, nil
	}

	db, err := storage.New(cfg.DatabaseURL)
	if err != nil {
		return storage.Repositories{}, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return storage.Repositories{}, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return storage.NewSQLite(db), func() { _ = db.Close() }, nil
}
