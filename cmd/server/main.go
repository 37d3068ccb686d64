package main

import (
	"context"
	"delivery-cost-service/internal/adapters/cache"
	"delivery-cost-service/internal/adapters/catalog"
	"delivery-cost-service/internal/api"
	"delivery-cost-service/internal/config"
	"delivery-cost-service/internal/domain"
	"delivery-cost-service/internal/platform/db"
	"delivery-cost-service/internal/platform/obs"
	"delivery-cost-service/internal/ports"
	"delivery-cost-service/internal/services"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"
)

const serviceName = "delivery-cost-service"

// main is the application composition root.
// It wires the catalog, the quote cache backend, and observability behind
// the HTTP router and serves until interrupted.
func main() {
	if !config.LoadDotEnv() {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	logger := obs.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	shutdownTracing, err := obs.InitTracing(cfg.TracingExporter, serviceName, cfg.AppVersion)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("tracing shutdown failed", "err", err)
		}
	}()

	cat, err := catalog.Default()
	if err != nil {
		return err
	}
	maxRoutes, err := routeBudget(cat, cfg.MaxRouteCenters)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded",
		"version", cat.Version(),
		"centers", len(cat.CenterIDs()),
		"max_routes_per_quote", maxRoutes,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	quoteCache, closeCache, err := openQuoteCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	policy, err := services.ParseCostPolicy(cfg.CostPolicy, services.PerCenterWeight)
	if err != nil {
		return err
	}

	metrics := obs.NewMetrics()

	svc := services.NewQuoteService(cat, quoteCache, metrics, logger)
	svc.DefaultPolicy = policy
	svc.MaxCenters = cfg.MaxRouteCenters
	svc.CacheTTL = cfg.CacheTTL

	router := api.NewRouter(api.Deps{
		Quotes:    svc,
		Catalog:   cat,
		Version:   cfg.AppVersion,
		Metrics:   metrics,
		Logger:    logger,
		RateLimit: rate.Limit(cfg.RateLimitRPS),
		RateBurst: cfg.RateLimitBurst,
		Started:   time.Now(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"addr", srv.Addr,
			"version", cfg.AppVersion,
			"catalog", cat.Version(),
			"cache", cfg.CacheBackend,
			"policy", string(policy),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// routeBudget returns the most routes one quote can price against cat.
// A catalog with more centers than maxCenters is rejected.
func routeBudget(cat *domain.Catalog, maxCenters int) (int, error) {
	n := len(cat.CenterIDs())
	if n > maxCenters {
		return 0, fmt.Errorf("route budget: catalog has %d centers, above MAX_ROUTE_CENTERS=%d", n, maxCenters)
	}
	return services.PermutationCount(n), nil
}

// openQuoteCache builds the configured cache backend. The returned func
// releases its connections.
func openQuoteCache(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.QuoteCache, func(), error) {
	noop := func() {}

	switch cfg.CacheBackend {
	case "none":
		return nil, noop, nil

	case "memory":
		return cache.NewMemoryQuoteCache(cfg.CacheEntries), noop, nil

	case "redis":
		c, err := cache.NewRedisQuoteCacheFromURL(cfg.RedisURL, logger)
		if err != nil {
			return nil, noop, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := c.Ping(pingCtx); err != nil {
			c.Close()
			return nil, noop, err
		}
		return c, func() { _ = c.Close() }, nil

	case "postgres":
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		if err := cache.InitSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, noop, err
		}
		return cache.NewSQLQuoteCache(conn), func() { _ = conn.Close() }, nil

	case "sqlite":
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		if err := cache.InitSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, noop, err
		}
		return cache.NewSqliteQuoteCache(conn), func() { _ = conn.Close() }, nil
	}

	return nil, noop, fmt.Errorf("open quote cache: unsupported backend %q", cfg.CacheBackend)
}
