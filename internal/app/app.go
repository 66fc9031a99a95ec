// Package app wires configuration, logging, the document store, the cache
// registry and the services into one running process.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"estate/internal/access"
	"estate/internal/cache"
	"estate/internal/config"
	"estate/internal/core"
	"estate/internal/domain"
	"estate/internal/metrics"
	"estate/internal/repository/badgerdb"
	"estate/internal/repository/memory"
	"estate/internal/repository/mongodb"
	"estate/internal/repository/redisdb"
	"estate/internal/resource"
	"estate/internal/usecase"

	"github.com/benbjohnson/clock"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// App holds the long-lived services. Build it once with New and share it.
type App struct {
	cfg      *config.Config
	logger   *zap.Logger
	clock    clock.Clock
	store    domain.Store
	registry *cache.Registry
	gatherer prometheus.Gatherer
	deps     resource.Deps

	occupancy *usecase.OccupancyService
	rebuilder *usecase.IndexRebuilder

	closeStore func(context.Context) error
}

// New opens the configured store and builds the services on top of it.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	logger = core.Named(logger, "app")
	clk := clock.New()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder, err := metrics.NewRecorder(promRegistry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	store, closeStore, err := OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	registry := cache.NewRegistry(&cache.Options{
		DefaultTTL: cfg.Cache.DefaultTTL.Std(),
		Clock:      clk,
		Metrics:    recorder,
		Logger:     logger,
	})

	deps := resource.Deps{
		Store:           store,
		Registry:        registry,
		Directory:       access.NewDirectory(store, registry, logger),
		Logger:          logger,
		Metrics:         recorder,
		BatchSize:       cfg.Handler.BatchSize,
		IndexCollection: cfg.Handler.IndexCollection,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		clock:      clk,
		store:      store,
		registry:   registry,
		gatherer:   promRegistry,
		deps:       deps,
		occupancy:  usecase.NewOccupancyService(deps),
		rebuilder:  usecase.NewIndexRebuilder(deps, clk),
		closeStore: closeStore,
	}, nil
}

// OpenStore opens the backend named by cfg.Backend. The returned function
// releases it.
func OpenStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (domain.Store, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewStore(), noop, nil

	case config.BackendMongo:
		store, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.ConnectTimeout.Std(), logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case config.BackendBadger:
		store, err := badgerdb.Open(badgerdb.Options{Path: cfg.BadgerPath, InMemory: cfg.BadgerInMemory}, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func(context.Context) error { return store.Close() }, nil

	case config.BackendRedis:
		connectCtx := ctx
		if timeout := cfg.ConnectTimeout.Std(); timeout > 0 {
			var cancel context.CancelFunc
			connectCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		store, err := redisdb.Connect(connectCtx, &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.RedisPrefix, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func(context.Context) error { return store.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// Deps returns the shared handler dependencies.
func (a *App) Deps() resource.Deps {
	return a.deps
}

// Store returns the document store.
func (a *App) Store() domain.Store {
	return a.store
}

// Occupancy reports the rooms of propertyID as seen by uid.
func (a *App) Occupancy(ctx context.Context, uid, propertyID string) ([]usecase.RoomOccupancy, error) {
	return a.occupancy.Occupancy(ctx, uid, propertyID)
}

// RebuildIndexes rebuilds every parent→children index.
func (a *App) RebuildIndexes(ctx context.Context) ([]*domain.ParentChildIndex, error) {
	return a.rebuilder.RebuildAll(ctx)
}

// CacheStats reports every cache category.
func (a *App) CacheStats() map[string]cache.Stats {
	out := make(map[string]cache.Stats)
	for _, name := range a.registry.Categories() {
		if stats, ok := a.registry.Stats(name); ok {
			out[name] = stats
		}
	}
	return out
}

// Run serves the debug and metrics endpoints and sweeps the cache until ctx
// is done.
func (a *App) Run(ctx context.Context) error {
	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go a.registry.RunSweeper(sweepCtx, a.cfg.Cache.SweepInterval.Std())

	server := &http.Server{
		Addr:              a.cfg.Metrics.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.logger.Info("Shutting down HTTP server")
	return server.Shutdown(shutdownCtx)
}

// Close releases the store.
func (a *App) Close(ctx context.Context) error {
	return a.closeStore(ctx)
}
