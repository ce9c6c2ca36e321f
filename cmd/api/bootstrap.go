package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/abuse"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/memory"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/redis"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/config"
)

// storage is the unit of work the economy runs on plus what it takes to close it
type storage struct {
	uow     persistence.UnitOfWork
	manager *database.Manager
	checks  map[string]handler.Pinger
}

func (s *storage) Close() error {
	if s.manager == nil {
		return nil
	}
	return s.manager.Close()
}

// openStorage connects the configured driver, migrates it and seeds the demo catalog when asked
func openStorage(
	ctx context.Context,
	cfg *config.Config,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	registerer prometheus.Registerer,
) (*storage, error) {
	dbConfig := cfg.DatabaseSettings()
	if err := dbConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	if dbConfig.Driver == database.DriverMemory {
		store := memory.NewStore()
		if dbConfig.SeedDemoCatalog {
			catalog := migration.DemoCatalog()
			store.PutCards(catalog.Cards...)
			store.PutBoosters(catalog.Boosters...)
			store.PutAchievements(catalog.Achievements...)
			logger.Info("Seeded in-memory demo catalog", map[string]any{
				"cards":        len(catalog.Cards),
				"boosters":     len(catalog.Boosters),
				"achievements": len(catalog.Achievements),
			})
		}
		return &storage{uow: store, checks: map[string]handler.Pinger{}}, nil
	}

	manager := database.NewManager(dbConfig, logger, timeProvider)
	if _, err := manager.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	migrations := manager.MigrationManager()
	if err := migrations.MigrateAll(ctx); err != nil {
		_ = manager.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if dbConfig.SeedDemoCatalog {
		if err := migrations.SeedCatalog(ctx, migration.DemoCatalog()); err != nil {
			_ = manager.Close()
			return nil, fmt.Errorf("failed to seed demo catalog: %w", err)
		}
	}

	if registerer != nil {
		if err := manager.RegisterMetrics(registerer); err != nil {
			logger.Warn("Failed to register database pool metrics", map[string]any{
				"error": err.Error(),
			})
		}
	}

	return &storage{
		uow:     manager.CreateUnitOfWork(),
		manager: manager,
		checks:  map[string]handler.Pinger{"database": manager},
	}, nil
}

// gateStore is the abuse tracker store plus its optional health check and closer
type gateStore struct {
	store persistence.TrackerStore
	// sweep is false when the store expires idle trackers on its own
	sweep bool
	ping  handler.Pinger
	close func() error
}

// openGateStore builds the tracker store named by abuse.backend
func openGateStore(ctx context.Context, cfg *config.Config) (*gateStore, error) {
	switch cfg.Abuse.Backend {
	case "", config.GateBackendMemory:
		return &gateStore{
			store: abuse.NewMemoryStore(),
			sweep: true,
			close: func() error { return nil },
		}, nil
	case config.GateBackendRedis:
		store, err := redis.NewTrackerStore(ctx, cfg.RedisOptions())
		if err != nil {
			return nil, err
		}
		return &gateStore{store: store, ping: store, close: store.Close}, nil
	default:
		return nil, fmt.Errorf("unsupported abuse backend: %s", cfg.Abuse.Backend)
	}
}
