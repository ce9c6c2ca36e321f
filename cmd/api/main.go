package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/abuse"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/achievement"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/economy"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/marketplace"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/rarity"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/audit"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/cache"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/random"
	timeProvider "github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger, err := logger.NewZapLogger(logger.Options{
		Production:  cfg.Logger.Format == "json",
		Level:       cfg.Logger.Level,
		ServiceName: cfg.Logger.ServiceName,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("Service stopped with error", map[string]any{
			"error": err.Error(),
		})
		_ = appLogger.Flush()
		os.Exit(1)
	}
	_ = appLogger.Flush()
}

// run wires every component, serves until SIGINT/SIGTERM and shuts down in reverse order
func run(cfg *config.Config, appLogger coreport.Logger) error {
	tp := timeProvider.NewRealTimeProvider()

	// Background workers stop when ctx is canceled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var domainMetrics coreport.Metrics = metrics.NewNoop()
	var (
		recorder   middleware.RequestRecorder
		prom       *metrics.Prometheus
		registerer prometheus.Registerer
	)
	if cfg.Metrics.Enabled {
		prom = metrics.NewPrometheus(cfg.Metrics.Namespace)
		domainMetrics = prom
		recorder = prom
		registerer = prom.Registry()
	}

	store, err := openStorage(ctx, cfg, appLogger, tp, registerer)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			appLogger.Error("Failed to close storage", map[string]any{"error": err.Error()})
		}
	}()

	trackers, err := openGateStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := trackers.close(); err != nil {
			appLogger.Error("Failed to close abuse tracker store", map[string]any{"error": err.Error()})
		}
	}()

	auditSink := audit.NewAsyncSink(cfg.Audit.BufferSize, appLogger, domainMetrics, tp)

	gate := abuse.NewGate(cfg.GateSettings(), trackers.store, tp, auditSink, domainMetrics, appLogger)
	if trackers.sweep {
		go gate.Run(ctx)
	}

	generatorSettings, err := cfg.GeneratorSettings()
	if err != nil {
		return fmt.Errorf("invalid rarity configuration: %w", err)
	}
	rng := random.New()
	if cfg.Rarity.Seed != 0 {
		rng = random.NewSeeded(cfg.Rarity.Seed)
	}
	generator, err := rarity.NewGenerator(generatorSettings, rng, domainMetrics)
	if err != nil {
		return fmt.Errorf("invalid rarity configuration: %w", err)
	}

	pools, err := cache.NewPoolCache(rarity.NewRepositorySource(store.uow), cfg.Catalog.CacheTTL, tp, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create card pool cache: %w", err)
	}

	economyRules, err := cfg.EconomyRules()
	if err != nil {
		return fmt.Errorf("invalid economy configuration: %w", err)
	}

	engine := economy.NewEngine(store.uow, tp, auditSink, domainMetrics, appLogger, cfg.TransactionSettings())
	tracker := achievement.NewTracker(engine, gate, auditSink, tp, appLogger, cfg.TrackerSettings())
	economyService := economy.NewService(engine, gate, generator, pools, tracker, auditSink, tp, appLogger, economyRules)
	marketplaceRules := cfg.MarketplaceRules()
	marketplaceService := marketplace.NewService(engine, gate, auditSink, tp, appLogger, marketplaceRules)

	checks := store.checks
	if trackers.ping != nil {
		checks["redis"] = trackers.ping
	}

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger, tp, recorder)
	if prom != nil {
		routes.SetupMetrics(router, cfg.Metrics.Path, prom.Handler())
	}
	routes.SetupRoutes(router, routes.Handlers{
		Economy:     handler.NewEconomyHandler(economyService, appLogger),
		Marketplace: handler.NewMarketplaceHandler(marketplaceService, appLogger, marketplaceRules.DefaultPageSize),
		Achievement: handler.NewAchievementHandler(tracker, appLogger),
		Health:      handler.NewHealthHandler(checks, appLogger),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":           server.Addr,
			"env":            cfg.Environment,
			"driver":         cfg.Database.Driver,
			"gate":           cfg.Abuse.Backend,
			"metrics":        cfg.Metrics.Enabled,
			"async_progress": cfg.Achievement.Async,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		appLogger.Info("Shutting down server...", map[string]any{"signal": sig.String()})
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	// Stop the sweeper, then let in-flight progress recomputes finish before the audit drain
	cancel()
	tracker.Wait()
	if err := auditSink.Close(shutdownCtx); err != nil {
		appLogger.Warn("Audit sink closed before draining", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
	return nil
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// Credentials may come only from the environment in production
	if cfg.Database.Driver == "postgres" {
		for _, required := range []struct{ key, value string }{
			{"database.host (or GE_DB_HOST)", cfg.Database.Host},
			{"database.username (or GE_DB_USERNAME)", cfg.Database.Username},
			{"database.password (or GE_DB_PASSWORD)", cfg.Database.Password},
			{"database.database (or GE_DB_NAME)", cfg.Database.Database},
		} {
			if required.value == "" {
				missingConfigs = append(missingConfigs, required.key)
			}
		}
	}

	if cfg.Abuse.Backend == config.GateBackendRedis && cfg.Redis.Addr == "" {
		missingConfigs = append(missingConfigs, "redis.addr (or GE_REDIS_ADDR)")
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Path == "" {
		missingConfigs = append(missingConfigs, "metrics.path")
	}
	if cfg.Audit.BufferSize <= 0 {
		missingConfigs = append(missingConfigs, "audit.bufferSize")
	}

	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	// If we're in production, do additional validation for sensitive settings
	if cfg.IsProduction() {
		var warnings []string

		sslMode := strings.ToLower(cfg.Database.SSLMode)
		if cfg.Database.Driver == "postgres" && sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
			warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
		}
		if cfg.Database.Driver == "memory" {
			warnings = append(warnings, "database.driver memory keeps no state across restarts")
		}
		if cfg.Abuse.Backend != config.GateBackendRedis {
			warnings = append(warnings, "abuse.backend memory is not shared between replicas")
		}
		if cfg.Server.ReadTimeout < 5*time.Second {
			warnings = append(warnings, "server.readTimeout is too low for production")
		}
		if cfg.Server.WriteTimeout < 5*time.Second {
			warnings = append(warnings, "server.writeTimeout is too low for production")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential issues in production configuration: %v", warnings)
		}
	}

	return nil
}
