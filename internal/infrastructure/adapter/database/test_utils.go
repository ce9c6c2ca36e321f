package database

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/model"
	timeprovider "github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/time"
)

// TestDBManager provides utilities for testing against a real PostgreSQL
type TestDBManager struct {
	Manager      *Manager
	Config       *Config
	Logger       coreport.Logger
	TimeProvider coreport.TimeProvider
}

// SkipUnlessTestDB skips t when no test database is configured
func SkipUnlessTestDB(t *testing.T) {
	t.Helper()
	if _, ok := os.LookupEnv("TEST_DB_HOST"); !ok {
		t.Skip("TEST_DB_HOST not set, skipping PostgreSQL integration test")
	}
}

// NewTestDBManager creates a new test database manager from TEST_DB_* variables
func NewTestDBManager(t *testing.T, logger coreport.Logger) *TestDBManager {
	t.Helper()

	timeProvider := timeprovider.NewRealTimeProvider()

	config := &Config{
		Driver:          DriverPostgres,
		Host:            getEnvOrDefault("TEST_DB_HOST", "localhost"),
		Port:            getEnvIntOrDefault("TEST_DB_PORT", 5432),
		Username:        getEnvOrDefault("TEST_DB_USERNAME", "postgres"),
		Password:        getEnvOrDefault("TEST_DB_PASSWORD", "postgres"),
		Database:        getEnvOrDefault("TEST_DB_DATABASE", "booster_economy_test"),
		SSLMode:         getEnvOrDefault("TEST_DB_SSL_MODE", "disable"),
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		QueryTimeout:    5 * time.Second,
		LogLevel:        "silent",

		// One attempt so a missing database fails fast
		RetryAttempts: 1,
		RetryDelay:    time.Second,
	}

	return &TestDBManager{
		Manager:      NewManager(config, logger, timeProvider),
		Config:       config,
		Logger:       logger,
		TimeProvider: timeProvider,
	}
}

// Connect connects to the test database
func (m *TestDBManager) Connect(t *testing.T) {
	t.Helper()

	if _, err := m.Manager.Connect(context.Background()); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
}

// Close closes the test database connection
func (m *TestDBManager) Close(t *testing.T) {
	t.Helper()

	if err := m.Manager.Close(); err != nil {
		t.Logf("Warning: Failed to close test database connection: %v", err)
	}
}

// SetupTestDB recreates the schema and loads the demo catalog
func (m *TestDBManager) SetupTestDB(t *testing.T) {
	t.Helper()

	if err := dropAllTables(m.Manager.DB()); err != nil {
		t.Fatalf("Failed to drop tables: %v", err)
	}

	migrations := m.Manager.MigrationManager()
	if err := migrations.MigrateAll(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	if err := migrations.SeedCatalog(context.Background(), migration.DemoCatalog()); err != nil {
		t.Fatalf("Failed to seed test catalog: %v", err)
	}
}

// dropAllTables drops all tables in the current schema
func dropAllTables(db *gorm.DB) error {
	return db.Exec(`
		DO $$ DECLARE
			r RECORD;
		BEGIN
			FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = current_schema()) LOOP
				EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
			END LOOP;
		END $$;
	`).Error
}

// TruncateEconomyTables empties every table except the catalog and the schema version
func (m *TestDBManager) TruncateEconomyTables(t *testing.T) {
	t.Helper()

	if err := m.Manager.DB().Exec(`TRUNCATE TABLE
		accounts, booster_openings, inventory, listings,
		achievement_progress, claims, notifications
		RESTART IDENTITY CASCADE`).Error; err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// CreateTestAccount creates an account with the given balance and allotment
func (m *TestDBManager) CreateTestAccount(t *testing.T, id uint64, balance int64, allotment int) {
	t.Helper()

	now := m.TimeProvider.Now()
	account := model.Account{
		ID:                id,
		Balance:           balance,
		AvailableBoosters: allotment,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := m.Manager.DB().Create(&account).Error; err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}
}

// Helper functions to get environment variables or defaults
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
