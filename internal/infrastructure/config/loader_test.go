package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/usecase"
)

const testYAML = `
server:
  port: 9090
  readTimeout: 7
database:
  driver: postgres
  host: db.internal
  username: booster
  database: booster_economy
  slowThresholdMs: 150
transaction:
  retryBackoffMs: 40
economy:
  allotmentIntervalMinutes: 60
  sellPrices:
    rare: 12
abuse:
  blockMinutes: 5
  limits:
    claim_daily:
      perMinute: 1
      minDelayMs: 1500
catalog:
  cacheTTLSeconds: 30
`

// withConfigDir points the loader at a temp directory holding name.yaml
func withConfigDir(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0o600))

	previousConfig, previousDotEnv := ConfigPaths, DotEnvPaths
	ConfigPaths = []string{dir}
	DotEnvPaths = []string{filepath.Join(dir, ".env")}
	t.Cleanup(func() {
		ConfigPaths, DotEnvPaths = previousConfig, previousDotEnv
	})
	return dir
}

// unsetEnv clears key for the test and restores it afterwards
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads the environment file and converts units", func(t *testing.T) {
		// Arrange
		withConfigDir(t, Test, testYAML)
		t.Setenv("GE_ENV", "TEST")

		// Act
		cfg, err := LoadConfig()

		// Assert
		require.NoError(t, err)
		assert.Equal(t, Test, cfg.Environment)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, 7*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
		assert.Equal(t, 150*time.Millisecond, cfg.Database.SlowThreshold)
		assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
		assert.Equal(t, 40*time.Millisecond, cfg.Transaction.RetryBackoff)
		assert.Equal(t, time.Hour, cfg.Economy.AllotmentInterval)
		assert.Equal(t, 24*time.Hour, cfg.Economy.DailyCooldown)
		assert.Equal(t, 5*time.Minute, cfg.Abuse.BlockDuration)
		assert.Equal(t, 1500*time.Millisecond, cfg.Abuse.Limits[usecase.ActionClaimDaily].MinDelay)
		assert.Equal(t, 30*time.Second, cfg.Catalog.CacheTTL)
		assert.Equal(t, "/metrics", cfg.Metrics.Path)
	})

	t.Run("environment variables override the file", func(t *testing.T) {
		// Arrange
		withConfigDir(t, Test, testYAML)
		t.Setenv("GE_ENV", Test)
		t.Setenv("GE_DATABASE_HOST", "db.override")
		t.Setenv("GE_DB_PASSWORD", "s3cret")
		t.Setenv("GE_SERVER_PORT", "7070")
		t.Setenv("GE_GATE_BACKEND", GateBackendRedis)

		// Act
		cfg, err := LoadConfig()

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "db.override", cfg.Database.Host)
		assert.Equal(t, "s3cret", cfg.Database.Password)
		assert.Equal(t, 7070, cfg.Server.Port)
		assert.Equal(t, GateBackendRedis, cfg.Abuse.Backend)
	})

	t.Run("loads secrets from a dotenv file", func(t *testing.T) {
		// Arrange
		dir := withConfigDir(t, Test, testYAML)
		t.Setenv("GE_ENV", Test)
		unsetEnv(t, "GE_DB_NAME")
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GE_DB_NAME=from_dotenv\n"), 0o600))

		// Act
		cfg, err := LoadConfig()

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "from_dotenv", cfg.Database.Database)
	})

	t.Run("missing environment file", func(t *testing.T) {
		withConfigDir(t, Test, testYAML)
		t.Setenv("GE_ENV", Production)

		cfg, err := LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, cfg)
	})
}

func TestComponentSettings(t *testing.T) {
	t.Run("economy rules keep unnamed sell prices", func(t *testing.T) {
		cfg := &Config{Economy: EconomyConfig{SellPrices: map[string]int64{"super_rare": 75}, DailyReward: 250}}

		rules, err := cfg.EconomyRules()

		require.NoError(t, err)
		assert.Equal(t, int64(75), rules.SellPrice(entity.RaritySuperRare))
		assert.Equal(t, int64(1), rules.SellPrice(entity.RarityCommon))
		assert.Equal(t, int64(250), rules.DailyReward)
		assert.Equal(t, 3, rules.MaxAllotment)
	})

	t.Run("economy rules reject unknown tiers", func(t *testing.T) {
		cfg := &Config{Economy: EconomyConfig{SellPrices: map[string]int64{"mythic": 5}}}

		_, err := cfg.EconomyRules()

		assert.Error(t, err)
	})

	t.Run("economy rules reject a tier that sells for nothing", func(t *testing.T) {
		cfg := &Config{Economy: EconomyConfig{SellPrices: map[string]int64{"uncommon": 0}}}

		_, err := cfg.EconomyRules()

		assert.ErrorContains(t, err, "sell price of uncommon must be positive")
	})

	t.Run("generator weights keep their configured order", func(t *testing.T) {
		cfg := &Config{Rarity: RarityConfig{
			Weights:         []RarityWeight{{Rarity: "rare", Weight: 1}, {Rarity: "Common", Weight: 9}},
			AlternateChance: 0.5,
			AlternateTiers:  []string{"rare"},
		}}

		settings, err := cfg.GeneratorSettings()

		require.NoError(t, err)
		require.Len(t, settings.Weights, 2)
		assert.Equal(t, entity.RarityRare, settings.Weights[0].Rarity)
		assert.Equal(t, entity.RarityCommon, settings.Weights[1].Rarity)
		assert.Equal(t, []entity.Rarity{entity.RarityRare}, settings.AlternateTiers)
		assert.Equal(t, 10, settings.MaxAttempts)
	})

	t.Run("generator rejects unknown tiers", func(t *testing.T) {
		cfg := &Config{Rarity: RarityConfig{Weights: []RarityWeight{{Rarity: "mythic", Weight: 1}}}}

		_, err := cfg.GeneratorSettings()

		assert.Error(t, err)
	})

	t.Run("gate limits merge over the stock table", func(t *testing.T) {
		cfg := &Config{Abuse: AbuseConfig{Limits: map[string]ActionLimitConfig{
			usecase.ActionSellCard: {PerMinute: 2},
		}}}

		settings := cfg.GateSettings()

		assert.Equal(t, 2, settings.LimitFor(usecase.ActionSellCard).PerMinute)
		assert.Equal(t, 10, settings.LimitFor(usecase.ActionOpenBooster).PerMinute)
		assert.Equal(t, time.Hour, settings.Window)
	})

	t.Run("marketplace page size never exceeds the maximum", func(t *testing.T) {
		cfg := &Config{Economy: EconomyConfig{ListingPageSize: 500, ListingMaxPageSize: 50}}

		rules := cfg.MarketplaceRules()

		assert.Equal(t, 50, rules.DefaultPageSize)
		assert.Equal(t, 50, rules.MaxPageSize)
	})

	t.Run("redis trackers outlive a block", func(t *testing.T) {
		cfg := &Config{Abuse: AbuseConfig{BlockDuration: 3 * time.Hour, IdleAfter: time.Hour}}

		opts := cfg.RedisOptions()

		assert.Equal(t, 3*time.Hour, opts.TTL)
	})

	t.Run("development always seeds the demo catalog", func(t *testing.T) {
		cfg := &Config{Environment: Development, Database: DatabaseConfig{Driver: "postgres"}}

		assert.True(t, cfg.DatabaseSettings().SeedDemoCatalog)
		assert.False(t, cfg.IsProduction())
	})
}
