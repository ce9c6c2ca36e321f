package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "GE"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
	"../configs/.env",
	"../../configs/.env",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file first
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// database.host is read from GE_DATABASE_HOST
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			lastError = err
			continue
		}
		return nil
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}
	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration.
// Tier tables (weights, sell prices, action limits) default inside their packages.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 15)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds

	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 5) // minutes
	v.SetDefault("database.connMaxIdleTime", 5) // minutes
	v.SetDefault("database.queryTimeout", 10)   // seconds
	v.SetDefault("database.slowThresholdMs", 200)
	v.SetDefault("database.logLevel", "warn")
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 2)       // seconds
	v.SetDefault("database.monitorInterval", 30) // seconds
	v.SetDefault("database.seedDemoCatalog", false)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.serviceName", "booster-economy")

	v.SetDefault("transaction.maxRetries", 3)
	v.SetDefault("transaction.retryBackoffMs", 20)
	v.SetDefault("transaction.timeoutMs", 5000)

	v.SetDefault("economy.maxBalance", 1_000_000_000)
	v.SetDefault("economy.maxAllotment", 3)
	v.SetDefault("economy.allotmentIntervalMinutes", 720)
	v.SetDefault("economy.boosterSize", 5)
	v.SetDefault("economy.startingBalance", 0)
	v.SetDefault("economy.dailyReward", 100)
	v.SetDefault("economy.dailyCooldownHours", 24)
	v.SetDefault("economy.dailyPeriodHours", 24)
	v.SetDefault("economy.maxListingPrice", 1_000_000)
	v.SetDefault("economy.listingCap", 20)
	v.SetDefault("economy.listingPageSize", 20)
	v.SetDefault("economy.listingMaxPageSize", 100)

	v.SetDefault("rarity.alternateChance", 0.10)
	v.SetDefault("rarity.maxAttempts", 10)
	v.SetDefault("rarity.seed", 0)

	v.SetDefault("abuse.backend", "memory")
	v.SetDefault("abuse.ceiling", 100)
	v.SetDefault("abuse.blockMinutes", 30)
	v.SetDefault("abuse.decayPerAccept", 1)
	v.SetDefault("abuse.windowMinutes", 60)
	v.SetDefault("abuse.sweepMinutes", 60)
	v.SetDefault("abuse.idleMinutes", 60)
	v.SetDefault("abuse.automationMinSamples", 10)
	v.SetDefault("abuse.automationMaxStdDevMs", 100)
	v.SetDefault("abuse.automationMaxMeanMs", 10000)

	v.SetDefault("achievement.async", false)
	v.SetDefault("achievement.timeoutSeconds", 5)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.keyPrefix", "booster:gate:")
	v.SetDefault("redis.maxRetries", 5)

	v.SetDefault("catalog.cacheTTLSeconds", 60)

	v.SetDefault("audit.bufferSize", 1024)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.namespace", "booster_economy")
}

// getEnvironment determines the environment from GE_ENV
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides applies the short-form variables used by deployments.
// They win over both the config file and the automatic GE_<SECTION>_<KEY> form.
func processEnvOverrides(v *viper.Viper) {
	for env, key := range map[string]string{
		"GE_DB_DRIVER":      "database.driver",
		"GE_DB_HOST":        "database.host",
		"GE_DB_USERNAME":    "database.username",
		"GE_DB_PASSWORD":    "database.password",
		"GE_DB_NAME":        "database.database",
		"GE_DB_SSL_MODE":    "database.sslMode",
		"GE_REDIS_ADDR":     "redis.addr",
		"GE_REDIS_PASSWORD": "redis.password",
		"GE_SERVER_HOST":    "server.host",
		"GE_LOG_LEVEL":      "logger.level",
		"GE_GATE_BACKEND":   "abuse.backend",
	} {
		if value := os.Getenv(env); value != "" {
			v.Set(key, value)
		}
	}

	if port := getEnvInt("GE_DB_PORT", 0); port > 0 {
		v.Set("database.port", port)
	}
	if port := getEnvInt("GE_SERVER_PORT", 0); port > 0 {
		v.Set("server.port", port)
	}
	if maxOpenConns := getEnvInt("GE_DB_MAX_OPEN_CONNS", 0); maxOpenConns > 0 {
		v.Set("database.maxOpenConns", maxOpenConns)
	}
	if maxIdleConns := getEnvInt("GE_DB_MAX_IDLE_CONNS", 0); maxIdleConns > 0 {
		v.Set("database.maxIdleConns", maxIdleConns)
	}
	if maxRetries := getEnvInt("GE_TRANSACTION_MAX_RETRIES", -1); maxRetries >= 0 {
		v.Set("transaction.maxRetries", maxRetries)
	}
}

// getEnvInt reads an integer variable, falling back to defaultVal when unset or malformed
func getEnvInt(name string, defaultVal int) int {
	valStr := os.Getenv(name)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// processDurations converts the raw unit counts read from yaml into durations
func processDurations(config *Config) {
	config.Server.ReadTimeout *= time.Second
	config.Server.WriteTimeout *= time.Second
	config.Server.IdleTimeout *= time.Second
	config.Server.ReadHeaderTimeout *= time.Second
	config.Server.ShutdownTimeout *= time.Second

	config.Database.ConnMaxLifetime *= time.Minute
	config.Database.ConnMaxIdleTime *= time.Minute
	config.Database.QueryTimeout *= time.Second
	config.Database.SlowThreshold *= time.Millisecond
	config.Database.RetryDelay *= time.Second
	config.Database.MonitorInterval *= time.Second

	config.Transaction.RetryBackoff *= time.Millisecond
	config.Transaction.Timeout *= time.Millisecond

	config.Economy.AllotmentInterval *= time.Minute
	config.Economy.DailyCooldown *= time.Hour
	config.Economy.DailyPeriod *= time.Hour

	config.Abuse.BlockDuration *= time.Minute
	config.Abuse.Window *= time.Minute
	config.Abuse.SweepInterval *= time.Minute
	config.Abuse.IdleAfter *= time.Minute
	config.Abuse.AutomationMaxStdDev *= time.Millisecond
	config.Abuse.AutomationMaxMean *= time.Millisecond
	for action, limit := range config.Abuse.Limits {
		limit.MinDelay *= time.Millisecond
		config.Abuse.Limits[action] = limit
	}

	config.Achievement.Timeout *= time.Second
	config.Catalog.CacheTTL *= time.Second
}
