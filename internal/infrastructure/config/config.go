package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string            `mapstructure:"environment"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Transaction TransactionConfig `mapstructure:"transaction"`
	Economy     EconomyConfig     `mapstructure:"economy"`
	Rarity      RarityConfig      `mapstructure:"rarity"`
	Abuse       AbuseConfig       `mapstructure:"abuse"`
	Achievement AchievementConfig `mapstructure:"achievement"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Audit       AuditConfig       `mapstructure:"audit"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	SlowThreshold   time.Duration `mapstructure:"slowThresholdMs"` // milliseconds
	LogLevel        string        `mapstructure:"logLevel"`
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"`      // seconds
	MonitorInterval time.Duration `mapstructure:"monitorInterval"` // seconds
	SeedDemoCatalog bool          `mapstructure:"seedDemoCatalog"`
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	ServiceName string `mapstructure:"serviceName"`
}

// TransactionConfig contains unit-of-work retry settings
type TransactionConfig struct {
	MaxRetries   int           `mapstructure:"maxRetries"`
	RetryBackoff time.Duration `mapstructure:"retryBackoffMs"` // milliseconds
	Timeout      time.Duration `mapstructure:"timeoutMs"`      // milliseconds
}

// EconomyConfig contains the currency, allotment and marketplace rules
type EconomyConfig struct {
	MaxBalance         int64            `mapstructure:"maxBalance"`
	MaxAllotment       int              `mapstructure:"maxAllotment"`
	AllotmentInterval  time.Duration    `mapstructure:"allotmentIntervalMinutes"` // minutes
	BoosterSize        int              `mapstructure:"boosterSize"`
	StartingBalance    int64            `mapstructure:"startingBalance"`
	DailyReward        int64            `mapstructure:"dailyReward"`
	DailyCooldown      time.Duration    `mapstructure:"dailyCooldownHours"` // hours
	DailyPeriod        time.Duration    `mapstructure:"dailyPeriodHours"`   // hours
	SellPrices         map[string]int64 `mapstructure:"sellPrices"`
	MaxListingPrice    int64            `mapstructure:"maxListingPrice"`
	ListingCap         int              `mapstructure:"listingCap"`
	ListingPageSize    int              `mapstructure:"listingPageSize"`
	ListingMaxPageSize int              `mapstructure:"listingMaxPageSize"`
}

// RarityWeight is one tier of the ordered weight table
type RarityWeight struct {
	Rarity string  `mapstructure:"rarity"`
	Weight float64 `mapstructure:"weight"`
}

// RarityConfig contains card generator settings
type RarityConfig struct {
	Weights         []RarityWeight `mapstructure:"weights"`
	AlternateChance float64        `mapstructure:"alternateChance"`
	AlternateTiers  []string       `mapstructure:"alternateTiers"`
	MaxAttempts     int            `mapstructure:"maxAttempts"`
	Seed            uint64         `mapstructure:"seed"`
}

// ActionLimitConfig bounds one gated action
type ActionLimitConfig struct {
	PerMinute int           `mapstructure:"perMinute"`
	PerHour   int           `mapstructure:"perHour"`
	MinDelay  time.Duration `mapstructure:"minDelayMs"` // milliseconds
}

// AbuseConfig contains abuse gate settings
type AbuseConfig struct {
	Backend              string                       `mapstructure:"backend"`
	Ceiling              float64                      `mapstructure:"ceiling"`
	BlockDuration        time.Duration                `mapstructure:"blockMinutes"` // minutes
	DecayPerAccept       float64                      `mapstructure:"decayPerAccept"`
	Window               time.Duration                `mapstructure:"windowMinutes"` // minutes
	SweepInterval        time.Duration                `mapstructure:"sweepMinutes"`  // minutes
	IdleAfter            time.Duration                `mapstructure:"idleMinutes"`   // minutes
	AutomationMinSamples int                          `mapstructure:"automationMinSamples"`
	AutomationMaxStdDev  time.Duration                `mapstructure:"automationMaxStdDevMs"` // milliseconds
	AutomationMaxMean    time.Duration                `mapstructure:"automationMaxMeanMs"`   // milliseconds
	Limits               map[string]ActionLimitConfig `mapstructure:"limits"`
}

// AchievementConfig contains progress tracker settings
type AchievementConfig struct {
	Async   bool          `mapstructure:"async"`
	Timeout time.Duration `mapstructure:"timeoutSeconds"` // seconds
}

// RedisConfig contains the shared gate store connection
type RedisConfig struct {
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	KeyPrefix  string `mapstructure:"keyPrefix"`
	MaxRetries int    `mapstructure:"maxRetries"`
}

// CatalogConfig contains card pool cache settings
type CatalogConfig struct {
	CacheTTL time.Duration `mapstructure:"cacheTTLSeconds"` // seconds
}

// AuditConfig contains audit sink settings
type AuditConfig struct {
	BufferSize int `mapstructure:"bufferSize"`
}

// MetricsConfig contains Prometheus exposition settings
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"`
}
