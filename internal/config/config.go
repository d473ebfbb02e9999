// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Import   ImportConfig
	People   PeopleConfig
	Budget   BudgetConfig
	Sheets   SheetsConfig
	Currency CurrencyConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. When empty, records and
	// import history are kept in memory and lost on restart.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// MigrateOnStart applies pending schema migrations at startup (default: true)
	MigrateOnStart bool `env:"DB_MIGRATE_ON_START" default:"true"`

	// HistoryLimit is how many imports are kept in history (default: 50)
	HistoryLimit int `env:"DB_HISTORY_LIMIT" default:"50"`
}

// Enabled reports whether a database is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// ImportConfig holds CSV import processing settings.
type ImportConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 10MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"10485760"`

	// MaxConcurrent is the maximum number of parallel imports (default: 3)
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" default:"3"`

	// MaxWaitTime is how long to wait for an import slot (default: 30s)
	MaxWaitTime time.Duration `env:"IMPORT_MAX_WAIT_TIME" default:"30s"`

	// Timeout is the maximum duration for a single import, fetch included (default: 2m)
	Timeout time.Duration `env:"IMPORT_TIMEOUT" default:"2m"`

	// AllowPartial accepts the valid rows of an import whose other rows
	// failed (default: false, any failing row rejects the import)
	AllowPartial bool `env:"IMPORT_ALLOW_PARTIAL" default:"false"`

	// AliasFile is an optional YAML file of extra header aliases
	AliasFile string `env:"IMPORT_ALIAS_FILE"`

	// RenewalDefaultToday fills a missing renewal date with the import date (default: false)
	RenewalDefaultToday bool `env:"IMPORT_RENEWAL_DEFAULT_TODAY" default:"false"`

	// DefaultHonesty is the Guna Honesty Meter used when the cell is empty (default: 5)
	DefaultHonesty int `env:"IMPORT_DEFAULT_HONESTY" default:"5"`

	// DefaultCategory is Need or Want (default: Need)
	DefaultCategory string `env:"IMPORT_DEFAULT_CATEGORY" default:"Need"`
}

// PeopleConfig describes who tools can be assigned to.
type PeopleConfig struct {
	// Named is a comma-separated closed list of people. Empty means any
	// value is accepted as-is.
	Named []string `env:"PEOPLE_NAMED"`

	// Shared is the value meaning "split across every named person" (e.g. Both)
	Shared string `env:"PEOPLE_SHARED"`

	// Default is used for an empty cell (default: Unknown, or the first
	// named person when a closed list is configured)
	Default string `env:"PEOPLE_DEFAULT"`
}

// BudgetConfig holds the dashboard alert thresholds.
type BudgetConfig struct {
	// Monthly is the total monthly budget in USD (default: 300)
	Monthly float64 `env:"BUDGET_MONTHLY" default:"300"`

	// PerTool is the monthly cost above which a tool is over budget (default: 50)
	PerTool float64 `env:"BUDGET_PER_TOOL" default:"50"`

	// RenewalWindow is how far ahead renewals are flagged (default: 720h)
	RenewalWindow time.Duration `env:"BUDGET_RENEWAL_WINDOW" default:"720h"`

	// LowUtilityBelow flags tools whose honesty score is below this (default: 5)
	LowUtilityBelow int `env:"BUDGET_LOW_UTILITY_BELOW" default:"5"`
}

// SheetsConfig holds Google Sheets import settings.
type SheetsConfig struct {
	// FetchTimeout bounds a single export download (default: 30s)
	FetchTimeout time.Duration `env:"SHEETS_FETCH_TIMEOUT" default:"30s"`

	// RefreshInterval re-imports the linked sheet periodically (default: 0, disabled)
	RefreshInterval time.Duration `env:"SHEETS_REFRESH_INTERVAL" default:"0s"`
}

// CurrencyConfig holds display currency settings.
type CurrencyConfig struct {
	// INRPerUSD is the fallback exchange rate (default: 83.5)
	INRPerUSD float64 `env:"CURRENCY_INR_PER_USD" default:"83.5"`

	// RateURL is an optional JSON endpoint returning {"usd":{"inr":<rate>}}
	RateURL string `env:"CURRENCY_RATE_URL"`

	// RefreshInterval is how often RateURL is polled (default: 1h)
	RefreshInterval time.Duration `env:"CURRENCY_REFRESH_INTERVAL" default:"1h"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// ImportLimit is requests per minute for import endpoints (default: 10)
	ImportLimit int `env:"RATE_LIMIT_IMPORT" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects /api routes with an API key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
