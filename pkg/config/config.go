package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	UserID   string

	// Database
	DatabaseURL string
	SQLitePath  string

	// Redis
	RedisURL string

	// RabbitMQ
	RabbitMQURL string

	// Interpretation oracle
	OracleURL       string
	OracleAPIKey    string
	OracleModel     string
	OracleTimeout   time.Duration
	OracleCacheTTL  time.Duration
	OracleCacheOn   bool
	ConfidenceFloor float64
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		UserID:   getEnv("FLOWSPACE_USER_ID", "00000000-0000-0000-0000-000000000001"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", defaultSQLitePath()),

		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		OracleURL:       getEnv("ORACLE_URL", "https://api.openai.com/v1/chat/completions"),
		OracleAPIKey:    getEnv("ORACLE_API_KEY", ""),
		OracleModel:     getEnv("ORACLE_MODEL", "gpt-4o-mini"),
		OracleTimeout:   getDurationEnv("ORACLE_TIMEOUT", 10*time.Second),
		OracleCacheTTL:  getDurationEnv("ORACLE_CACHE_TTL", 15*time.Minute),
		OracleCacheOn:   getBoolEnv("ORACLE_CACHE_ENABLED", true),
		ConfidenceFloor: getFloatEnv("ORACLE_CONFIDENCE_FLOOR", 0.6),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// HasPostgres reports whether a Postgres connection string is configured.
func (c *Config) HasPostgres() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".flowspace/flowspace.db"
	}
	return home + "/.flowspace/flowspace.db"
}
