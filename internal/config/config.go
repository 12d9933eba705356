// Package config manages application configuration
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port            string
	Environment     string // "development" or "production"
	ShutdownTimeout time.Duration

	// Storage
	Storage     string // "memory" or "sqlite"
	DatabaseURL string
	RedisURL    string // favorites go to Redis when set

	// Client identity cookie
	SecretKey      string // For JWT signing
	ClientDuration time.Duration
	SecureCookies  bool

	// Rate limiting, requests per second
	RateLimit      float64
	RateLimitBurst int

	LogLevel string

	// Cooking sessions
	SessionTTL   time.Duration
	TickInterval time.Duration
}

// DefaultSecretKey signs client cookies when MYRECIPES_SECRET_KEY is unset
const DefaultSecretKey = "dev-secret-key-change-in-production"

// Load reads configuration from environment variables with sensible
// defaults. A .env file in the working directory is applied first; values
// already set in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	env := getEnv("MYRECIPES_ENV", "development")
	return &Config{
		Port:            getEnv("MYRECIPES_PORT", "8080"),
		Environment:     env,
		ShutdownTimeout: getDurationEnv("MYRECIPES_SHUTDOWN_TIMEOUT", 15*time.Second),
		Storage:         getEnv("MYRECIPES_STORAGE", StorageMemory),
		DatabaseURL:     getEnv("MYRECIPES_DATABASE_URL", "myrecipes.db"),
		RedisURL:        getEnv("MYRECIPES_REDIS_URL", ""),
		SecretKey:       getEnv("MYRECIPES_SECRET_KEY", DefaultSecretKey),
		ClientDuration:  getDurationEnv("MYRECIPES_CLIENT_DURATION", 365*24*time.Hour),
		SecureCookies:   getBoolEnv("MYRECIPES_SECURE_COOKIES", env == "production"),
		RateLimit:       getFloatEnv("MYRECIPES_RATE_LIMIT", 50),
		RateLimitBurst:  getIntEnv("MYRECIPES_RATE_LIMIT_BURST", 100),
		LogLevel:        getEnv("MYRECIPES_LOG_LEVEL", "info"),
		SessionTTL:      getDurationEnv("MYRECIPES_SESSION_TTL", 2*time.Hour),
		TickInterval:    getDurationEnv("MYRECIPES_TICK_INTERVAL", time.Second),
	}
}

// UsesDefaultSecret reports whether client cookies are signed with the
// built-in development key
func (c *Config) UsesDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesSQLite returns true when repositories should be backed by DatabaseURL
func (c *Config) UsesSQLite() bool {
	return c.Storage == StorageSQLite
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
