// Package config provides centralized configuration loaded from environment
// variables, with an optional .env file read first.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config holds everything the CLI and API server need
type Config struct {
	// Storage
	Store          string
	DataDir        string
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int

	// API server
	APIHost          string
	APIPort          int
	CORSAllowOrigins []string

	// Batch processing and fetching
	PaceDelay              time.Duration
	FetchRequestsPerMinute int
	FetchTimeout           time.Duration
	UserAgent              string

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadDotEnv reads variables from the given files (default ".env") without overriding
// ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Store:          strings.ToLower(envOr("BOXSCORES_STORE", StoreFile)),
		DataDir:        envOr("BOXSCORES_DATA_DIR", "~/.local/share/boxscores"),
		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 5),

		APIHost: envOr("API_HOST", "0.0.0.0"),
		APIPort: envInt("API_PORT", envInt("PORT", 8000)),
		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		PaceDelay:              envDuration("PACE_DELAY", 2*time.Second),
		FetchRequestsPerMinute: envInt("FETCH_REQUESTS_PER_MINUTE", 60),
		FetchTimeout:           envDuration("FETCH_TIMEOUT", 30*time.Second),
		UserAgent:              envOr("USER_AGENT", ""),

		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", "json"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations the env helpers cannot
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set when BOXSCORES_STORE=postgres")
		}
	default:
		return fmt.Errorf("unknown BOXSCORES_STORE %q (want memory, file or postgres)", c.Store)
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("invalid API_PORT %d", c.APIPort)
	}
	if c.PaceDelay < 0 {
		return fmt.Errorf("PACE_DELAY must not be negative")
	}
	return nil
}

// Addr returns the API listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
