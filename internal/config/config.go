package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds the server settings read from the environment.
type Config struct {
	HTTPAddr       string
	RedisAddr      string
	SQLitePath     string
	CollectorAddr  string // empty disables the OTLP exporters
	JWTSecret      []byte
	GameTTL        time.Duration
	LogLevel       slog.Level
	ParallelSearch bool
	ServiceName    string
	ServiceVersion string
}

// Load reads the configuration from environment variables, falling back to
// defaults suitable for local development.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		RedisAddr:      getEnv("REDIS_CONNSTRING", "localhost:6379"),
		SQLitePath:     getEnv("SQLITE_PATH", "./master.db"),
		CollectorAddr:  os.Getenv("OTEL_COLLECTOR_ENDPOINT"),
		JWTSecret:      []byte(getEnv("JWT_SECRET", "my_super_secret_key")),
		ServiceName:    getEnv("SERVICE_NAME", "tictactoe-minimax"),
		ServiceVersion: getEnv("SERVICE_VERSION", "v0.1.0"),
	}

	ttl, err := time.ParseDuration(getEnv("GAME_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse GAME_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("GAME_TTL must be positive, got %s", ttl)
	}
	cfg.GameTTL = ttl

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "debug"))); err != nil {
		return nil, fmt.Errorf("failed to parse LOG_LEVEL: %w", err)
	}

	if v := os.Getenv("SEARCH_PARALLEL"); v != "" {
		parallel, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("failed to parse SEARCH_PARALLEL: %w", err)
		}
		cfg.ParallelSearch = parallel
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
