package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/isdelr/keypulse-be/internal/encryption"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort int
	Env        string
	LogLevel   string

	DatabaseDriver string // "sqlite" or "postgres"
	DatabasePath   string
	DatabaseURL    string

	EncryptionKey []byte
	JWTSecret     string
	JWTExpiry     time.Duration

	CORSOrigins []string

	AuthRateLimit  int
	AuthRateWindow time.Duration
	RedisURL       string

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a reverse proxy that overwrites those headers.
	TrustProxy bool
}

// Load loads configuration from environment variables (and an optional .env
// file), applying defaults and validating required values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "3000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	jwtExpiry, err := time.ParseDuration(getEnv("JWT_EXPIRY", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY: %w", err)
	}

	rateLimit, err := strconv.Atoi(getEnv("AUTH_RATE_LIMIT", "100"))
	if err != nil || rateLimit <= 0 {
		return nil, fmt.Errorf("invalid AUTH_RATE_LIMIT %q", getEnv("AUTH_RATE_LIMIT", ""))
	}

	rateWindow, err := time.ParseDuration(getEnv("AUTH_RATE_WINDOW", "15m"))
	if err != nil || rateWindow <= 0 {
		return nil, fmt.Errorf("invalid AUTH_RATE_WINDOW %q", getEnv("AUTH_RATE_WINDOW", ""))
	}

	trustProxy, err := strconv.ParseBool(getEnv("TRUST_PROXY", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRUST_PROXY: %w", err)
	}

	cfg := &Config{
		ServerPort:     port,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabaseDriver: strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
		DatabasePath:   getEnv("DATABASE_PATH", "./"+getEnv("DB_NAME", "keypulse")+".db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTExpiry:      jwtExpiry,
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		AuthRateLimit:  rateLimit,
		AuthRateWindow: rateWindow,
		RedisURL:       getEnv("REDIS_URL", ""),
		TrustProxy:     trustProxy,
	}

	switch cfg.DatabaseDriver {
	case "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required when DATABASE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	rawKey := getEnv("ENCRYPTION_KEY", "")
	if rawKey == "" {
		return nil, errors.New("ENCRYPTION_KEY is required")
	}
	cfg.EncryptionKey, err = encryption.ParseHexKey(rawKey)
	if err != nil {
		return nil, fmt.Errorf("invalid ENCRYPTION_KEY: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
