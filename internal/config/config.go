package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port            string
	GinMode         string
	LogLevel        string
	DBDriver        string
	DatabaseURL     string
	JWTSecret       string
	JWTExpiryHours  int
	CORSOrigins     []string
	RequestTimeoutS int
}

func Load() *Config {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBDriver:        getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:     getEnv("DATABASE_URL", "host=localhost user=todo password=todo dbname=todo port=5432 sslmode=disable"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTExpiryHours:  getEnvInt("JWT_EXPIRATION_HOURS", 24),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		RequestTimeoutS: getEnvInt("REQUEST_TIMEOUT_SECONDS", 30),
	}

	// Local debug runs may omit JWT_SECRET; release mode never falls back
	// and is rejected by Validate instead.
	if cfg.JWTSecret == "" && cfg.GinMode != "release" {
		cfg.JWTSecret = "insecure-development-secret-change-me"
	}

	return cfg
}

// Validate rejects configurations that would be unsafe to run with.
// A weak signing secret is tolerated only in debug mode.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.JWTExpiryHours <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be positive, got %d", c.JWTExpiryHours)
	}

	if c.GinMode == "release" && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in release mode")
	}

	return nil
}

// TokenExpirySeconds is the value reported as expires_in on login.
func (c *Config) TokenExpirySeconds() int {
	return c.JWTExpiryHours * 3600
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
