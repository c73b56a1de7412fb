// Package config provides configuration shared by all services
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds settings every service needs regardless of its domain
type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
	CORS    CORSConfig
	Sentry  SentryConfig
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// SentryConfig holds error reporting settings.
// Reporting is disabled when DSN is empty.
type SentryConfig struct {
	DSN         string
	Environment string
}

// Load reads shared configuration from environment variables.
//
// A .env file in the working directory is loaded first when present.
// "defaultPort" is used when SERVER_PORT is not set, so each service can listen on its own port.
func Load(defaultPort int) (*Config, error) {
	// .env is optional, real environment variables take precedence
	_ = godotenv.Load()

	cfg := &Config{}

	serverPort, err := IntEnv("SERVER_PORT", defaultPort)
	if err != nil {
		return nil, err
	}
	cfg.Server.Port = serverPort

	cfg.Logging.Level = StringEnv("LOG_LEVEL", "info")

	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	cfg.Sentry.DSN = os.Getenv("SENTRY_DSN")
	cfg.Sentry.Environment = StringEnv("SENTRY_ENVIRONMENT", "development")

	return cfg, nil
}

// StringEnv returns the value of the environment variable or "fallback" when it is empty
func StringEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// IntEnv parses the environment variable as an integer, returning "fallback" when it is empty
func IntEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

// RequiredEnv returns the value of the environment variable or an error when it is empty
func RequiredEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return value, nil
}

// parseOrigins splits a comma-separated list of origins.
// An empty list allows all origins (development default).
func parseOrigins(raw string) []string {
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, origin := range parts {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
