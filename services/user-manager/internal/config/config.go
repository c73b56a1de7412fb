// Package config provides configuration for the user-manager service
package config

import (
	"fmt"
	"os"
	"time"

	sharedConfig "github.com/chamagol/backend/libs/config"
	"github.com/chamagol/backend/services/user-manager/internal/payment"
)

const defaultPort = 8081

// Config holds all configuration for the user-manager service
type Config struct {
	sharedConfig.Config
	Database      DatabaseConfig
	Redis         RedisConfig
	SMTP          SMTPConfig
	PasswordReset PasswordResetConfig
	MercadoPago   payment.Credentials
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SMTPConfig holds SMTP server configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// PasswordResetConfig holds password recovery settings
type PasswordResetConfig struct {
	TTL        time.Duration
	ConfirmURL string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	shared, err := sharedConfig.Load(defaultPort)
	if err != nil {
		return nil, err
	}

	cfg := &Config{Config: *shared}

	if cfg.Database.Host, err = sharedConfig.RequiredEnv("DB_HOST"); err != nil {
		return nil, err
	}
	if _, err = sharedConfig.RequiredEnv("DB_PORT"); err != nil {
		return nil, err
	}
	if cfg.Database.Port, err = sharedConfig.IntEnv("DB_PORT", 0); err != nil {
		return nil, err
	}
	if cfg.Database.User, err = sharedConfig.RequiredEnv("DB_USER"); err != nil {
		return nil, err
	}
	if cfg.Database.Password, err = sharedConfig.RequiredEnv("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.Database.DBName, err = sharedConfig.RequiredEnv("DB_NAME"); err != nil {
		return nil, err
	}

	cfg.Redis.Host = sharedConfig.StringEnv("REDIS_HOST", "localhost")
	if cfg.Redis.Port, err = sharedConfig.IntEnv("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.DB, err = sharedConfig.IntEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}

	cfg.SMTP.Host = sharedConfig.StringEnv("SMTP_HOST", "localhost")
	if cfg.SMTP.Port, err = sharedConfig.IntEnv("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME")
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	cfg.SMTP.From = sharedConfig.StringEnv("SMTP_FROM", "noreply@chamagol.com")

	ttl, err := time.ParseDuration(sharedConfig.StringEnv("PASSWORD_RESET_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid PASSWORD_RESET_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("PASSWORD_RESET_TTL must be positive")
	}
	cfg.PasswordReset.TTL = ttl
	cfg.PasswordReset.ConfirmURL = sharedConfig.StringEnv(
		"PASSWORD_RESET_CONFIRM_URL",
		fmt.Sprintf("http://localhost:%d/api/auth/email/confirm", cfg.Server.Port),
	)

	// mercadopago.access.token: no default and no validation, the value is handed to the payment client as is
	cfg.MercadoPago.AccessToken = os.Getenv("MERCADOPAGO_ACCESS_TOKEN")

	return cfg, nil
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// RedisAddr returns the Redis host:port address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
