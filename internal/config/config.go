package config

import (
	"os"
	"strconv"
	"time"

	"clientportal/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Sheets   SheetsConfig
	Webhook  WebhookConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port         string
	SecureCookie bool
}

// AuthConfig holds OTP and session settings
type AuthConfig struct {
	OTPTTL     time.Duration
	SessionTTL time.Duration
}

// SheetsConfig holds published-sheet fetch settings
type SheetsConfig struct {
	CacheTTL    time.Duration
	HTTPTimeout time.Duration
}

// WebhookConfig holds outbound webhook settings
type WebhookConfig struct {
	EmailURL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port:         getEnvOrDefault("PORT", "8080"),
			SecureCookie: getEnvBoolOrDefault("SECURE_COOKIES", true),
		},
		Auth: AuthConfig{
			OTPTTL:     time.Duration(getEnvIntOrDefault("OTP_TTL_MIN", 10)) * time.Minute,
			SessionTTL: time.Duration(getEnvIntOrDefault("SESSION_TTL_DAYS", 30)) * 24 * time.Hour,
		},
		Sheets: SheetsConfig{
			CacheTTL:    time.Duration(getEnvIntOrDefault("SHEET_CACHE_TTL_SEC", 300)) * time.Second,
			HTTPTimeout: time.Duration(getEnvIntOrDefault("SHEET_HTTP_TIMEOUT_SEC", 15)) * time.Second,
		},
		Webhook: WebhookConfig{
			EmailURL: os.Getenv("WEBHOOK_EMAIL_URL"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(c *Config) error {
	if c.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	if c.Auth.OTPTTL <= 0 {
		return errors.ConfigInvalid("OTP_TTL_MIN must be positive")
	}
	if c.Auth.SessionTTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL_DAYS must be positive")
	}
	if c.Sheets.CacheTTL < 0 {
		return errors.ConfigInvalid("SHEET_CACHE_TTL_SEC must not be negative")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
