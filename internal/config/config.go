package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string // sqlite, postgres or mysql
	DatabasePath   string // sqlite only
	DatabaseURL    string // postgres/mysql connection string
	MigrationsPath string

	SessionDuration time.Duration

	// Child PIN lockout policy
	PinMaxAttempts     int
	PinLockoutDuration time.Duration

	// Family invite lifetime
	InviteTTL time.Duration

	// Secrets
	CSRFSecret       string
	ChildTokenSecret string

	// Google OAuth
	GoogleClientID       string
	GoogleClientSecret   string
	OAuthRedirectBaseURL string

	// Email (Amazon SES)
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./chorestar.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		SessionDuration: time.Duration(getEnvInt("SESSION_DURATION_HOURS", 24)) * time.Hour,

		PinMaxAttempts:     getEnvInt("PIN_MAX_ATTEMPTS", 5),
		PinLockoutDuration: time.Duration(getEnvInt("PIN_LOCKOUT_MINUTES", 15)) * time.Minute,

		InviteTTL: time.Duration(getEnvInt("INVITE_TTL_HOURS", 24*7)) * time.Hour,

		CSRFSecret:       getEnv("CSRF_SECRET", ""),
		ChildTokenSecret: getEnv("CHILD_TOKEN_SECRET", ""),

		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", ""),

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "ChoreStar"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:8080"),
	}
}

// Validate checks that secrets required for a working deployment are present
func (c *Config) Validate() error {
	if c.CSRFSecret == "" {
		return ErrMissingSecret{"CSRF_SECRET"}
	}
	if c.ChildTokenSecret == "" {
		return ErrMissingSecret{"CHILD_TOKEN_SECRET"}
	}
	return nil
}

// ErrMissingSecret indicates a required secret is not configured
type ErrMissingSecret struct {
	Name string
}

func (e ErrMissingSecret) Error() string {
	return "required secret " + e.Name + " is not configured"
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
