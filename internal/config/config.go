package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	// Environment
	Environment string
	Port        string

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	CloudWatchEnabled bool   // Ship metrics to CloudWatch outside production too

	// Auth mode
	// - "none": No auth (self-hosted, local dev)
	// - "gateway": Trust X-User-* headers from an upstream gateway
	// - "jwt": Validate HS256 bearer tokens signed with JWTSecret
	AuthMode  string
	JWTSecret string

	// Presets are kept in postgres when DatabaseURL is set, otherwise in PresetDir
	DatabaseURL string
	PresetDir   string

	// DefaultSeed pins the seed used when a request carries none (empty = random)
	DefaultSeed *int64
}

const (
	AuthModeNone    = "none"
	AuthModeGateway = "gateway"
	AuthModeJWT     = "jwt"
)

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8080"),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		CloudWatchEnabled: getEnv("CLOUDWATCH_ENABLED", "false") == "true",
		AuthMode:          getEnv("AUTH_MODE", AuthModeNone), // Default to no auth for self-hosted
		JWTSecret:         getEnv("JWT_SECRET", ""),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		PresetDir:         getEnv("PRESET_DIR", "./presets"),
		DefaultSeed:       parseSeed(getEnv("DEFAULT_SEED", "")),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func parseSeed(raw string) *int64 {
	if raw == "" {
		return nil
	}
	seed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("⚠️  Ignoring invalid DEFAULT_SEED %q, using random seeds: %v", raw, err)
		return nil
	}
	return &seed
}

// IsGatewayMode returns true if running behind an auth gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == AuthModeGateway
}

// IsJWTMode returns true if the API validates bearer tokens itself
func (c *Config) IsJWTMode() bool {
	return c.AuthMode == AuthModeJWT
}

// UseDatabase reports whether presets live in postgres
func (c *Config) UseDatabase() bool {
	return c.DatabaseURL != ""
}
