// Package server assembles the HTTP API from configuration.
package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Conceptual-Machines/chordgen-api/internal/api"
	"github.com/Conceptual-Machines/chordgen-api/internal/config"
	"github.com/Conceptual-Machines/chordgen-api/internal/database"
	"github.com/Conceptual-Machines/chordgen-api/internal/engine"
	"github.com/Conceptual-Machines/chordgen-api/internal/metrics"
	"github.com/Conceptual-Machines/chordgen-api/internal/services"
)

const (
	sentryFlushTimeout    = 2 * time.Second
	environmentProduction = "production"
	devVersion            = "dev"
)

// InitSentry configures the Sentry client. The returned func flushes
// buffered events and is safe to call when Sentry is off.
func InitSentry(cfg *config.Config, version string) func() {
	if cfg.SentryDSN == "" {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
		return func() {}
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          "chordgen-api@" + version,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
		EnableLogs:       true,
		Debug:            cfg.Environment != environmentProduction,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			if event.Request != nil {
				event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
			}
			return event
		},
	}); err != nil {
		log.Printf("Failed to initialize Sentry: %v", err)
		return func() {}
	}

	log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, version)
	return func() { sentry.Flush(sentryFlushTimeout) }
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string, len(headers))
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[strings.ToLower(k)] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}

// NewEngine builds the progression engine for this deployment
func NewEngine(cfg *config.Config, version string) *engine.Engine {
	var opts []engine.Option
	if version != "" && version != devVersion {
		opts = append(opts, engine.WithVersion(version))
	}
	if cfg.DefaultSeed != nil {
		opts = append(opts, engine.WithSeedSource(engine.FixedSeed(*cfg.DefaultSeed)))
	}
	return engine.New(opts...)
}

// OpenPresetStore picks postgres when a database is configured, otherwise
// JSON files under PresetDir. The returned db is nil for the file store.
func OpenPresetStore(cfg *config.Config) (services.PresetStore, *gorm.DB, error) {
	if !cfg.UseDatabase() {
		store, err := services.NewFileStore(cfg.PresetDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open preset dir: %w", err)
		}
		log.Printf("📁 Presets stored in %s", cfg.PresetDir)
		return store, nil, nil
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return services.NewGormStore(db), db, nil
}

// NewRouter wires every dependency and returns the ready router
func NewRouter(ctx context.Context, cfg *config.Config, version string) (*gin.Engine, error) {
	if cfg.IsJWTMode() && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required when AUTH_MODE=%s", config.AuthModeJWT)
	}

	eng := NewEngine(cfg, version)

	store, db, err := OpenPresetStore(cfg)
	if err != nil {
		return nil, err
	}

	cw, err := metrics.NewClient(ctx, cfg.Environment, cfg.CloudWatchEnabled)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics client: %w", err)
	}

	if cfg.Environment == environmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	return api.SetupRouter(api.Dependencies{
		DB:         db,
		Engine:     eng,
		Presets:    services.NewPresetService(store, eng),
		CloudWatch: cw,
	}, cfg, version), nil
}

// Run starts the API and blocks until the listener fails
func Run(ctx context.Context, cfg *config.Config, version string) error {
	flush := InitSentry(cfg, version)
	defer flush()

	router, err := NewRouter(ctx, cfg, version)
	if err != nil {
		sentry.CaptureException(err)
		return err
	}

	log.Printf("🚀 Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
