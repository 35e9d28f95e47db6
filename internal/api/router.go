package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Conceptual-Machines/chordgen-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/chordgen-api/internal/api/middleware"
	"github.com/Conceptual-Machines/chordgen-api/internal/config"
	"github.com/Conceptual-Machines/chordgen-api/internal/engine"
	"github.com/Conceptual-Machines/chordgen-api/internal/metrics"
	"github.com/Conceptual-Machines/chordgen-api/internal/middleware"
	"github.com/Conceptual-Machines/chordgen-api/internal/services"
)

// Dependencies are the long-lived services the router wires into handlers
type Dependencies struct {
	DB         *gorm.DB // nil when presets are file-backed
	Engine     *engine.Engine
	Presets    *services.PresetService
	CloudWatch *metrics.Client
}

func SetupRouter(deps Dependencies, cfg *config.Config, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(deps.CloudWatch))

	router.Use(apimiddleware.CORS())

	// Health check
	healthHandler := handlers.NewHealthHandler(deps.DB)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	storage := "file"
	if deps.DB != nil {
		storage = "postgres"
	}
	metricsHandler := handlers.NewMetricsHandler(version, deps.Engine.Meta(), storage)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware(cfg))
	{
		progressionHandler := handlers.NewProgressionHandler(deps.Engine, deps.CloudWatch)
		v1.GET("/meta", progressionHandler.Meta)
		v1.POST("/progressions", progressionHandler.Generate)
		v1.POST("/progressions/midi", progressionHandler.ExportMIDI)
		v1.POST("/progressions/midi/events", progressionHandler.ExportMIDIEvents)

		presetHandler := handlers.NewPresetHandler(deps.Presets, progressionHandler)
		v1.GET("/presets", presetHandler.List)
		v1.POST("/presets", presetHandler.Save)
		v1.GET("/presets/:name", presetHandler.Get)
		v1.GET("/presets/:name/midi", presetHandler.ExportMIDI)

		// Deleting shared presets is reserved for admins once callers are authenticated
		if cfg.AuthMode == config.AuthModeNone {
			v1.DELETE("/presets/:name", presetHandler.Delete)
		} else {
			v1.DELETE("/presets/:name", middleware.RoleRequired(middleware.RoleAdmin), presetHandler.Delete)
		}
	}

	return router
}

func authMiddleware(cfg *config.Config) gin.HandlerFunc {
	switch {
	case cfg.IsGatewayMode():
		return apimiddleware.GatewayAuth()
	case cfg.IsJWTMode():
		return middleware.JWTAuth(cfg.JWTSecret)
	default:
		return apimiddleware.NoAuth()
	}
}
