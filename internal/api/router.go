package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roster-api/internal/config"
	"github.com/roster-api/internal/service"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewRouter creates and configures the Gin router. db may be nil, in which
// case /health reports the process only.
func NewRouter(services *service.Services, db HealthChecker, cfg *config.Config, log zerolog.Logger) (*gin.Engine, error) {
	// Set Gin mode
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.Import.MaxUploadSize

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(templates)

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg.Server.AllowedOrigins))

	// Handlers
	flash := newFlashStore(cfg.Security.SecretKey, cfg.IsProduction())
	rosterHandler := NewRosterHandler(services, cfg, flash, log)
	importHandler := NewImportHandler(services, cfg, flash, log)
	exportHandler := NewExportHandler(services, log)

	// Health check
	router.GET("/health", healthCheck(db, cfg))
	router.GET("/metrics", metricsHandler(services))
	router.Static("/static", cfg.Web.StaticDir)

	// Roster
	router.GET("/", rosterHandler.Index)
	employees := router.Group("/func")
	{
		employees.POST("/novo", rosterHandler.Create)
		employees.POST("/:id/toggle_exame", rosterHandler.ToggleExam)
		employees.POST("/:id/toggle_contrato", rosterHandler.ToggleContract)
		employees.POST("/:id/ajusta_diaria", rosterHandler.AdjustRate)
	}

	// Admin
	admin := router.Group("/admin")
	{
		admin.GET("/importar_ods", importHandler.Form)
		admin.POST("/importar_ods", importHandler.Upload)
		admin.GET("/exportar", exportHandler.StreamExport)
	}

	return router, nil
}

// healthCheck returns the health status
func healthCheck(db HealthChecker, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		dbStatus := "unknown"

		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.HealthCheck(ctx); err != nil {
				status, code, dbStatus = "unhealthy", http.StatusServiceUnavailable, err.Error()
			} else {
				dbStatus = "ok"
			}
		}

		c.JSON(code, gin.H{
			"status":    status,
			"database":  dbStatus,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   cfg.App.Name,
		})
	}
}

// metricsHandler returns roster counters
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := services.Roster.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute metrics"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"roster":    stats,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// requestIDMiddleware tags every request with an id, reusing the caller's
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("request_id", c.GetString("request_id")).
					Msg("Panic recovered")
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS for the configured origins
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "HX-Request", "HX-Target", "HX-Current-URL", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
