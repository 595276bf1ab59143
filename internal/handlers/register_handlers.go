package handlers

import (
	"fmt"

	"github.com/SscSPs/mma_statements/cmd/docs"
	"github.com/SscSPs/mma_statements/internal/core/ports"
	portssvc "github.com/SscSPs/mma_statements/internal/core/ports/services"
	"github.com/SscSPs/mma_statements/internal/middleware"
	"github.com/SscSPs/mma_statements/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// tracker may be nil.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	tracker ports.EventTracker,
) error {
	r.GET("/health", getHealth)

	if err := setupAPIV1Routes(r, cfg, services, tracker); err != nil {
		return err
	}

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	tracker ports.EventTracker,
) error {
	v1 := r.Group("/api/v1",
		middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer),
		middleware.PosthogMiddleware(tracker),
	)

	var extraction []gin.HandlerFunc
	if cfg.ExtractionRateLimit != "" {
		limiter, err := middleware.NewMemoryLimiter(cfg.ExtractionRateLimit)
		if err != nil {
			return fmt.Errorf("failed to build extraction rate limiter: %w", err)
		}
		extraction = append(extraction, middleware.RateLimit(limiter))
	}

	RegisterStatementRoutes(v1, services.Statement, int64(cfg.MaxUploadBytes), extraction...)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
