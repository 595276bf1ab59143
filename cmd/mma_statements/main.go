package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/mma_statements/internal/adapters/extractor/gemini"
	"github.com/SscSPs/mma_statements/internal/adapters/pdf"
	"github.com/SscSPs/mma_statements/internal/adapters/storage/gcs"
	"github.com/SscSPs/mma_statements/internal/adapters/storage/local"
	"github.com/SscSPs/mma_statements/internal/core/ports"
	portsrepo "github.com/SscSPs/mma_statements/internal/core/ports/repositories"
	"github.com/SscSPs/mma_statements/internal/core/services"
	"github.com/SscSPs/mma_statements/internal/handlers"
	"github.com/SscSPs/mma_statements/internal/middleware"
	"github.com/SscSPs/mma_statements/internal/platform/config"
	"github.com/SscSPs/mma_statements/internal/repositories/database/pgsql"
	"github.com/SscSPs/mma_statements/internal/repositories/memory"
	"github.com/SscSPs/mma_statements/internal/utils"
	"github.com/SscSPs/mma_statements/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title MMA Statements API
// @version 1.0
// @description Statement ingestion, classification and reconciliation for MMA.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize repositories", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepos()

	files, closeFiles, err := setupFileStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize file store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeFiles()

	extractor, err := gemini.NewExtractor(ctx, cfg.GeminiAPIKey, gemini.WithModel(cfg.GeminiModel))
	if err != nil {
		// Uploads and reads still work; extraction reports the missing collaborator.
		logger.Warn("Extraction disabled", slog.String("error", err.Error()))
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()
	var tracker ports.EventTracker
	if posthogClient.IsInitialized() {
		tracker = posthogClient
	}

	var statementExtractor ports.Extractor = unavailableExtractor{}
	if extractor != nil {
		statementExtractor = extractor
	}

	serviceContainer, err := services.NewServiceContainer(cfg, repos, statementExtractor, files, tracker,
		services.WithPageSplitter(pdf.SplitPages),
	)
	if err != nil {
		logger.Error("Failed to initialize services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, tracker); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage_driver", cfg.StorageDriver), slog.String("file_store", cfg.FileStore))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setupRepositories builds the repositories selected by STORAGE_DRIVER. The
// postgres driver runs migrations before the pool is handed out.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("Using in-memory repositories; data is lost on restart")
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, nil, err
	}

	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

func setupFileStore(ctx context.Context, cfg *config.Config) (ports.FileStore, func(), error) {
	if cfg.FileStore == config.FileStoreGCS {
		store, err := gcs.NewFileStore(ctx, cfg.GCSBucket, cfg.GCSEndpoint)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				slog.Error("Error closing GCS client", slog.String("error", err.Error()))
			}
		}, nil
	}

	store, err := local.NewFileStore(cfg.UploadDir)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}
