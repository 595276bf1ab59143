package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage drivers for repositories.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// File store backends for uploaded statement files.
const (
	FileStoreLocal = "local"
	FileStoreGCS   = "gcs"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StorageDriver  string
	MigrationsPath string

	JWTSecret          string
	JWTIssuer          string
	CORSAllowedOrigins []string

	// Extraction collaborator
	GeminiAPIKey string
	GeminiModel  string

	// Statement files
	FileStore      string
	UploadDir      string
	GCSBucket      string
	GCSEndpoint    string
	MaxUploadBytes int

	// Pipeline tuning
	ClassifierRulesPath     string
	DiningWantsThreshold    decimal.Decimal
	ReconciliationTolerance decimal.Decimal
	DuplicateDateWindowDays int
	ExtractionRateLimit     string

	PosthogAPIKey string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "mma-statements")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	viper.SetDefault("FILE_STORE", FileStoreLocal)
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("GCS_BUCKET", "")
	viper.SetDefault("GCS_ENDPOINT", "")
	viper.SetDefault("MAX_UPLOAD_BYTES", 20<<20)
	viper.SetDefault("CLASSIFIER_RULES_PATH", "")
	viper.SetDefault("DINING_WANTS_THRESHOLD", "50")
	viper.SetDefault("RECONCILIATION_TOLERANCE", "0.01")
	viper.SetDefault("DUPLICATE_DATE_WINDOW_DAYS", 1)
	viper.SetDefault("EXTRACTION_RATE_LIMIT", "10-M")
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:             viper.GetString("PGSQL_URL"),
		Port:                    viper.GetString("PORT"),
		IsProduction:            viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:           viper.GetBool("ENABLE_DB_CHECK"),
		StorageDriver:           strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		MigrationsPath:          viper.GetString("MIGRATIONS_PATH"),
		JWTSecret:               viper.GetString("JWT_SECRET"),
		JWTIssuer:               viper.GetString("JWT_ISSUER"),
		CORSAllowedOrigins:      splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		GeminiAPIKey:            viper.GetString("GEMINI_API_KEY"),
		GeminiModel:             viper.GetString("GEMINI_MODEL"),
		FileStore:               strings.ToLower(viper.GetString("FILE_STORE")),
		UploadDir:               viper.GetString("UPLOAD_DIR"),
		GCSBucket:               viper.GetString("GCS_BUCKET"),
		GCSEndpoint:             viper.GetString("GCS_ENDPOINT"),
		MaxUploadBytes:          viper.GetInt("MAX_UPLOAD_BYTES"),
		ClassifierRulesPath:     viper.GetString("CLASSIFIER_RULES_PATH"),
		DiningWantsThreshold:    decimalSetting("DINING_WANTS_THRESHOLD", "50"),
		ReconciliationTolerance: decimalSetting("RECONCILIATION_TOLERANCE", "0.01"),
		DuplicateDateWindowDays: viper.GetInt("DUPLICATE_DATE_WINDOW_DAYS"),
		ExtractionRateLimit:     viper.GetString("EXTRACTION_RATE_LIMIT"),
		PosthogAPIKey:           viper.GetString("POSTHOG_API_KEY"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.StorageDriver == StorageDriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set. Statement extraction will fail.")
	}
	if cfg.FileStore == FileStoreGCS && cfg.GCSBucket == "" {
		log.Printf("Warning: FILE_STORE is %s but GCS_BUCKET is empty. Falling back to %s.\n", FileStoreGCS, FileStoreLocal)
		cfg.FileStore = FileStoreLocal
	}

	return cfg, nil
}

func decimalSetting(key, fallback string) decimal.Decimal {
	raw := viper.GetString(key)
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		return decimal.RequireFromString(fallback)
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
