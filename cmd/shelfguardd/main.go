// Command shelfguardd is the hosted Shelfguard service.
// It serves the ingest and scorecard API backed by Postgres, with optional
// blob storage for archived workbooks.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/shelfguard/shelfguard/internal/api"
	"github.com/shelfguard/shelfguard/internal/export"
	"github.com/shelfguard/shelfguard/internal/store"
	"github.com/shelfguard/shelfguard/pkg/config"
)

type serverConfig struct {
	Port        string
	DatabaseURL string
	APIKey      string
	ConfigPath  string
	StorageDir  string
	S3Bucket    string
	GCSBucket   string
}

func loadServerConfig() serverConfig {
	return serverConfig{
		Port:        envOrDefault("PORT", "8080"),
		DatabaseURL: envOrDefault("DATABASE_URL", "postgres://localhost:5432/shelfguard?sslmode=disable"),
		APIKey:      os.Getenv("API_KEY"),
		ConfigPath:  os.Getenv("SHELFGUARD_CONFIG"),
		StorageDir:  envOrDefault("LOCAL_STORAGE_PATH", "/tmp/shelfguard-data"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		GCSBucket:   os.Getenv("GCS_BUCKET"),
	}
}

func main() {
	_ = godotenv.Load()
	cfg := loadServerConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := sqlx.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("ping database", zap.Error(err))
	}
	if err := store.AutoMigrate(db.DB); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	storage, err := buildStorage(context.Background(), cfg)
	if err != nil {
		logger.Fatal("init storage", zap.Error(err))
	}

	rules, err := config.Load(cfg.ConfigPath)
	if err != nil {
		logger.Fatal("load scoring config", zap.Error(err))
	}

	handler := api.NewHandler(store.NewService(db), storage, rules, logger)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.CORS(api.APIKeyAuth(cfg.APIKey)(mux)),
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting shelfguardd", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// buildStorage picks the workbook archive backend: GCS, S3, or the local
// filesystem when no bucket is configured.
func buildStorage(ctx context.Context, cfg serverConfig) (export.ReportStorage, error) {
	switch {
	case cfg.GCSBucket != "":
		return export.NewGCSStorage(ctx, cfg.GCSBucket)
	case cfg.S3Bucket != "":
		return export.NewS3Storage(ctx, export.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    os.Getenv("S3_REGION"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
		})
	default:
		return export.NewLocalStorage(cfg.StorageDir), nil
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
