//	@title			Studio API
//	@version		1.0
//	@description	Back office for a photography studio: clients, albums and photos.
//
//	@host		localhost:8000
//	@BasePath	/
//
//	@securityDefinitions.apikey	APIKey
//	@in							header
//	@name						X-API-Key
//	@description				Studio API key, or a Bearer token when AUTH_MODE=jwt.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/roberta/studio/internal/auth"
	"github.com/roberta/studio/internal/config"
	"github.com/roberta/studio/internal/db"
	"github.com/roberta/studio/internal/logging"
	"github.com/roberta/studio/internal/media"
	"github.com/roberta/studio/internal/metrics"
	appMiddleware "github.com/roberta/studio/internal/middleware"
	"github.com/roberta/studio/internal/response"
	"github.com/roberta/studio/internal/score"
	"github.com/roberta/studio/internal/storage"

	_ "github.com/roberta/studio/docs/swagger"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	metrics.Register()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	repo, closeRepo, err := openRepository(startCtx, cfg, logger)
	if err != nil {
		logger.Fatal("document store init failed", zap.Error(err))
	}
	defer closeRepo()

	store, err := openStorage(startCtx, cfg, logger)
	if err != nil {
		logger.Fatal("object storage init failed", zap.Error(err))
	}

	// Wire dependencies: repository + storage → service → handler
	mediaSvc := media.NewService(repo, storage.NewInstrumented(store), logger,
		media.WithIOTimeout(cfg.IOTimeout),
		media.WithUploadTimeout(cfg.UploadTimeout),
		media.WithPresignTTL(cfg.PresignTTL),
	)
	mediaHandler := media.NewHandler(mediaSvc, logger)
	scoreHandler := score.NewHandler(cfg.ScoreThreshold, logger)
	requireAuth := appMiddleware.RequireCredential(newChecker(cfg))

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(logger))
	r.Use(appMiddleware.Metrics)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", auth.APIKeyHeader},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{"status": "ok", "environment": cfg.AppEnv})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Swagger UI at http://localhost:8000/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Post("/score", scoreHandler.Score)
	mediaHandler.Register(r, requireAuth)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.UploadTimeout,
		WriteTimeout: cfg.UploadTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server listening",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.AppEnv),
			zap.String("document_store", cfg.DocumentStore),
			zap.String("storage_backend", cfg.StorageBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}

// openRepository connects the configured document store and returns its
// repository along with a function releasing the connection.
func openRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (media.Repository, func(), error) {
	switch cfg.DocumentStore {
	case config.DocumentStoreMongo:
		client, database, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.EnsureMongoIndexes(ctx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("mongo disconnect failed", zap.Error(err))
			}
		}
		return media.NewMongoRepository(database), closeFn, nil
	case config.DocumentStorePostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(cfg.DatabaseURL, logger); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return media.NewPostgresRepository(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown document store %q", cfg.DocumentStore)
	}
}

// openStorage builds the configured object-store backend.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendMinio:
		return storage.NewMinioStorage(ctx, storage.MinioOptions{
			Endpoint:  cfg.StorageEndpoint,
			AccessKey: cfg.StorageAccessKey,
			SecretKey: cfg.StorageSecretKey,
			Bucket:    cfg.StorageBucket,
			Region:    cfg.AWSRegion,
			UseSSL:    cfg.StorageUseSSL,
		}, logger)
	case config.StorageBackendS3:
		return storage.NewS3Storage(ctx, storage.S3Options{
			Bucket:          cfg.StorageBucket,
			Region:          cfg.AWSRegion,
			EndpointURL:     cfg.AWSEndpointURL,
			UsePathStyle:    cfg.AWSPathStyle,
			AccessKeyID:     cfg.StorageAccessKey,
			SecretAccessKey: cfg.StorageSecretKey,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func newChecker(cfg *config.Config) auth.Checker {
	if cfg.AuthMode == config.AuthModeJWT {
		return auth.NewJWT(cfg.JWTSecret)
	}
	return auth.NewStaticKey(cfg.APIKey)
}
