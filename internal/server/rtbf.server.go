package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rtbf-service/internal/config"
	"rtbf-service/internal/handler"
	"rtbf-service/internal/middleware"
	"rtbf-service/internal/repository"
	"rtbf-service/internal/router"
	"rtbf-service/internal/service/kafka"
	"rtbf-service/internal/service/session"
	"rtbf-service/internal/service/storage"
	"rtbf-service/internal/usecase"
	"rtbf-service/pkg/cache"
	"rtbf-service/pkg/jwtutil"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func NewServer(cfg config.AppConfig, logger *zap.Logger) {
	ctx := context.Background()

	// Initialize database connection
	db, err := config.ConnectDB()
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Redis: sessions + rate limiting
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
	})
	defer rdb.Close()

	rateCache := cache.NewCache([]string{cfg.RedisAddr}, cfg.RedisPass, false)

	// Repositories
	membershipRepo := repository.NewMembershipRepository(db)
	contentRepo := repository.NewContentRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Kafka audit producer
	auditProducer, err := kafka.NewRTBFAuditProducer(cfg.KafkaBrokers)
	if err != nil {
		logger.Fatal("failed to create kafka producer", zap.Error(err))
	}
	defer auditProducer.Close()

	// Object storage for media blobs
	mediaStore, err := storage.NewMediaStore(ctx, cfg.MediaBucket, cfg.GCSCredentialsFile)
	if err != nil {
		logger.Fatal("failed to create media store", zap.Error(err))
	}
	defer mediaStore.Close()

	sessionStore := session.NewStore(rdb)

	// Usecases
	analyzer := usecase.NewAnalyzerUsecase(membershipRepo, contentRepo, auditProducer, logger)
	executor := usecase.NewExecutorUsecase(membershipRepo, contentRepo, profileRepo, mediaStore, sessionStore, auditProducer, logger)

	// Auth middleware
	verifier, err := jwtutil.LoadAndBuild(jwtutil.JWTConfig{
		PubPath:  cfg.JWTPublicKeyPath,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	})
	if err != nil {
		logger.Fatal("failed to build jwt verifier", zap.Error(err))
	}
	auth := middleware.NewAuthMiddleware(verifier)

	// HTTP
	h := handler.NewRTBFHandler(analyzer, executor, logger)
	r := chi.NewRouter()
	router.SetupRoutes(r, h, auth, rateCache)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddress,
		Handler: r,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddress))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	// ================================
	// GRACEFUL SHUTDOWN
	// ================================

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped gracefully")
}
