// backend/cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/profinder/backend/internal/api/handlers"
	"github.com/profinder/backend/internal/catalog"
	"github.com/profinder/backend/internal/config"
	"github.com/profinder/backend/internal/database"
	"github.com/profinder/backend/internal/gate"
	"github.com/profinder/backend/internal/health"
	"github.com/profinder/backend/internal/license"
	"github.com/profinder/backend/internal/matcher"
	"github.com/profinder/backend/internal/middleware"
	"github.com/profinder/backend/internal/models"
	"github.com/profinder/backend/internal/payment"
	"github.com/profinder/backend/internal/registry"
	"github.com/profinder/backend/internal/repository"
	"github.com/profinder/backend/pkg/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	logger := utils.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Missing receiver or price is fatal here, never per-request.
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Configuration validation failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbManager, err := database.NewManager(&database.Config{
		DatabaseURL: cfg.Database.URL,
		RedisURL:    cfg.Redis.URL,
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database manager")
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		logger.WithError(err).Fatal("Database migration failed")
	}

	store := buildSettlementStore(ctx, cfg, dbManager, logger)

	var analytics models.SearchQueryRepository
	if dbManager.DB != nil {
		analytics = repository.NewSearchQueryRepository(dbManager.DB)
	}

	cat, err := catalog.Load(cfg.Catalog.Path, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load catalog")
	}

	var resolver license.Resolver
	if cfg.LicenseBoard.URL != "" {
		resolver = license.NewBoardResolver(cfg.LicenseBoard.URL, cfg.LicenseBoard.Timeout, cfg.LicenseBoard.CacheTTL, logger)
		logger.WithField("url", cfg.LicenseBoard.URL).Info("Using license board resolver")
	} else {
		resolver = license.NewDeterministicResolver()
		logger.Info("Using deterministic license resolver")
	}

	facilitator := payment.NewHTTPFacilitator(cfg.Facilitator.URL, cfg.Facilitator.Timeout, logger)

	retryConfig := payment.DefaultRetryConfig()
	retryConfig.MaxRetries = cfg.Facilitator.MaxRetries

	verifier := payment.NewVerifier(facilitator, store, retryConfig, logger)
	builder := payment.NewBuilder(cfg)

	requestGate := gate.New(
		builder,
		verifier,
		matcher.New(cfg.Match.Limit),
		resolver,
		cat,
		cfg.Payment.Price,
		logger,
	)

	checker := health.NewChecker(dbManager, cfg.Facilitator.URL, logger)
	go checker.PeriodicHealthCheck(ctx, time.Minute)

	if cfg.Registry.URL != "" {
		go registerIdentity(ctx, cfg, logger)
	}

	router := buildRouter(cfg, requestGate, builder, checker, analytics, logger)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting ProFinder server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}

// buildSettlementStore prefers the durable backends when configured:
// Postgres, then Redis, then the in-process map.
func buildSettlementStore(ctx context.Context, cfg *config.Config, dbManager *database.Manager, logger *logrus.Logger) payment.SettlementStore {
	window := cfg.Payment.DedupWindow

	if dbManager.DB != nil {
		logger.Info("Using database-backed settlement store")
		store := repository.NewGormSettlementStore(dbManager.DB, window)
		go func() {
			ticker := time.NewTicker(window / 2)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := store.EvictExpired(ctx); err != nil {
						logger.WithError(err).Warn("Settlement eviction failed")
					}
				}
			}
		}()
		return store
	}

	if dbManager.Redis != nil {
		logger.Info("Using Redis-backed settlement store")
		return payment.NewRedisStore(dbManager.Redis, window)
	}

	logger.Info("Using in-memory settlement store")
	store := payment.NewMemoryStore(window)
	go store.EvictLoop(ctx, window/2)
	return store
}

func buildRouter(
	cfg *config.Config,
	requestGate *gate.Gate,
	builder *payment.Builder,
	checker *health.Checker,
	analytics models.SearchQueryRepository,
	logger *logrus.Logger,
) *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.SecurityHeaders())

	rateLimiter := middleware.NewRateLimiter(60)
	router.Use(rateLimiter.RateLimit())

	findHandler := handlers.NewFindHandler(requestGate, cfg, analytics, logger)
	infoHandler := handlers.NewInfoHandler(cfg, builder, checker)

	router.GET("/", infoHandler.HandleRoot)
	router.GET("/health", infoHandler.HandleHealth)
	router.GET("/payment-info", infoHandler.HandlePaymentInfo)
	router.POST("/find", findHandler.HandleFind)

	return router
}

func registerIdentity(ctx context.Context, cfg *config.Config, logger *logrus.Logger) {
	client := registry.NewClient(cfg.Registry.URL, logger)
	metadata := registry.BuildMetadata(cfg)

	regCtx, regCancel := context.WithTimeout(ctx, time.Minute)
	defer regCancel()

	if err := client.Register(regCtx, metadata); err != nil {
		logger.WithError(err).Warn("Identity registration failed")
	}
}
