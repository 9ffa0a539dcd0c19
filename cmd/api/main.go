package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/port/notify"
	adminUseCase "github.com/joycoin-platform/joycoin-backend/internal/domain/usecase/adminops"
	authUseCase "github.com/joycoin-platform/joycoin-backend/internal/domain/usecase/auth"
	catalogUseCase "github.com/joycoin-platform/joycoin-backend/internal/domain/usecase/catalog"
	depositUseCase "github.com/joycoin-platform/joycoin-backend/internal/domain/usecase/deposit"
	pointsUseCase "github.com/joycoin-platform/joycoin-backend/internal/domain/usecase/points"

	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/api/handler"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/api/routes"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/database"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/database/migration"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/logger"
	notifyAdapter "github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/notify"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/ratelimit"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/repository"
	timeProvider "github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/time"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	appLogger.SetLevel(coreport.ParseLogLevel(cfg.Logger.Level))
	defer func() { _ = appLogger.Flush() }()

	// Initialize time provider
	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database
	dbManager := database.NewManager(database.FromAppConfig(cfg), appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer dbManager.Close()

	// Run migrations
	if err := migration.Run(dbManager.DB(), appLogger); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbManager.DB(), tp, appLogger)
	depositRepo := repository.NewDepositRepository(dbManager.DB(), appLogger)
	pointRepo := repository.NewPointRepository(dbManager.DB(), appLogger)
	referralRepo := repository.NewReferralRepository(dbManager.DB(), appLogger)
	withdrawalRepo := repository.NewWithdrawalRepository(dbManager.DB(), appLogger)
	productRepo := repository.NewProductRepository(dbManager.DB(), appLogger)
	rateRepo := repository.NewExchangeRateRepository(dbManager.DB(), appLogger)

	// Unit of work (transaction manager)
	uow := database.NewUnitOfWork(dbManager.DB(), appLogger, tp)

	// Seed the admin account, exchange rate and starter catalog
	err = migration.Seed(context.Background(), userRepo, rateRepo, productRepo, &cfg.Admin, tp, appLogger)
	if err != nil {
		appLogger.Error("Failed to seed database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Operator alerts go to Telegram when a bot token is configured
	var notifier notify.Notifier = notifyAdapter.NewNoopNotifier()
	if cfg.Telegram.BotToken != "" {
		telegramNotifier, err := notifyAdapter.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, appLogger)
		if err != nil {
			appLogger.Warn("Telegram notifier disabled", map[string]any{
				"error": err.Error(),
			})
		} else {
			notifier = telegramNotifier
		}
	}

	// Redis backs the deposit rate limiter; without it the limiter passes
	// everything through
	redisClient := connectRedis(cfg, appLogger)
	limiter := ratelimit.NewLimiter(redisClient, cfg.Redis.DepositLimit, cfg.Redis.DepositWindow, appLogger)

	// Token manager for login sessions
	tokens := authUseCase.NewTokenManager([]byte(cfg.JWT.Secret), cfg.JWT.Expiry, tp)

	// Deposit addresses per chain
	addresses := depositAddresses(cfg)

	// Initialize use cases
	authService := authUseCase.NewService(userRepo, rateRepo, uow, tokens, tp, appLogger)
	depositService := depositUseCase.NewService(depositRepo, userRepo, rateRepo, uow, notifier, addresses, tp, appLogger)
	pointsService := pointsUseCase.NewService(userRepo, pointRepo, referralRepo, withdrawalRepo, uow, tp, appLogger)
	catalogService := catalogUseCase.NewService(productRepo, rateRepo, tp, appLogger)
	adminService := adminUseCase.NewService(userRepo, depositRepo, tp, appLogger)

	// Initialize API handlers
	handlers := routes.Handlers{
		Auth:    handler.NewAuthHandler(authService, appLogger),
		Deposit: handler.NewDepositHandler(depositService, appLogger),
		Points:  handler.NewPointsHandler(pointsService, appLogger),
		Catalog: handler.NewCatalogHandler(catalogService, addresses, appLogger),
		Admin:   handler.NewAdminHandler(adminService, appLogger),
	}

	// Initialize Gin router
	router := gin.New()

	// Setup middlewares
	routes.SetupMiddlewares(router, appLogger, cfg.Server.CORSOrigins)

	// Setup routes
	routes.SetupRoutes(router, handlers, tokens, userRepo, limiter, appLogger)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	// Create a deadline to wait for
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown the server
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}

	appLogger.Info("Server exited gracefully", nil)
}

func connectRedis(cfg *config.Config, appLogger coreport.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client, err := ratelimit.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		appLogger.Warn("Redis unavailable, rate limiting disabled", map[string]any{
			"addr":  cfg.Redis.Addr,
			"error": err.Error(),
		})
		return nil
	}
	return client
}

func depositAddresses(cfg *config.Config) map[entity.Chain]string {
	addresses := make(map[entity.Chain]string)
	if cfg.Deposit.AddressTRC20 != "" {
		addresses[entity.ChainTRC20] = cfg.Deposit.AddressTRC20
	}
	if cfg.Deposit.AddressERC20 != "" {
		addresses[entity.ChainERC20] = cfg.Deposit.AddressERC20
	}
	if cfg.Deposit.AddressBSC != "" {
		addresses[entity.ChainBSC] = cfg.Deposit.AddressBSC
	}
	if cfg.Deposit.AddressPolygon != "" {
		addresses[entity.ChainPolygon] = cfg.Deposit.AddressPolygon
	}
	return addresses
}
