// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"go-shop-api/config"
	"go-shop-api/db"
	"go-shop-api/handler"
	"go-shop-api/logger"
	"go-shop-api/repository"
	"go-shop-api/router"
	"go-shop-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSweepInterval = time.Hour

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	application := wire(database, redisClient)

	// --- Expired refresh token sweeper ---
	// Purely storage hygiene: validation rejects expired records whether
	// or not they were swept yet.
	sweepDone := make(chan struct{})
	go runSweeper(application.TokenService, sweepDone)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: application.Router,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")
	close(sweepDone)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// App bundles the wired layers so tests can drive the real router against
// their own database and redis connections.
type App struct {
	DB           *sql.DB
	Router       http.Handler
	TokenService *service.TokenService
}

func wire(database *sql.DB, redisClient *redis.Client) *App {
	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	productRepo := repository.NewProductRepository(database)

	codec := service.NewTokenCodec(config.AppConfig.JWT.SecretKey)
	authService := service.NewAuthService(userRepo)
	tokenService := service.NewTokenService(codec, tokenRepo, userRepo)
	productService := service.NewProductService(productRepo, redisClient)

	userHandler := handler.NewUserHandler(userRepo, authService)
	authHandler := handler.NewAuthHandler(authService, tokenService)
	productHandler := handler.NewProductHandler(productService)

	return &App{
		DB:           database,
		Router:       router.NewRouter(userHandler, authHandler, productHandler),
		TokenService: tokenService,
	}
}

// NewTestApp wires the application against externally managed connections.
func NewTestApp(database *sql.DB, redisClient *redis.Client) *App {
	return wire(database, redisClient)
}

func runSweeper(tokenService *service.TokenService, done <-chan struct{}) {
	interval := defaultSweepInterval
	if raw := config.AppConfig.Token.SweepInterval; raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			logger.Log.WithError(err).Warn("Invalid token.sweep_interval, using default")
		} else {
			interval = parsed
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := tokenService.SweepExpired(); err != nil {
				logger.Log.WithError(err).Error("Expired refresh token sweep failed")
			}
		case <-done:
			return
		}
	}
}
