package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"clickpulse.backend/internal/config"
	"clickpulse.backend/internal/infrastructure/jobs"
	"clickpulse.backend/internal/infrastructure/repositories"
	"clickpulse.backend/internal/interfaces/http/handlers"
	"clickpulse.backend/internal/interfaces/http/middleware"
	"clickpulse.backend/internal/ratelimit"
	"clickpulse.backend/internal/usecases"
	"clickpulse.backend/pkg/jwt"
	"clickpulse.backend/pkg/logger"
	"clickpulse.backend/pkg/metrics"
	"clickpulse.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	metrics.Init()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Initialize repositories
	appRepo := repositories.NewAppRepository(db)
	apiKeyRepo := repositories.NewApiKeyRepository(db)
	eventRepo := repositories.NewEventRepository(db)

	// The limiter is handed into the ingest pipeline rather than held
	// as package state, so tests and future transports instantiate
	// their own.
	limiter := ratelimit.NewLimiter(cfg.RateLimit.Window, cfg.RateLimit.Capacity)

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(apiKeyRepo)
	ingestUsecase := usecases.NewIngestUsecase(authUsecase, limiter, eventRepo)
	analyticsUsecase := usecases.NewAnalyticsUsecase(appRepo, eventRepo)
	appUsecase := usecases.NewAppUsecase(appRepo, apiKeyRepo)

	// Initialize handlers
	appHandler := handlers.NewAppHandler(appUsecase)
	eventHandler := handlers.NewEventHandler(ingestUsecase)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweepJob := jobs.NewLimiterSweepJob(limiter, cfg.RateLimit.SweepInterval)
	go sweepJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerRoutes(r, routeDeps{
		appHandler:       appHandler,
		eventHandler:     eventHandler,
		analyticsHandler: analyticsHandler,
		authMiddleware:   authMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		sweepJob.Stop()
		cancel()
	}()

	log.Printf("🚀 ClickPulse Backend starting on port %s", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
