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

	"github.com/Yashvvvv/VenueSync/internal/di"
	"github.com/Yashvvvv/VenueSync/internal/service"
	"github.com/Yashvvvv/VenueSync/migrations"
	"github.com/Yashvvvv/VenueSync/pkg/config"
	"github.com/Yashvvvv/VenueSync/pkg/database"
	"github.com/Yashvvvv/VenueSync/pkg/logger"
	"github.com/Yashvvvv/VenueSync/pkg/middleware"
	pkgredis "github.com/Yashvvvv/VenueSync/pkg/redis"
	"github.com/Yashvvvv/VenueSync/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const serviceName = "venuesync"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       cfg.App.Environment,
		ServiceName: serviceName,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting VenueSync...", zap.String("version", cfg.App.Version))

	loc, err := cfg.Ticketing.Location()
	if err != nil {
		appLog.Fatal("Invalid time zone", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize tracing
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Warn("Tracing disabled", zap.Error(err))
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = telemetry.Shutdown(shutdownCtx)
	}()

	// Initialize database connection
	db, err := database.NewPostgres(ctx, database.FromAppConfig(&cfg.Database, cfg.Ticketing.TimeZone, serviceName, cfg.OTel.Enabled))
	if err != nil {
		appLog.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()
	appLog.Info("Database connected")

	if cfg.Database.AutoMigrate {
		if err := migrations.Apply(ctx, db.Pool()); err != nil {
			appLog.Fatal("Failed to apply migrations", zap.Error(err))
		}
		appLog.Info("Migrations applied")
	}

	// Initialize Redis connection (optional)
	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(ctx, pkgredis.FromAppConfig(&cfg.Redis))
		if err != nil {
			appLog.Warn("Redis connection failed, sweeps run unlocked and idempotency is off", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLog.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	// Initialize Kafka event publisher (optional)
	var eventPublisher service.EventPublisher = service.NewNoOpEventPublisher()
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := service.NewKafkaEventPublisher(ctx, &service.EventPublisherConfig{
			Brokers:     cfg.Kafka.Brokers,
			Topic:       cfg.Kafka.Topic,
			ServiceName: serviceName,
			ClientID:    cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Warn("Kafka connection failed, using no-op publisher", zap.Error(err))
		} else {
			eventPublisher = kafkaPublisher
			appLog.Info("Kafka event publisher connected")
		}
	}
	defer eventPublisher.Close()

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		DB:             db,
		Redis:          redisClient,
		EventPublisher: eventPublisher,
		Location:       loc,
		Ticketing:      cfg.Ticketing,
		Scheduler:      cfg.Scheduler,
		Logger:         appLog,
	})

	// Pre-load Lua scripts into Redis
	if err := container.LoadScripts(ctx); err != nil {
		appLog.Warn("Failed to pre-load Lua scripts", zap.Error(err))
	}

	// In-process sweep scheduler
	if cfg.Scheduler.Enabled {
		if err := container.SweepWorker.Start(ctx); err != nil {
			appLog.Fatal("Failed to start sweep worker", zap.Error(err))
		}
		defer container.SweepWorker.Stop()
	}

	// Setup Gin
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(telemetry.TracingMiddleware(serviceName))
	router.Use(middleware.Logger(appLog))

	// Health check endpoints
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.JWTAuth(&middleware.AuthConfig{
		Secret:             cfg.JWT.Secret,
		Issuer:             cfg.JWT.Issuer,
		TrustGatewayHeader: cfg.JWT.TrustGatewayHeader,
	})

	purchaseChain := []gin.HandlerFunc{container.PurchaseHandler.Purchase}
	if cfg.Ticketing.IdempotencyEnabled && redisClient != nil {
		purchaseChain = append([]gin.HandlerFunc{middleware.Idempotency(&middleware.IdempotencyConfig{
			Redis: redisClient,
			TTL:   cfg.Ticketing.IdempotencyTTL,
		})}, purchaseChain...)
	}

	// API routes
	v1 := router.Group("/api/v1", auth)
	{
		v1.POST("/ticket-types/:id/tickets", purchaseChain...)

		tickets := v1.Group("/tickets")
		{
			tickets.GET("", container.TicketHandler.List)
			tickets.GET("/:id", container.TicketHandler.Get)
			tickets.GET("/:id/qr-codes", container.TicketHandler.QrCode)
		}

		v1.POST("/ticket-validations", container.ValidationHandler.Validate)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in goroutine
	go func() {
		appLog.Info("VenueSync listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", zap.Error(err))
	}

	appLog.Info("Server exited gracefully")
}
