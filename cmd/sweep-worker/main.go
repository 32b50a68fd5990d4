package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Yashvvvv/VenueSync/internal/di"
	"github.com/Yashvvvv/VenueSync/pkg/config"
	"github.com/Yashvvvv/VenueSync/pkg/database"
	"github.com/Yashvvvv/VenueSync/pkg/logger"
	pkgredis "github.com/Yashvvvv/VenueSync/pkg/redis"
	"go.uber.org/zap"
)

// sweep-worker runs the expiration and event completion sweeps outside the
// API process. Run several replicas with Redis enabled; each tick is done by
// whichever replica takes the lock.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCfg := &logger.Config{
		Level:       cfg.App.Environment,
		ServiceName: "sweep-worker",
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting Sweep Worker...")

	loc, err := cfg.Ticketing.Location()
	if err != nil {
		appLog.Fatal("Invalid time zone", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbCfg := database.FromAppConfig(&cfg.Database, cfg.Ticketing.TimeZone, "sweep-worker", false)
	dbCfg.MaxConns = 4
	dbCfg.MinConns = 1
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	appLog.Info("Database connected")

	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(ctx, pkgredis.FromAppConfig(&cfg.Redis))
		if err != nil {
			appLog.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLog.Info("Redis connected")
	} else {
		appLog.Warn("Redis disabled, sweeps run without a lock; run a single replica")
	}

	container := di.NewContainer(&di.ContainerConfig{
		DB:        db,
		Redis:     redisClient,
		Location:  loc,
		Ticketing: cfg.Ticketing,
		Scheduler: cfg.Scheduler,
		Logger:    appLog,
	})

	if err := container.LoadScripts(ctx); err != nil {
		appLog.Warn("Failed to pre-load Lua scripts", zap.Error(err))
	}

	if err := container.SweepWorker.Start(ctx); err != nil {
		appLog.Fatal("Failed to start sweep worker", zap.Error(err))
	}
	appLog.Info("Sweep Worker started successfully")

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down worker...")
	container.SweepWorker.Stop()
	cancel()

	stats := container.SweepWorker.GetStats()
	appLog.Info("Worker exited gracefully",
		zap.Int64("runs", stats.Runs),
		zap.Int64("expired", stats.TotalExpired),
		zap.Int64("completed", stats.TotalCompleted))
}
