package di

import (
	"context"
	"time"

	"github.com/Yashvvvv/VenueSync/internal/clock"
	"github.com/Yashvvvv/VenueSync/internal/handler"
	"github.com/Yashvvvv/VenueSync/internal/repository"
	"github.com/Yashvvvv/VenueSync/internal/service"
	"github.com/Yashvvvv/VenueSync/internal/worker"
	"github.com/Yashvvvv/VenueSync/pkg/config"
	"github.com/Yashvvvv/VenueSync/pkg/database"
	"github.com/Yashvvvv/VenueSync/pkg/logger"
	"github.com/Yashvvvv/VenueSync/pkg/redis"
	"github.com/Yashvvvv/VenueSync/pkg/retry"
)

// Container holds all dependencies for the ticketing service
type Container struct {
	// Infrastructure
	DB       *database.PostgresDB
	Redis    *redis.Client
	Clock    clock.Clock
	Location *time.Location

	// Repositories
	UserRepo       repository.UserRepository
	EventRepo      repository.EventRepository
	TicketTypeRepo repository.TicketTypeRepository
	TicketRepo     repository.TicketRepository
	QrCodeRepo     repository.QrCodeRepository
	ValidationRepo repository.ValidationRepository
	SweepLock      repository.SweepLock

	// Publishers
	EventPublisher service.EventPublisher

	// Services
	PurchaseService    service.PurchaseService
	ValidationService  service.ValidationService
	TicketService      service.TicketService
	QrCodeService      *service.QrCodeService
	ExpirationService  service.ExpirationService
	EventStatusService service.EventStatusService

	// Workers
	SweepWorker *worker.SweepWorker

	// Handlers
	HealthHandler     *handler.HealthHandler
	PurchaseHandler   *handler.PurchaseHandler
	TicketHandler     *handler.TicketHandler
	ValidationHandler *handler.ValidationHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB *database.PostgresDB
	// Redis is nil when disabled; sweeps then run without a lock
	Redis          *redis.Client
	EventPublisher service.EventPublisher
	Location       *time.Location
	Ticketing      config.TicketingConfig
	Scheduler      config.SchedulerConfig
	Logger         *logger.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}

	c := &Container{
		DB:             cfg.DB,
		Redis:          cfg.Redis,
		Location:       cfg.Location,
		Clock:          clock.NewSystem(cfg.Location),
		EventPublisher: cfg.EventPublisher,
	}
	if c.EventPublisher == nil {
		c.EventPublisher = service.NewNoOpEventPublisher()
	}

	// Initialize repositories
	pool := cfg.DB.Pool()
	c.UserRepo = repository.NewPostgresUserRepository(pool)
	c.EventRepo = repository.NewPostgresEventRepository(pool, cfg.Location)
	c.TicketTypeRepo = repository.NewPostgresTicketTypeRepository(pool, cfg.Location)
	c.TicketRepo = repository.NewPostgresTicketRepository(pool, cfg.Location)
	c.QrCodeRepo = repository.NewPostgresQrCodeRepository(pool, cfg.Location)
	c.ValidationRepo = repository.NewPostgresValidationRepository(pool)
	if cfg.Redis != nil {
		c.SweepLock = repository.NewRedisSweepLock(cfg.Redis)
	}

	// Initialize services
	tx := database.NewTxManager(pool)
	c.QrCodeService = service.NewQrCodeService(c.TicketRepo, c.QrCodeRepo, c.Clock, cfg.Ticketing.QRImageSize)

	issueRetry := retry.DefaultConfig()
	issueRetry.MaxRetries = cfg.Ticketing.QRIssueRetries
	c.PurchaseService = service.NewPurchaseService(
		tx,
		c.UserRepo,
		c.TicketTypeRepo,
		c.TicketRepo,
		service.NewInventoryLedger(c.TicketRepo),
		c.QrCodeService,
		c.EventPublisher,
		c.Clock,
		&service.PurchaseServiceConfig{IssueRetry: issueRetry, Logger: log},
	)
	c.ValidationService = service.NewValidationService(
		tx,
		c.TicketRepo,
		c.QrCodeRepo,
		c.ValidationRepo,
		c.EventPublisher,
		c.Clock,
		log,
	)
	c.TicketService = service.NewTicketService(c.TicketRepo, c.Clock, &service.TicketServiceConfig{
		DefaultPageSize: cfg.Ticketing.DefaultPageSize,
		MaxPageSize:     cfg.Ticketing.MaxPageSize,
	})
	c.ExpirationService = service.NewExpirationService(c.TicketRepo, log)
	c.EventStatusService = service.NewEventStatusService(c.EventRepo, log)

	// Initialize workers
	c.SweepWorker = worker.NewSweepWorker(c.ExpirationService, c.EventStatusService, c.SweepLock, c.Clock,
		&worker.SweepWorkerConfig{
			Interval:     cfg.Scheduler.Interval,
			InitialDelay: cfg.Scheduler.InitialDelay,
			LockTTL:      cfg.Scheduler.LockTTL,
		})

	// Initialize handlers
	var redisCheck handler.HealthChecker
	if cfg.Redis != nil {
		redisCheck = cfg.Redis
	}
	c.HealthHandler = handler.NewHealthHandler(cfg.DB, redisCheck)
	c.PurchaseHandler = handler.NewPurchaseHandler(c.PurchaseService)
	c.TicketHandler = handler.NewTicketHandler(c.TicketService, c.QrCodeService)
	c.ValidationHandler = handler.NewValidationHandler(c.ValidationService)

	return c
}

// LoadScripts pre-loads Redis scripts; a no-op when Redis is disabled
func (c *Container) LoadScripts(ctx context.Context) error {
	if lock, ok := c.SweepLock.(*repository.RedisSweepLock); ok {
		return lock.LoadScripts(ctx)
	}
	return nil
}
