package main

import (
	"context"

	"github.com/onebase1/guestglow-backend/internal/config"
	"github.com/onebase1/guestglow-backend/internal/handlers"
	"github.com/onebase1/guestglow-backend/internal/models"
	"github.com/onebase1/guestglow-backend/internal/services"
	"github.com/onebase1/guestglow-backend/internal/utils"
	"github.com/onebase1/guestglow-backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg               *config.Config
	escalationService *services.EscalationService
	digestService     *services.DigestService
	taskQueue         services.TaskQueue
	worker            *services.Worker
	authHandler       *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed default data
	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	// Initialize system logger
	services.InitSystemLogger(models.GetDB())

	// Start system log cleanup scheduler
	services.StartLogCleanupScheduler(models.GetDB())

	db := models.GetDB()
	emailService := services.NewEmailService(db, &cfg.Email)
	goalService := services.NewGoalService(db)
	holidayService := services.NewHolidayService()

	// Start escalation poller
	escalationService := services.NewEscalationService(db, emailService)
	escalationService.StartScheduler(cfg.Escalation.PollInterval)

	// Start daily digest scheduler
	digestService := services.NewDigestService(db, &cfg.Digest, emailService, goalService, holidayService)
	digestService.StartScheduler()

	// Initialize task queue (uses Redis if enabled, otherwise sync mode)
	syncService := services.NewReviewSyncService(db, services.NewScraperClient(&cfg.Scraper))
	processor := func(ctx context.Context, task *services.ReviewSyncTask) error {
		var err error
		switch task.Mode {
		case "page":
			_, err = syncService.SyncPage(ctx, task.TenantID, task.Platform, task.PageURL)
		default:
			_, err = syncService.SyncTenant(ctx, task.TenantID, task.Platform, task.ListingID)
		}
		return err
	}
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(processor)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(processor)
			if err := worker.Start(); err != nil {
				logger.Warn().Err(err).Msg("Failed to start async worker")
			}
		}
	}

	// Create default admin user
	authHandler := handlers.NewAuthHandler(db, cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		cfg:               cfg,
		escalationService: escalationService,
		digestService:     digestService,
		taskQueue:         taskQueue,
		worker:            worker,
		authHandler:       authHandler,
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.escalationService.StopScheduler()
	s.digestService.StopScheduler()
	logger.Info().Msg("All schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
}
