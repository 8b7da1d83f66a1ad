package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flowcrm/crm-api/docs"
	"github.com/flowcrm/crm-api/internal/config"
	"github.com/flowcrm/crm-api/internal/database"
	"github.com/flowcrm/crm-api/internal/http/handler"
	"github.com/flowcrm/crm-api/internal/http/middleware"
	"github.com/flowcrm/crm-api/internal/http/router"
	"github.com/flowcrm/crm-api/internal/jobs"
	"github.com/flowcrm/crm-api/internal/logger"
	"github.com/flowcrm/crm-api/internal/repository"
	"github.com/flowcrm/crm-api/internal/service"
	"go.uber.org/zap"
)

// @title FlowCRM API
// @version 1.0
// @description CRM API for pipeline, quote, and contact management

// @contact.name API Support
// @contact.email support@flowcrm.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.App.Port)

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Seed the default pipeline stage set into an empty database
	if err := database.SeedDefaultStages(db); err != nil {
		return fmt.Errorf("failed to seed pipeline stages: %w", err)
	}

	// Initialize repositories
	companyRepo := repository.NewCompanyRepository(db)
	contactRepo := repository.NewContactRepository(db)
	stageRepo := repository.NewStageRepository(db)
	dealRepo := repository.NewDealRepository(db)
	historyRepo := repository.NewDealStageHistoryRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	numberSequenceRepo := repository.NewNumberSequenceRepository(db)

	// Initialize services
	numberSequenceService := service.NewNumberSequenceService(numberSequenceRepo, log)
	companyService := service.NewCompanyService(companyRepo, activityRepo, log)
	contactService := service.NewContactService(contactRepo, companyRepo, activityRepo, log)
	stageService := service.NewStageService(stageRepo, dealRepo, log)
	dealService := service.NewDealService(dealRepo, stageRepo, companyRepo, contactRepo, historyRepo, activityRepo, log)
	quoteService := service.NewQuoteService(quoteRepo, dealRepo, numberSequenceService, activityRepo, log)
	taskService := service.NewTaskService(taskRepo, activityRepo, log)
	noteService := service.NewNoteService(noteRepo, log)
	activityService := service.NewActivityService(activityRepo, log)
	dashboardService := service.NewDashboardService(dealRepo, stageRepo, taskRepo, quoteRepo, contactRepo, companyRepo, log)

	// Initialize middleware
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	companyHandler := handler.NewCompanyHandler(companyService, log)
	contactHandler := handler.NewContactHandler(contactService, log)
	stageHandler := handler.NewStageHandler(stageService, log)
	dealHandler := handler.NewDealHandler(dealService, log)
	quoteHandler := handler.NewQuoteHandler(quoteService, log)
	taskHandler := handler.NewTaskHandler(taskService, log)
	noteHandler := handler.NewNoteHandler(noteService, log)
	activityHandler := handler.NewActivityHandler(activityService, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		rateLimiter,
		companyHandler,
		contactHandler,
		stageHandler,
		dealHandler,
		quoteHandler,
		taskHandler,
		noteHandler,
		activityHandler,
		dashboardHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.QuoteExpiryEnabled {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterQuoteExpiryJob(
			scheduler,
			quoteService,
			log,
			cfg.Jobs.QuoteExpiryCron,
			cfg.Jobs.QuoteExpiryTimeoutDuration(),
		); err != nil {
			log.Error("Failed to register quote expiry job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with quote expiry job",
				zap.String("cron_expr", cfg.Jobs.QuoteExpiryCron),
				zap.Duration("timeout", cfg.Jobs.QuoteExpiryTimeoutDuration()),
			)
		}
	} else {
		log.Info("Quote expiry job disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
