package router

import (
	"encoding/json"
	"net/http"

	"github.com/flowcrm/crm-api/internal/config"
	"github.com/flowcrm/crm-api/internal/database"
	"github.com/flowcrm/crm-api/internal/http/handler"
	"github.com/flowcrm/crm-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/flowcrm/crm-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	rateLimiter      *middleware.RateLimiter
	companyHandler   *handler.CompanyHandler
	contactHandler   *handler.ContactHandler
	stageHandler     *handler.StageHandler
	dealHandler      *handler.DealHandler
	quoteHandler     *handler.QuoteHandler
	taskHandler      *handler.TaskHandler
	noteHandler      *handler.NoteHandler
	activityHandler  *handler.ActivityHandler
	dashboardHandler *handler.DashboardHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	rateLimiter *middleware.RateLimiter,
	companyHandler *handler.CompanyHandler,
	contactHandler *handler.ContactHandler,
	stageHandler *handler.StageHandler,
	dealHandler *handler.DealHandler,
	quoteHandler *handler.QuoteHandler,
	taskHandler *handler.TaskHandler,
	noteHandler *handler.NoteHandler,
	activityHandler *handler.ActivityHandler,
	dashboardHandler *handler.DashboardHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		rateLimiter:      rateLimiter,
		companyHandler:   companyHandler,
		contactHandler:   contactHandler,
		stageHandler:     stageHandler,
		dealHandler:      dealHandler,
		quoteHandler:     quoteHandler,
		taskHandler:      taskHandler,
		noteHandler:      noteHandler,
		activityHandler:  activityHandler,
		dashboardHandler: dashboardHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)
	r.Use(chimiddleware.Timeout(rt.cfg.Server.RequestTimeoutDuration()))

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		code := http.StatusOK
		if !allHealthy {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Companies
		r.Route("/companies", func(r chi.Router) {
			r.Get("/", rt.companyHandler.List)
			r.Post("/", rt.companyHandler.Create)
			r.Get("/{id}", rt.companyHandler.GetByID)
			r.Put("/{id}", rt.companyHandler.Update)
			r.Delete("/{id}", rt.companyHandler.Delete)
		})

		// Contacts
		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", rt.contactHandler.List)
			r.Post("/", rt.contactHandler.Create)
			r.Get("/{id}", rt.contactHandler.GetByID)
			r.Put("/{id}", rt.contactHandler.Update)
			r.Delete("/{id}", rt.contactHandler.Delete)
		})

		// Pipeline stage configuration
		r.Route("/stages", func(r chi.Router) {
			r.Get("/", rt.stageHandler.List)
			r.Post("/", rt.stageHandler.Create)
			r.Put("/{id}", rt.stageHandler.Update)
			r.Delete("/{id}", rt.stageHandler.Delete)
		})

		// Deals and the pipeline board
		r.Route("/deals", func(r chi.Router) {
			r.Get("/", rt.dealHandler.List)
			r.Post("/", rt.dealHandler.Create)
			r.Get("/pipeline", rt.dealHandler.GetPipeline)
			r.Get("/{id}", rt.dealHandler.GetByID)
			r.Put("/{id}", rt.dealHandler.Update)
			r.Delete("/{id}", rt.dealHandler.Delete)
			r.Put("/{id}/stage", rt.dealHandler.MoveStage)
			r.Get("/{id}/history", rt.dealHandler.GetStageHistory)
		})

		// Quotes and line items
		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", rt.quoteHandler.List)
			r.Post("/", rt.quoteHandler.Create)
			r.Get("/{id}", rt.quoteHandler.GetByID)
			r.Put("/{id}", rt.quoteHandler.Update)
			r.Delete("/{id}", rt.quoteHandler.Delete)
			r.Post("/{id}/items", rt.quoteHandler.AddItem)
			r.Put("/{id}/items/{lineNo}", rt.quoteHandler.UpdateItem)
			r.Delete("/{id}/items/{lineNo}", rt.quoteHandler.RemoveItem)
		})

		// Tasks
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", rt.taskHandler.List)
			r.Post("/", rt.taskHandler.Create)
			r.Get("/{id}", rt.taskHandler.GetByID)
			r.Put("/{id}", rt.taskHandler.Update)
			r.Delete("/{id}", rt.taskHandler.Delete)
			r.Post("/{id}/complete", rt.taskHandler.Complete)
			r.Post("/{id}/reopen", rt.taskHandler.Reopen)
		})

		// Notes
		r.Route("/notes", func(r chi.Router) {
			r.Get("/", rt.noteHandler.List)
			r.Post("/", rt.noteHandler.Create)
			r.Get("/{id}", rt.noteHandler.GetByID)
			r.Put("/{id}", rt.noteHandler.Update)
			r.Delete("/{id}", rt.noteHandler.Delete)
		})

		// Activity feed
		r.Get("/activities", rt.activityHandler.List)

		// Dashboard
		r.Get("/dashboard/metrics", rt.dashboardHandler.GetMetrics)
	})

	return r
}
