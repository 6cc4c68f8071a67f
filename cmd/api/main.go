package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"

	"github.com/clinisafe/clinica-api/internal/config"
	"github.com/clinisafe/clinica-api/internal/database"
	"github.com/clinisafe/clinica-api/internal/handlers"
	"github.com/clinisafe/clinica-api/internal/jobs"
	"github.com/clinisafe/clinica-api/internal/middleware"
	"github.com/clinisafe/clinica-api/internal/models"
	"github.com/clinisafe/clinica-api/internal/repository"
	"github.com/clinisafe/clinica-api/internal/schema"
	"github.com/clinisafe/clinica-api/internal/services"
	"github.com/clinisafe/clinica-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if len(cfg.EncryptionKey) == 0 {
		logger.Warn("Diagnosis encryption disabled: ENCRYPTION_KEY not set. Diagnoses will be stored as given.")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Apply the schema. Idempotent: tables, indexes and seed users are
	// created only if absent.
	schemaOpts := schema.FromHardenedFlag(cfg.SchemaHardened)
	if err := schema.Apply(context.Background(), db, schemaOpts); err != nil {
		logger.Error("Failed to apply schema", "error", err)
		os.Exit(1)
	}
	logger.Info("Schema applied", "hardened", cfg.SchemaHardened)

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, worker)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public, rate limited)
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(cfg.LoginRateLimit, cfg.LoginRateBurst))
		{
			auth.POST("/login", h.Auth.Login)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("/users", h.User.Create)
				admin.GET("/users", h.User.List)
				admin.GET("/users/:user_id", h.User.Show)
				admin.DELETE("/users/:user_id", h.User.Delete)
				admin.GET("/users/:user_id/consents", h.User.Consents)

				admin.GET("/logs", h.Audit.List)
				admin.GET("/consents", h.Consent.List)

				admin.POST("/patients/anonymize", h.Patient.AnonymizeAll)
				admin.POST("/patients/:patient_id/anonymize", h.Patient.Anonymize)
				admin.GET("/patients/export", h.Patient.Export)
			}

			// Clinical staff routes
			staff := protected.Group("")
			staff.Use(middleware.RequireRole(models.RoleAdmin, models.RoleDoctor, models.RoleReceptionist))
			{
				staff.POST("/patients", h.Patient.Create)
				staff.GET("/patients", h.Patient.List)
				staff.GET("/patients/:patient_id", h.Patient.Show)
				staff.PUT("/patients/:patient_id", h.Patient.Update)
			}

			// Consent (any authenticated user, about themselves)
			protected.POST("/consents", h.Consent.Grant)
			protected.GET("/consents/mine", h.Consent.Mine)
		}
	}

	return router
}
