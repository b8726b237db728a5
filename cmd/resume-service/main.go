package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/talentflow/talentflow-backend/internal/resume/enhance"
	"github.com/talentflow/talentflow-backend/internal/resume/events"
	"github.com/talentflow/talentflow-backend/internal/resume/extraction"
	"github.com/talentflow/talentflow-backend/internal/resume/handler"
	"github.com/talentflow/talentflow-backend/internal/resume/match"
	"github.com/talentflow/talentflow-backend/internal/resume/parsing"
	"github.com/talentflow/talentflow-backend/internal/resume/pipeline"
	"github.com/talentflow/talentflow-backend/internal/resume/repository"
	"github.com/talentflow/talentflow-backend/internal/resume/service"
	"github.com/talentflow/talentflow-backend/internal/resume/storage"
	"github.com/talentflow/talentflow-backend/internal/resume/validation"
	"github.com/talentflow/talentflow-backend/pkg/config"
	"github.com/talentflow/talentflow-backend/pkg/database"
	"github.com/talentflow/talentflow-backend/pkg/httputil"
	"github.com/talentflow/talentflow-backend/pkg/logger"
	"github.com/talentflow/talentflow-backend/pkg/messaging"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("resume-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("resume-service", cfg.Server.Environment)
	log.Info().Msg("starting Resume Service")

	// Connect to database (optional: the service runs without audit persistence)
	var db *database.DB
	var auditRepo *repository.AuditRepository
	if cfg.Database.Enabled() {
		db, err = database.New(&cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
		auditRepo = repository.NewAuditRepository(db)
	} else {
		log.Info().Msg("no database configured, audit persistence disabled")
	}

	// Connect to RabbitMQ (optional: the service runs without event publishing)
	var rmq *messaging.RabbitMQ
	var publisher *events.PipelineEventPublisher
	if cfg.RabbitMQ.URL != "" {
		rmq, err = messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()

		publisher, err = events.NewPipelineEventPublisher(rmq, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
	} else {
		log.Info().Msg("no RabbitMQ configured, event publishing disabled")
	}

	// Build the extraction engine registry
	registry := extraction.NewRegistry(
		extraction.NewPDFEngine(),
		extraction.NewRelaxedPDFEngine(),
		extraction.NewStreamEngine(),
		extraction.NewPlainTextEngine(),
		extraction.NewOCREngine(cfg.Services.OCRServiceURL, cfg.Pipeline.OCRConcurrency),
	)
	extractor := extraction.NewExtractor(registry, &cfg.Pipeline.Confidence, log)

	// Build pipeline collaborators
	parser := parsing.NewParser(log)
	enhancer := enhance.NewClient(cfg.Services.EnhancementServiceURL)
	matcher := match.NewClient(cfg.Services.MatchingServiceURL)
	validator := validation.NewValidator(cfg.Pipeline.MinParsingConfidence)

	orchestrator := pipeline.NewOrchestrator(extractor, parser, enhancer, matcher, validator, &cfg.Pipeline, log)

	// Initialize job store and service
	jobs := storage.NewJobStore(cfg.Pipeline.JobTTL)
	resumeService := service.NewService(orchestrator, jobs, publisher, auditRepo, log)

	// Initialize handler
	resumeHandler := handler.NewHandler(resumeService, cfg.Pipeline.Extraction, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		health := map[string]interface{}{
			"status":  "healthy",
			"service": "resume-service",
			"engines": extractor.Capabilities().Flags(),
		}
		if db != nil {
			health["database"] = db.Health(req.Context())
		}
		if rmq != nil {
			health["rabbitmq"] = rmq.Health()
		}
		httputil.JSON(w, http.StatusOK, health)
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		resumeHandler.Routes(r)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
