package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interviewsim/internal/catalog"
	"interviewsim/internal/config"
	"interviewsim/internal/database"
	"interviewsim/internal/engine"
	"interviewsim/internal/handlers"
	"interviewsim/internal/repository"
	"interviewsim/internal/security"
	"interviewsim/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	handlers.SetCurrentStep(handlers.StepCatalog)
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load question bank: %v", err)
	}
	log.Printf("Question bank loaded: %d topics", len(cat.Topics()))
	handlers.CompleteStep(handlers.StepCatalog)

	// Initialize database with config (supports sqlite, postgres, mysql)
	handlers.SetCurrentStep(handlers.StepDatabase)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)
	if database.IsMemoryPath(cfg.DatabasePath) && cfg.DatabaseType == "sqlite" {
		log.Println("Run history is in memory and will be lost on restart")
	}
	handlers.CompleteStep(handlers.StepDatabase)

	handlers.SetCurrentStep(handlers.StepMigrations)
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")
	handlers.CompleteStep(handlers.StepMigrations)

	handlers.SetCurrentStep(handlers.StepServices)
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.SummaryEmailTo, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	var notifier service.RunNotifier
	if emailService.IsEnabled() {
		notifier = emailService
	}

	runRepo := repository.NewRunRepository(db)
	quizService := service.NewQuizService(engine.New(cat, newRand(cfg.Seed)), runRepo, notifier, cfg.Debug)

	var limiter *security.RateLimiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = security.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		defer limiter.Stop()
	}
	quizHandler := handlers.NewQuizHandler(quizService, limiter)
	handlers.CompleteStep(handlers.StepServices)

	// Setup routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handlers.ShowStartupStatus)
	quizHandler.RegisterRoutes(mux)

	handler := handlers.Logging(handlers.Recover(handlers.RequireReady(mux)))

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	handlers.MarkReady()

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	quizService.Wait()
}

// newRand returns a fixed-seed source when seed is set so runs can be replayed
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	} else {
		log.Printf("Using fixed random seed %d", seed)
	}
	return rand.New(rand.NewSource(seed))
}
