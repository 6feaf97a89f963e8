package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"folio/internal/config"
	"folio/internal/db"
	"folio/internal/jobs"
	"folio/internal/metrics"
	"folio/internal/server"
	"folio/internal/validation"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}
	yamlCfg.Apply(cfg)
	if yamlCfg != nil {
		validation.ReserveSlugs(yamlCfg.ReservedSlugs)
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Register Prometheus collectors
	metrics.Init(database)

	// Start background link health checking
	if cfg.HealthCheckEnabled {
		checker := jobs.NewHealthChecker(database, cfg.HealthCheckInterval, cfg.HealthCheckMaxAge, cfg.HealthCheckBatch)
		go checker.Start(ctx)
	}

	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
