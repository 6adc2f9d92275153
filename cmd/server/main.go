package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/robabby/sacred-geometry-sub000/internal/api"
	"github.com/robabby/sacred-geometry-sub000/internal/catalog"
	"github.com/robabby/sacred-geometry-sub000/internal/config"
	"github.com/robabby/sacred-geometry-sub000/internal/printful"
	"github.com/robabby/sacred-geometry-sub000/internal/repository/postgres"
	"github.com/robabby/sacred-geometry-sub000/internal/service"
	"github.com/robabby/sacred-geometry-sub000/internal/stripe"
	"github.com/robabby/sacred-geometry-sub000/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Starting checkout server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	// Initialize database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := postgres.RunMigrations(db, cfg.Database); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories and provider clients
	repos := postgres.NewRepositories(db, logger)
	printfulClient := printful.NewClient(cfg.Printful, logger)
	stripeClient := stripe.NewClient(cfg.Stripe, logger)
	products := catalog.NewStaticRepository(catalog.DefaultEntries())

	deps := &api.Dependencies{
		Validator: service.NewValidator(products, printfulClient, logger),
		Checkout:  service.NewCheckoutService(stripeClient, cfg.Checkout, logger),
		Orders:    service.NewOrderService(printfulClient, logger),
		Gateway:   stripeClient,
		Verifier:  stripe.NewWebhookVerifier(cfg.Stripe.WebhookSecret),
		Repos:     repos,
		Metrics:   metrics.NewServerMetrics("checkout"),
	}

	// Initialize router
	router := api.NewRouter(cfg, deps, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
