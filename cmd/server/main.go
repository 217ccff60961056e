package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-admissions/internal/app"
	"hospital-admissions/internal/config"
	"hospital-admissions/internal/database"
	"hospital-admissions/internal/events"
	"hospital-admissions/pkg/logger"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()

	format := logger.TEXT
	if cfg.Server.GinMode == gin.ReleaseMode {
		format = logger.JSON
	}
	log := logger.New(logger.Config{
		Level:   cfg.Server.LogLevel,
		Format:  format,
		Service: "hospital-admissions",
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	log.Info("Configuration loaded", "db_driver", cfg.Database.Driver, "auth_enabled", cfg.Auth.Enabled)

	// 2. Initialize database connection
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations", "error", err)
	}
	if cfg.Database.Seed {
		if err := database.Seed(db); err != nil {
			log.Fatal("Failed to seed database", "error", err)
		}
	}

	// 3. Admission events go to Kafka when brokers are configured
	var publisher events.Publisher = events.NewLogPublisher(log.With("component", "events"))
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.AdmissionsTopic)
		if err != nil {
			log.Fatal("Failed to create Kafka publisher", "error", err)
		}
		publisher = kafkaPublisher
		log.Info("Publishing admission events to Kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.AdmissionsTopic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher", "error", err)
		}
	}()

	// 4. Wire services and routes
	gin.SetMode(cfg.Server.GinMode)
	application, err := app.New(cfg, db, publisher, log)
	if err != nil {
		log.Fatal("Failed to build application", "error", err)
	}

	// 5. Start background worker in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go application.Worker.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server exited")
}
