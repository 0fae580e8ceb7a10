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

	"github.com/jktools/mediatools/internal/config"
	"github.com/jktools/mediatools/internal/http/handlers"
	"github.com/jktools/mediatools/internal/http/routes"
	"github.com/jktools/mediatools/internal/services/converter"
	"github.com/jktools/mediatools/internal/services/pdf"
	"github.com/jktools/mediatools/internal/services/queue"
	"github.com/jktools/mediatools/internal/services/resizer"
	"github.com/jktools/mediatools/internal/services/storage"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize services
	conv := converter.New(logger)
	res := resizer.New(logger, conv)
	builder := pdf.NewBuilder(logger)

	store, err := storage.NewService(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage service", zap.Error(err))
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	jobs, err := queue.NewService(cfg.RabbitMQ.URL, conv, res, store, logger)
	if err != nil {
		logger.Warn("Failed to initialize queue service", zap.Error(err))
		// Continue without async processing for basic functionality
	} else {
		defer jobs.Close()
		for i := 0; i < cfg.RabbitMQ.Workers; i++ {
			if err := jobs.StartWorker(workerCtx, i); err != nil {
				logger.Error("Failed to start worker", zap.Int("worker_id", i), zap.Error(err))
			}
		}
	}

	// Initialize handlers
	mediaHandler := handlers.NewMediaHandler(conv, res, builder, store, jobs, logger, cfg)

	router := routes.NewRouter(mediaHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
