package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/seonu/drillforge/internal/api"
	"github.com/seonu/drillforge/internal/config"
	"github.com/seonu/drillforge/internal/db"
	"github.com/seonu/drillforge/internal/jobs"
	"github.com/seonu/drillforge/internal/logger"
	"github.com/seonu/drillforge/internal/repository/sqlite"
	"github.com/seonu/drillforge/internal/services"
	"github.com/seonu/drillforge/internal/session"
	"github.com/seonu/drillforge/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("DrillForge Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("audit_worker_count=%d", cfg.AuditWorkerCount)
	log.Debug("audit_queue_size=%d", cfg.AuditQueueSize)
	log.Debug("session_tick_ms=%d", cfg.SessionTickMs)
	log.Debug("max_import_bytes=%d", cfg.MaxImportBytes)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	sceneRepo := sqlite.NewSceneRepository(database.DB)
	resultRepo := sqlite.NewResultRepository(database.DB)

	// Background audit pool
	auditPool := worker.NewPool(cfg.AuditWorkerCount, cfg.AuditQueueSize)

	// Initialize services
	sceneService := services.NewSceneService(sceneRepo)
	queue := jobs.NewWorkerQueue(auditPool, sceneService)
	sceneService.SetJobQueue(queue)
	approvalService := services.NewApprovalService(sceneRepo)
	sessionService := services.NewSessionService(
		sceneRepo,
		resultRepo,
		session.NewRealClock(),
		time.Duration(cfg.SessionTickMs)*time.Millisecond,
	)
	transferService := services.NewTransferService(sceneRepo, queue)

	srv := &api.Server{
		SceneService:    sceneService,
		ApprovalService: approvalService,
		SessionService:  sessionService,
		TransferService: transferService,
		MaxImportBytes:  int64(cfg.MaxImportBytes),
	}

	ctx, cancel := context.WithCancel(context.Background())
	auditPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Cancel worker context
	log.Debug("stopping worker pool")
	cancel()

	// Shutdown HTTP server
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Wait for workers to finish
	auditPool.Stop()

	log.Info("===========================================")
	log.Info("DrillForge Server Stopped")
	log.Info("===========================================")
}
