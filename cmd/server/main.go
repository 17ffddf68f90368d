// Package main is the entry point for the LynchLens valuation service.
// The service fetches market data, derives Peter Lynch-style valuation
// metrics, and serves analyses, charts, and analyst narratives over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/lynchlens/internal/clientdata"
	"github.com/aristath/lynchlens/internal/clients/groq"
	"github.com/aristath/lynchlens/internal/clients/yahoo"
	"github.com/aristath/lynchlens/internal/config"
	"github.com/aristath/lynchlens/internal/database"
	"github.com/aristath/lynchlens/internal/modules/analysis"
	analysishandlers "github.com/aristath/lynchlens/internal/modules/analysis/api/handlers"
	"github.com/aristath/lynchlens/internal/scheduler"
	"github.com/aristath/lynchlens/internal/server"
	"github.com/aristath/lynchlens/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("port", cfg.Port).
		Bool("dev_mode", cfg.DevMode).
		Msg("Starting LynchLens")

	// Open the cache database
	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	cacheRepo := clientdata.NewRepository(cacheDB.Conn())
	if err := cacheRepo.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate cache database")
	}

	// API clients
	yahooClient := yahoo.NewClient(cacheRepo, cfg.YahooBaseURL, log)
	groqClient := groq.NewClient(cfg.GroqAPIKey, cfg.GroqModel, log)
	if !groqClient.Configured() {
		log.Warn().Msg("GROQ_API_KEY not set - narrative generation disabled")
	}

	// Analysis pipeline
	analysisService := analysis.NewService(yahooClient, groqClient, cacheRepo, log)

	// Background jobs
	sched := scheduler.New(log)
	cleanupJob := clientdata.NewCleanupJob(cacheRepo, log)
	if err := sched.AddJob("0 0 3 * * *", cleanupJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cleanup job")
	}
	sched.Start()
	defer sched.Stop()

	// Sweep leftovers from previous runs right away rather than waiting
	// for the nightly schedule.
	if err := sched.RunNow(cleanupJob); err != nil {
		log.Warn().Err(err).Msg("Startup cache cleanup failed")
	}

	// HTTP server
	srv := server.New(server.Config{
		Log:              log,
		CacheDB:          cacheDB,
		Config:           cfg,
		Port:             cfg.Port,
		DevMode:          cfg.DevMode,
		AnalysisHandlers: analysishandlers.NewHandlers(analysisService, log),
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}
