package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mathbuddy/mathbuddy/internal/api"
	"github.com/mathbuddy/mathbuddy/internal/config"
	"github.com/mathbuddy/mathbuddy/internal/db"
	"github.com/mathbuddy/mathbuddy/internal/gemini"
	"github.com/mathbuddy/mathbuddy/internal/logger"
	"github.com/mathbuddy/mathbuddy/internal/repository/sqlite"
	"github.com/mathbuddy/mathbuddy/internal/services"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("MathBuddy Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("gemini_model=%s", cfg.GeminiModel)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// A missing key is not fatal at startup: generation requests fail fast
	// with a config error, everything else keeps working.
	var llm gemini.CompletionClient
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.New(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Error("failed to create gemini client: %v", err)
			os.Exit(1)
		}
		llm = client
	} else {
		log.Warn("GOOGLE_API_KEY not set, problem generation is disabled")
	}

	sessionRepo := sqlite.NewSessionRepository(database.DB)
	submissionRepo := sqlite.NewSubmissionRepository(database.DB)

	srv := &api.Server{
		ProblemService: services.NewProblemService(sessionRepo, submissionRepo, llm),
		HistoryService: services.NewHistoryService(sessionRepo),
		Gemini:         llm,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("MathBuddy Server Stopped")
	log.Info("===========================================")
}
