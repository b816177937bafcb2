package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/adapter/driven/gemini"
	sqliteadapter "github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/adapter/driven/sqlite"
	httphandler "github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/adapter/driving/http"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/application"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/config"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadAPI()
	if err != nil {
		return err
	}

	logger := logging.New("feedbackapi", cfg.LogLevel, os.Stderr)
	slog.SetDefault(logger)
	logger.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"gemini_model", cfg.GeminiModel,
		"gemini_configured", cfg.HasGeminiKey(),
		"cors_origins", cfg.CORSOrigins,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()
	logger.Info("database opened", "path", cfg.DBPath)

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	logger.Info("migrations complete")

	store := sqliteadapter.NewSubmissionRepo(db)
	if n, err := store.Count(ctx); err == nil {
		logger.Info("submissions loaded", "count", n)
	}

	if !cfg.HasGeminiKey() {
		logger.Warn("GEMINI_API_KEY not set, AI replies will use fallback text")
	}
	llm := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, logger)

	submissions := application.NewSubmissionService(store, llm, logger)
	handler := httphandler.NewHandler(submissions, db, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.NewServeMux(handler, cfg.CORSOrigins, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
