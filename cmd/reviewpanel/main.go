package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/adapter/driven/feedbackapi"
	httphandler "github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/adapter/driving/http"
	webhandler "github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/adapter/driving/web"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/application"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/config"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	viewFlag := flag.String("view", "", "dashboard to serve: user or admin (overrides REVIEWPANEL_VIEW)")
	flag.Parse()

	cfg, err := config.LoadPanel()
	if err != nil {
		return err
	}
	if *viewFlag != "" {
		view, err := model.ParseView(*viewFlag)
		if err != nil {
			return err
		}
		cfg.View = view
	}

	logger := logging.New("reviewpanel", cfg.LogLevel, os.Stderr)
	slog.SetDefault(logger)
	logger.Info("config loaded",
		"view", cfg.View,
		"api_url", cfg.APIURL,
		"listen_addr", cfg.ListenAddr,
		"poll_interval", cfg.PollInterval(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := feedbackapi.NewClient(cfg.APIURL, logger)

	feed := application.NewReviewFeed()
	pollSvc := application.NewPollService(backend, feed, cfg.PollInterval(), logger)

	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		pollSvc.Start(ctx)
	}()

	insight := application.NewInsightRequester(backend, logger)
	dashboard := application.NewDashboardService(cfg.View, feed, pollSvc, backend, insight, time.Local, logger)
	healthSvc := application.NewHealthService(pollSvc)

	mux := http.NewServeMux()
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(dashboard, healthSvc, cfg.PollInterval(), time.Local, logger))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.ApplyMiddleware(mux, "reviewpanel", logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	logger.Info("reviewpanel started", "view", cfg.View)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	<-pollDone
	insight.Close()

	logger.Info("shutdown complete")
	return nil
}
