// Command ratingeval compares prompt strategies for predicting a review's
// star rating from its text.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/adapter/driven/gemini"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/adapter/driven/yelpcsv"
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
	var (
		csvPath string
		n       int
		seed    uint64
		pause   time.Duration
	)
	flag.StringVar(&csvPath, "csv", "data/yelp.csv", "Yelp reviews CSV with text and stars columns")
	flag.IntVar(&n, "n", 200, "number of reviews to sample")
	flag.Uint64Var(&seed, "seed", 42, "sampling seed")
	flag.DurationVar(&pause, "pause", 2*time.Second, "delay between LLM calls")
	flag.Parse()

	cfg, err := config.LoadAPI()
	if err != nil {
		return err
	}
	if !cfg.HasGeminiKey() {
		return errors.New("GEMINI_API_KEY must be set")
	}

	logger := logging.New("ratingeval", cfg.LogLevel, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rows, err := yelpcsv.LoadFile(csvPath)
	if err != nil {
		return err
	}
	samples := application.SampleReviews(rows, n, seed)
	logger.Info("samples selected", "rows", len(rows), "samples", len(samples), "seed", seed)

	llm := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, logger)
	evaluator := application.NewRatingEvaluator(llm, application.DefaultStrategies(), pause, logger)

	results, err := evaluator.Evaluate(ctx, samples)
	printResults(os.Stdout, results)
	return err
}

func printResults(w io.Writer, results []application.StrategyResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tSAMPLES\tACCURACY\tVALID JSON")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\n", r.Name, r.Total, r.Accuracy(), r.ValidRate())
	}
	_ = tw.Flush()
}
