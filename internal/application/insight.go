package application

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/port/driven"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/metrics"
)

// InsightFallback is shown when a group summary request fails or the
// response carries no summary.
const InsightFallback = "(No LLM response)"

// InsightRequester tracks the AI group summary for the active rating filter.
// Each Select supersedes the previous one: the older request is canceled and
// its result, if it still arrives, is dropped.
type InsightRequester struct {
	summarizer driven.GroupSummarizer
	logger     *slog.Logger

	base context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	state  model.Insight
	closed bool
}

// NewInsightRequester creates a requester in the idle state.
func NewInsightRequester(summarizer driven.GroupSummarizer, logger *slog.Logger) *InsightRequester {
	base, stop := context.WithCancel(context.Background())
	return &InsightRequester{
		summarizer: summarizer,
		logger:     logger,
		base:       base,
		stop:       stop,
		state:      model.Insight{State: model.InsightIdle},
	}
}

// Select reacts to a filter change. A rating filter with a non-empty set
// starts a summary request and moves to loading; anything else moves to idle.
func (r *InsightRequester) Select(f model.Filter, filtered []model.Submission) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}

	if r.closed || !f.IsRating() || len(filtered) == 0 {
		r.state = model.Insight{State: model.InsightIdle}
		return
	}

	reviews := make([]string, 0, len(filtered))
	for _, s := range filtered {
		reviews = append(reviews, s.Review)
	}

	ctx, cancel := context.WithCancel(r.base)
	r.cancel = cancel
	r.state = model.Insight{State: model.InsightLoading}
	gen := r.gen

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()

		text, err := r.summarizer.StarSummary(ctx, reviews, f.Rating)
		r.resolve(gen, f.Rating, text, err)
	}()
}

func (r *InsightRequester) resolve(gen uint64, rating int, text string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.gen {
		r.logger.Debug("discarded stale insight response", "rating", rating, "generation", gen, "current", r.gen)
		metrics.InsightRequests.WithLabelValues(metrics.OutcomeDiscarded).Inc()
		return
	}
	r.cancel = nil

	if err != nil {
		r.logger.Warn("star summary request failed", "rating", rating, "error", err)
		text = InsightFallback
	}
	if strings.TrimSpace(text) == "" {
		text = InsightFallback
	}

	outcome := metrics.OutcomeOK
	if text == InsightFallback {
		outcome = metrics.OutcomeFallback
	}
	metrics.InsightRequests.WithLabelValues(outcome).Inc()

	r.state = model.Insight{State: model.InsightReady, Text: text}
}

// State returns the current insight.
func (r *InsightRequester) State() model.Insight {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Wait blocks until every started request goroutine has returned.
func (r *InsightRequester) Wait() {
	r.wg.Wait()
}

// Close cancels any in-flight request, resets to idle, and waits for
// request goroutines to exit. Subsequent Selects stay idle.
func (r *InsightRequester) Close() {
	r.mu.Lock()
	r.closed = true
	r.gen++
	r.cancel = nil
	r.state = model.Insight{State: model.InsightIdle}
	r.mu.Unlock()

	r.stop()
	r.wg.Wait()
}
