// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/port/driven"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/metrics"
)

// ErrPollerStopped is returned by Refresh once the poll loop has exited.
var ErrPollerStopped = errors.New("poll service stopped")

// refreshRequest represents a manual refresh trigger.
type refreshRequest struct {
	done chan error
}

// PollStatus describes the outcome of the most recent completed fetch.
type PollStatus struct {
	LastSuccess time.Time
	LastError   error
	Discarded   int // Results and errors of superseded fetches.
	Skipped     int // Ticks skipped because a fetch was still in flight.
}

// PollService periodically fetches the full submission list and applies it
// to a ReviewFeed. Fetches run concurrently with the loop; the feed's
// generation check drops any result that a newer fetch has overtaken. A tick
// that finds a fetch still in flight is skipped; manual refreshes always run.
type PollService struct {
	lister    driven.SubmissionLister
	feed      *ReviewFeed
	interval  time.Duration
	logger    *slog.Logger
	refreshCh chan refreshRequest
	stopped   chan struct{}
	wg        sync.WaitGroup
	inflight  atomic.Int32

	mu     sync.Mutex
	status PollStatus
}

// NewPollService creates a new PollService with all required dependencies.
func NewPollService(
	lister driven.SubmissionLister,
	feed *ReviewFeed,
	interval time.Duration,
	logger *slog.Logger,
) *PollService {
	return &PollService{
		lister:    lister,
		feed:      feed,
		interval:  interval,
		logger:    logger,
		refreshCh: make(chan refreshRequest),
		stopped:   make(chan struct{}),
	}
}

// Start begins the polling loop. It fetches immediately, then on the
// configured interval, and also serves manual refresh requests. Start blocks
// until the context is canceled; on return the ticker is stopped, in-flight
// fetches have exited, and their results have been invalidated.
func (s *PollService) Start(ctx context.Context) {
	defer close(s.stopped)

	s.launch(ctx, nil)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.feed.Close()
			s.wg.Wait()
			s.logger.Info("poll service stopped")
			return
		case <-ticker.C:
			if s.inflight.Load() > 0 {
				s.logger.Debug("skipping poll tick, fetch in flight")
				s.recordSkip()
				continue
			}
			s.launch(ctx, nil)
		case req := <-s.refreshCh:
			s.launch(ctx, req.done)
		}
	}
}

// Refresh triggers an immediate out-of-band fetch, bypassing the polling
// interval. It blocks until that fetch completes or the context is canceled.
func (s *PollService) Refresh(ctx context.Context) error {
	done := make(chan error, 1)
	req := refreshRequest{done: done}

	select {
	case s.refreshCh <- req:
	case <-s.stopped:
		return ErrPollerStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns the outcome of the most recent completed fetch.
func (s *PollService) Status() PollStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// launch stamps a new fetch and runs it in the background. done, if non-nil,
// receives the fetch result.
func (s *PollService) launch(ctx context.Context, done chan<- error) {
	gen := s.feed.Begin()

	s.wg.Add(1)
	s.inflight.Add(1)
	go func() {
		defer s.wg.Done()
		err := s.fetch(ctx, gen)
		s.inflight.Add(-1)
		if done != nil {
			done <- err
		}
	}()
}

// fetch loads the submission list and applies it if gen is still current.
// Errors from a superseded or canceled fetch leave the status unchanged.
func (s *PollService) fetch(ctx context.Context, gen uint64) error {
	start := time.Now()

	subs, err := s.lister.ListSubmissions(ctx)
	if err != nil {
		if ctx.Err() != nil || !s.feed.IsCurrent(gen) {
			s.logger.Debug("discarded stale poll error", "generation", gen, "error", err)
			s.recordDiscard()
			metrics.PollFetches.WithLabelValues(metrics.OutcomeDiscarded).Inc()
			return err
		}
		s.logger.Warn("poll fetch failed", "generation", gen, "error", err)
		s.recordError(err)
		metrics.PollFetches.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}

	if !s.feed.Apply(gen, subs) {
		s.logger.Debug("discarded stale poll result", "generation", gen, "submissions", len(subs))
		s.recordDiscard()
		metrics.PollFetches.WithLabelValues(metrics.OutcomeDiscarded).Inc()
		return nil
	}

	s.recordSuccess()
	metrics.PollFetches.WithLabelValues(metrics.OutcomeApplied).Inc()
	s.logger.Debug("poll cycle complete",
		"generation", gen,
		"submissions", len(subs),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return nil
}

func (s *PollService) recordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastSuccess = time.Now()
	s.status.LastError = nil
}

func (s *PollService) recordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastError = err
}

func (s *PollService) recordSkip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Skipped++
}

func (s *PollService) recordDiscard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Discarded++
}
