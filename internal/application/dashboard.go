package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/port/driven"
)

// ErrInvalidSubmission is returned when a review fails validation.
var ErrInvalidSubmission = errors.New("invalid submission")

// Refresher triggers an immediate feed refresh.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Snapshot is everything a dashboard view needs to render at one instant.
type Snapshot struct {
	View        model.View
	Reviews     []model.Submission // Full list, newest first.
	Stats       Stats
	Filter      model.Filter
	Filtered    []model.Submission
	FilterLabel string
	Insight     model.Insight
	Generation  uint64
	UpdatedAt   time.Time
}

// DashboardService owns the derived state of one dashboard: the feed, the
// active filter, and the insight requester. Aggregates are memoized per feed
// generation; filtering is recomputed against the current list every snapshot.
type DashboardService struct {
	view      model.View
	feed      *ReviewFeed
	refresher Refresher
	backend   driven.ReviewBackend
	insight   *InsightRequester
	loc       *time.Location
	logger    *slog.Logger

	mu        sync.Mutex
	filter    model.Filter
	memoGen   uint64
	memoSubs  []model.Submission
	memoStats Stats
	memoValid bool
}

// NewDashboardService creates a DashboardService. loc is the viewer's time
// zone used for day grouping; nil means time.Local.
func NewDashboardService(
	view model.View,
	feed *ReviewFeed,
	refresher Refresher,
	backend driven.ReviewBackend,
	insight *InsightRequester,
	loc *time.Location,
	logger *slog.Logger,
) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{
		view:      view,
		feed:      feed,
		refresher: refresher,
		backend:   backend,
		insight:   insight,
		loc:       loc,
		logger:    logger,
	}
}

// View returns which dashboard this service backs.
func (d *DashboardService) View() model.View {
	return d.view
}

// Snapshot derives the current view state.
func (d *DashboardService) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	subs, gen := d.feed.Snapshot()
	stats := d.statsLocked(subs, gen)
	filtered, label := ApplyFilter(subs, stats.ByDay, d.filter)

	return Snapshot{
		View:        d.view,
		Reviews:     subs,
		Stats:       stats,
		Filter:      d.filter,
		Filtered:    filtered,
		FilterLabel: label,
		Insight:     d.insight.State(),
		Generation:  gen,
		UpdatedAt:   d.feed.UpdatedAt(),
	}
}

// SetFilter activates f and, for rating filters, requests a group summary
// for the matching reviews.
func (d *DashboardService) SetFilter(f model.Filter) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.filter = f
	subs, gen := d.feed.Snapshot()
	stats := d.statsLocked(subs, gen)
	filtered, _ := ApplyFilter(subs, stats.ByDay, f)

	d.insight.Select(f, filtered)
	d.logger.Debug("filter changed", "kind", string(f.Kind), "rating", f.Rating, "day", f.Day, "matches", len(filtered))
}

// ClearFilter removes the active filter.
func (d *DashboardService) ClearFilter() {
	d.SetFilter(model.NoFilter())
}

// Submit validates and posts a review, then refreshes the feed so the new
// record shows up without waiting for the next tick. A failed refresh is
// logged; the reply is still returned.
func (d *DashboardService) Submit(ctx context.Context, rating int, review string) (string, error) {
	review = strings.TrimSpace(review)
	if review == "" {
		return "", fmt.Errorf("%w: review text is required", ErrInvalidSubmission)
	}
	if rating < model.MinRating || rating > model.MaxRating {
		return "", fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidSubmission, model.MinRating, model.MaxRating)
	}

	reply, err := d.backend.SubmitReview(ctx, rating, review)
	if err != nil {
		return "", fmt.Errorf("submit review: %w", err)
	}

	if d.refresher != nil {
		if err := d.refresher.Refresh(ctx); err != nil {
			d.logger.Warn("refresh after submission failed", "error", err)
		}
	}

	return reply, nil
}

// statsLocked returns memoized aggregates for the feed generation gen.
func (d *DashboardService) statsLocked(subs []model.Submission, gen uint64) Stats {
	if d.memoValid && d.memoGen == gen && len(d.memoSubs) == len(subs) {
		return d.memoStats
	}

	d.memoStats = Aggregate(subs, d.loc)
	d.memoGen = gen
	d.memoSubs = subs
	d.memoValid = true
	return d.memoStats
}
