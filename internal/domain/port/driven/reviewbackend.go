package driven

import (
	"context"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
)

// SubmissionLister fetches the full list of review submissions.
type SubmissionLister interface {
	ListSubmissions(ctx context.Context) ([]model.Submission, error)
}

// GroupSummarizer requests an AI summary for a group of reviews sharing a rating.
type GroupSummarizer interface {
	StarSummary(ctx context.Context, reviews []string, rating int) (string, error)
}

// ReviewBackend defines the driven port for the feedback REST API consumed by
// the dashboards.
type ReviewBackend interface {
	SubmissionLister
	GroupSummarizer

	// SubmitReview creates a new submission and returns the AI reply for the author.
	SubmitReview(ctx context.Context, rating int, review string) (string, error)
}
