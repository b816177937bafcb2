package driven

import (
	"context"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
)

// SubmissionStore defines the driven port for persisting review submissions.
// Records are append-only; ListAll returns them in insertion order.
type SubmissionStore interface {
	Add(ctx context.Context, sub model.Submission) error
	ListAll(ctx context.Context) ([]model.Submission, error)
}
