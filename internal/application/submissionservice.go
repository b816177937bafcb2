package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/port/driven"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/metrics"
)

// Fixed texts used when the LLM is unavailable or a group is empty.
const (
	FallbackUserReply = "Thank you for your review! We hope to serve you better in the future."
	EmptyGroupSummary = "(No reviews for this group.)"
)

// adminAnalysis is the JSON shape requested from the LLM for admin fields.
type adminAnalysis struct {
	Summary            string `json:"summary"`
	RecommendedActions string `json:"recommended_actions"`
}

// SubmissionService implements the feedback API use cases: accepting a
// review, generating its AI fields, listing submissions, and summarizing a
// rating group.
type SubmissionService struct {
	store  driven.SubmissionStore
	llm    driven.LLMClient
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// NewSubmissionService creates a SubmissionService with all required dependencies.
func NewSubmissionService(store driven.SubmissionStore, llm driven.LLMClient, logger *slog.Logger) *SubmissionService {
	return &SubmissionService{
		store:  store,
		llm:    llm,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.NewString() },
	}
}

// Submit validates and stores a review along with its AI reply and admin
// analysis. LLM failures never fail the submission; fixed fallbacks are used.
func (s *SubmissionService) Submit(ctx context.Context, rating int, review string) (*model.Submission, error) {
	review = strings.TrimSpace(review)
	if review == "" {
		return nil, fmt.Errorf("%w: review text is required", ErrInvalidSubmission)
	}
	if rating < model.MinRating || rating > model.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidSubmission, model.MinRating, model.MaxRating)
	}

	sub := model.Submission{
		ID:        s.newID(),
		Rating:    rating,
		Review:    review,
		Timestamp: s.now(),
		UserReply: s.userReply(ctx, rating, review),
	}

	analysis := s.adminAnalysis(ctx, review)
	sub.AISummary = analysis.Summary
	sub.AIActions = analysis.RecommendedActions

	if err := s.store.Add(ctx, sub); err != nil {
		return nil, fmt.Errorf("store submission: %w", err)
	}
	metrics.Submissions.WithLabelValues(strconv.Itoa(sub.Rating)).Inc()

	s.logger.InfoContext(ctx, "review submitted",
		slog.String("id", sub.ID),
		slog.Int("rating", sub.Rating),
		slog.Bool("has_summary", sub.AISummary != ""),
	)

	return &sub, nil
}

// List returns all submissions in insertion order.
func (s *SubmissionService) List(ctx context.Context) ([]model.Submission, error) {
	subs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if subs == nil {
		subs = []model.Submission{}
	}
	return subs, nil
}

// StarSummary asks the LLM for the common themes of a rating group. An
// empty group returns a fixed message without calling the LLM.
func (s *SubmissionService) StarSummary(ctx context.Context, reviews []string, rating int) (string, error) {
	if len(reviews) == 0 {
		return EmptyGroupSummary, nil
	}

	text, err := s.llm.GenerateText(ctx, starSummaryPrompt(rating, reviews))
	if err != nil {
		return "", fmt.Errorf("generate star summary: %w", err)
	}

	return strings.TrimSpace(text), nil
}

func (s *SubmissionService) userReply(ctx context.Context, rating int, review string) string {
	text, err := s.llm.GenerateText(ctx, userReplyPrompt(rating, review))
	if err != nil {
		s.logger.WarnContext(ctx, "user reply generation failed", "error", err)
		return FallbackUserReply
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackUserReply
	}
	return text
}

func (s *SubmissionService) adminAnalysis(ctx context.Context, review string) adminAnalysis {
	text, err := s.llm.GenerateText(ctx, adminSummaryPrompt(review))
	if err != nil {
		s.logger.WarnContext(ctx, "admin summary generation failed", "error", err)
		return adminAnalysis{}
	}

	raw, ok := extractJSONObject(text)
	if !ok {
		s.logger.WarnContext(ctx, "admin summary response had no JSON object")
		return adminAnalysis{}
	}

	var analysis adminAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		s.logger.WarnContext(ctx, "admin summary response was not valid JSON", "error", err)
		return adminAnalysis{}
	}

	return analysis
}
