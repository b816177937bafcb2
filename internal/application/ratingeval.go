package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/port/driven"
)

// PromptStrategy builds a rating prediction prompt for a review.
type PromptStrategy struct {
	Name  string
	Build func(review string) string
}

const fewShotExamples = `Review: "Terrible experience, food was cold and the service rude."
{
  "predicted_stars": 1,
  "explanation": "The review is very negative about food and service."
}
Review: "Decent lunch, nothing special but quick service."
{
  "predicted_stars": 3,
  "explanation": "The review is mixed with some positive and average comments."
}
Review: "Absolutely loved the desserts and our waiter was wonderful!"
{
  "predicted_stars": 5,
  "explanation": "Very positive review about both food and service."
}
`

// DefaultStrategies returns the prompt strategies compared by ratingeval.
func DefaultStrategies() []PromptStrategy {
	return []PromptStrategy{
		{
			Name: "Direct Classification (Baseline)",
			Build: func(review string) string {
				return "Given the Yelp review below, predict how many stars (1-5) the reviewer gave.\n" +
					"Respond only with JSON as follows:\n" +
					"{\n  \"predicted_stars\": <number>,\n  \"explanation\": \"<brief reason>\"\n}\n" +
					"Review:\n" + review
			},
		},
		{
			Name: "Step-by-Step Hidden CoT",
			Build: func(review string) string {
				return "Consider the following Yelp review. Think step by step about the reviewer's overall tone, " +
					"the details they mention, their satisfaction, and any positive or negative points. " +
					"Decide the most likely star rating (1-5).\n" +
					"Then, respond only with JSON like this (do not show your reasoning):\n" +
					"{\n  \"predicted_stars\": <number>,\n  \"explanation\": \"<why you chose this rating>\"\n}\n" +
					"Review:\n" + review
			},
		},
		{
			Name: "Few-Shot Calibration",
			Build: func(review string) string {
				return "Here are examples of Yelp reviews and their ratings:\n" + fewShotExamples +
					"\nNow, given this review, respond with JSON just like the above examples:\n" +
					"Review: " + review
			},
		},
	}
}

// ParsePrediction extracts {predicted_stars, explanation} from free-form
// model output. predicted_stars may be a JSON number or a numeric string.
func ParsePrediction(output string) model.Prediction {
	raw, ok := extractJSONObject(output)
	if !ok {
		return model.Prediction{}
	}

	var parsed struct {
		PredictedStars any    `json:"predicted_stars"`
		Explanation    string `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return model.Prediction{}
	}

	var stars float64
	switch v := parsed.PredictedStars.(type) {
	case float64:
		stars = v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return model.Prediction{}
		}
		stars = f
	default:
		return model.Prediction{}
	}

	return model.Prediction{
		Stars:       int(math.Round(stars)),
		Explanation: parsed.Explanation,
		Valid:       true,
	}
}

// StrategyResult aggregates the outcome of one prompt strategy.
type StrategyResult struct {
	Name      string
	Total     int
	ValidJSON int
	Correct   int
}

// Accuracy is the fraction of samples predicted exactly.
func (r StrategyResult) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// ValidRate is the fraction of outputs that contained parseable JSON.
func (r StrategyResult) ValidRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.ValidJSON) / float64(r.Total)
}

// SampleReviews returns up to n reviews chosen deterministically from seed.
// Rows with stars outside 1..5 or empty text are skipped.
func SampleReviews(rows []model.LabeledReview, n int, seed uint64) []model.LabeledReview {
	eligible := make([]model.LabeledReview, 0, len(rows))
	for _, r := range rows {
		if strings.TrimSpace(r.Text) == "" || r.Stars < model.MinRating || r.Stars > model.MaxRating {
			continue
		}
		eligible = append(eligible, r)
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	if n >= 0 && n < len(eligible) {
		eligible = eligible[:n]
	}
	return eligible
}

// RatingEvaluator runs every strategy over a sample and scores predictions.
type RatingEvaluator struct {
	llm        driven.LLMClient
	strategies []PromptStrategy
	pause      time.Duration
	logger     *slog.Logger
}

// NewRatingEvaluator creates an evaluator. pause is slept between LLM calls.
func NewRatingEvaluator(llm driven.LLMClient, strategies []PromptStrategy, pause time.Duration, logger *slog.Logger) *RatingEvaluator {
	return &RatingEvaluator{
		llm:        llm,
		strategies: strategies,
		pause:      pause,
		logger:     logger,
	}
}

// Evaluate scores each strategy over samples. An LLM failure counts as an
// invalid prediction; only context cancellation aborts the run.
func (e *RatingEvaluator) Evaluate(ctx context.Context, samples []model.LabeledReview) ([]StrategyResult, error) {
	results := make([]StrategyResult, len(e.strategies))
	for i, st := range e.strategies {
		results[i].Name = st.Name
	}

	for idx, sample := range samples {
		for i, st := range e.strategies {
			if err := ctx.Err(); err != nil {
				return results, fmt.Errorf("evaluation canceled: %w", err)
			}

			results[i].Total++

			output, err := e.llm.GenerateText(ctx, st.Build(sample.Text))
			if err != nil {
				e.logger.Warn("prediction failed", "sample", idx, "strategy", st.Name, "error", err)
			} else {
				pred := ParsePrediction(output)
				if pred.Valid {
					results[i].ValidJSON++
					if pred.Stars == sample.Stars {
						results[i].Correct++
					}
				}
				e.logger.Debug("prediction",
					"sample", idx,
					"strategy", st.Name,
					"true_stars", sample.Stars,
					"predicted_stars", pred.Stars,
					"valid", pred.Valid,
				)
			}

			if e.pause > 0 {
				select {
				case <-time.After(e.pause):
				case <-ctx.Done():
					return results, fmt.Errorf("evaluation canceled: %w", ctx.Err())
				}
			}
		}
	}

	return results, nil
}
