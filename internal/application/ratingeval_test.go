package application_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/application"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
)

func TestParsePrediction(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   model.Prediction
	}{
		{
			name:   "plain JSON",
			output: `{"predicted_stars": 4, "explanation": "positive"}`,
			want:   model.Prediction{Stars: 4, Explanation: "positive", Valid: true},
		},
		{
			name:   "fenced with prose",
			output: "Here you go:\n```json\n{\"predicted_stars\": 2, \"explanation\": \"cold food\"}\n```",
			want:   model.Prediction{Stars: 2, Explanation: "cold food", Valid: true},
		},
		{
			name:   "numeric string",
			output: `{"predicted_stars": " 5 ", "explanation": ""}`,
			want:   model.Prediction{Stars: 5, Valid: true},
		},
		{
			name:   "fractional rounds",
			output: `{"predicted_stars": 3.6}`,
			want:   model.Prediction{Stars: 4, Valid: true},
		},
		{
			name:   "no braces",
			output: "four stars",
		},
		{
			name:   "malformed JSON",
			output: `{"predicted_stars": }`,
		},
		{
			name:   "non numeric string",
			output: `{"predicted_stars": "many"}`,
		},
		{
			name:   "missing field",
			output: `{"explanation": "none"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, application.ParsePrediction(tt.output))
		})
	}
}

func TestDefaultStrategies(t *testing.T) {
	strategies := application.DefaultStrategies()

	require.Len(t, strategies, 3)
	for _, st := range strategies {
		assert.NotEmpty(t, st.Name)
		assert.Contains(t, st.Build("the soup was great"), "the soup was great")
		assert.Contains(t, st.Build("x"), "predicted_stars")
	}
}

func TestSampleReviews(t *testing.T) {
	rows := []model.LabeledReview{
		{Text: "a", Stars: 1},
		{Text: "b", Stars: 2},
		{Text: "", Stars: 3},
		{Text: "d", Stars: 0},
		{Text: "e", Stars: 5},
		{Text: "f", Stars: 4},
	}

	first := application.SampleReviews(append([]model.LabeledReview(nil), rows...), 3, 42)
	second := application.SampleReviews(append([]model.LabeledReview(nil), rows...), 3, 42)

	require.Len(t, first, 3)
	assert.Equal(t, first, second, "same seed gives same sample")
	for _, r := range first {
		assert.NotEmpty(t, r.Text)
		assert.GreaterOrEqual(t, r.Stars, 1)
		assert.LessOrEqual(t, r.Stars, 5)
	}

	all := application.SampleReviews(rows, 100, 1)
	assert.Len(t, all, 4)
}

func TestRatingEvaluator_Evaluate(t *testing.T) {
	llm := &mockLLM{respond: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Few-Shot") || strings.Contains(prompt, "Here are examples"):
			return "not json", nil
		case strings.Contains(prompt, "Think step by step"):
			return "", errors.New("rate limited")
		default:
			if strings.Contains(prompt, "loved it") {
				return `{"predicted_stars": 5, "explanation": "happy"}`, nil
			}
			return `{"predicted_stars": 5, "explanation": "guess"}`, nil
		}
	}}
	evaluator := application.NewRatingEvaluator(llm, application.DefaultStrategies(), 0, discardLogger())

	samples := []model.LabeledReview{
		{Text: "loved it", Stars: 5},
		{Text: "hated it", Stars: 1},
	}

	results, err := evaluator.Evaluate(context.Background(), samples)

	require.NoError(t, err)
	require.Len(t, results, 3)

	direct := results[0]
	assert.Equal(t, 2, direct.Total)
	assert.Equal(t, 2, direct.ValidJSON)
	assert.Equal(t, 1, direct.Correct)
	assert.InDelta(t, 0.5, direct.Accuracy(), 0.0001)
	assert.InDelta(t, 1.0, direct.ValidRate(), 0.0001)

	cot := results[1]
	assert.Equal(t, 2, cot.Total)
	assert.Zero(t, cot.ValidJSON)

	fewShot := results[2]
	assert.Equal(t, 2, fewShot.Total)
	assert.Zero(t, fewShot.ValidJSON)
	assert.Zero(t, fewShot.Accuracy())

	assert.Len(t, llm.prompts, 6)
}

func TestRatingEvaluator_Canceled(t *testing.T) {
	llm := &mockLLM{respond: func(string) (string, error) { return "{}", nil }}
	evaluator := application.NewRatingEvaluator(llm, application.DefaultStrategies(), 0, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := evaluator.Evaluate(ctx, []model.LabeledReview{{Text: "x", Stars: 3}})

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, llm.prompts)
}

func TestStrategyResult_ZeroTotal(t *testing.T) {
	var r application.StrategyResult

	assert.Zero(t, r.Accuracy())
	assert.Zero(t, r.ValidRate())
}
