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

// llmByPrompt returns a responder that answers the user reply prompt with
// reply and the admin summary prompt with admin.
func llmByPrompt(reply, admin string) func(string) (string, error) {
	return func(prompt string) (string, error) {
		if strings.Contains(prompt, "recommended_actions") {
			return admin, nil
		}
		return reply, nil
	}
}

func TestSubmissionService_Submit(t *testing.T) {
	store := &mockSubmissionStore{}
	llm := &mockLLM{respond: llmByPrompt(
		"  Thank you for visiting!  ",
		"Sure:\n```json\n{\"summary\": \"Loved the pasta.\", \"recommended_actions\": \"Keep the menu.\"}\n```",
	)}
	svc := application.NewSubmissionService(store, llm, discardLogger())

	got, err := svc.Submit(context.Background(), 5, " Loved the pasta ")

	require.NoError(t, err)
	require.Len(t, store.added, 1)
	assert.Equal(t, *got, store.added[0])
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, 5, got.Rating)
	assert.Equal(t, "Loved the pasta", got.Review)
	assert.Equal(t, "Thank you for visiting!", got.UserReply)
	assert.Equal(t, "Loved the pasta.", got.AISummary)
	assert.Equal(t, "Keep the menu.", got.AIActions)
	assert.False(t, got.Timestamp.IsZero())
	assert.Len(t, llm.prompts, 2)
}

func TestSubmissionService_SubmitLLMFailureUsesFallbacks(t *testing.T) {
	store := &mockSubmissionStore{}
	llm := &mockLLM{respond: func(string) (string, error) {
		return "", errors.New("quota exceeded")
	}}
	svc := application.NewSubmissionService(store, llm, discardLogger())

	got, err := svc.Submit(context.Background(), 2, "Slow service")

	require.NoError(t, err)
	assert.Equal(t, application.FallbackUserReply, got.UserReply)
	assert.Empty(t, got.AISummary)
	assert.Empty(t, got.AIActions)
	assert.Len(t, store.added, 1)
}

func TestSubmissionService_SubmitAdminResponseWithoutJSON(t *testing.T) {
	store := &mockSubmissionStore{}
	llm := &mockLLM{respond: llmByPrompt("Thanks!", "I cannot help with that.")}
	svc := application.NewSubmissionService(store, llm, discardLogger())

	got, err := svc.Submit(context.Background(), 3, "Average")

	require.NoError(t, err)
	assert.Equal(t, "Thanks!", got.UserReply)
	assert.Empty(t, got.AISummary)
	assert.Empty(t, got.AIActions)
}

func TestSubmissionService_SubmitValidation(t *testing.T) {
	store := &mockSubmissionStore{}
	llm := &mockLLM{respond: llmByPrompt("x", "{}")}
	svc := application.NewSubmissionService(store, llm, discardLogger())

	_, err := svc.Submit(context.Background(), 3, "   ")
	require.ErrorIs(t, err, application.ErrInvalidSubmission)

	_, err = svc.Submit(context.Background(), 7, "text")
	require.ErrorIs(t, err, application.ErrInvalidSubmission)

	assert.Empty(t, store.added)
	assert.Empty(t, llm.prompts)
}

func TestSubmissionService_SubmitStoreError(t *testing.T) {
	store := &mockSubmissionStore{err: errors.New("disk full")}
	llm := &mockLLM{respond: llmByPrompt("Thanks!", "{}")}
	svc := application.NewSubmissionService(store, llm, discardLogger())

	_, err := svc.Submit(context.Background(), 4, "Nice")

	require.Error(t, err)
	assert.NotErrorIs(t, err, application.ErrInvalidSubmission)
	assert.Contains(t, err.Error(), "store submission")
}

func TestSubmissionService_ListNeverNil(t *testing.T) {
	svc := application.NewSubmissionService(&mockSubmissionStore{}, &mockLLM{}, discardLogger())

	subs, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
}

func TestSubmissionService_ListPreservesOrder(t *testing.T) {
	store := &mockSubmissionStore{list: []model.Submission{sub(1, "first"), sub(5, "second")}}
	svc := application.NewSubmissionService(store, &mockLLM{}, discardLogger())

	subs, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, store.list, subs)
}

func TestSubmissionService_StarSummary(t *testing.T) {
	llm := &mockLLM{respond: func(string) (string, error) {
		return "\nCustomers praise the staff.\n", nil
	}}
	svc := application.NewSubmissionService(&mockSubmissionStore{}, llm, discardLogger())

	text, err := svc.StarSummary(context.Background(), []string{"Friendly staff", "Kind waiter"}, 5)

	require.NoError(t, err)
	assert.Equal(t, "Customers praise the staff.", text)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "rating of 5 star(s)")
	assert.Contains(t, llm.prompts[0], "- Friendly staff\n")
	assert.Contains(t, llm.prompts[0], "- Kind waiter\n")
}

func TestSubmissionService_StarSummaryEmptyGroup(t *testing.T) {
	llm := &mockLLM{}
	svc := application.NewSubmissionService(&mockSubmissionStore{}, llm, discardLogger())

	text, err := svc.StarSummary(context.Background(), nil, 2)

	require.NoError(t, err)
	assert.Equal(t, application.EmptyGroupSummary, text)
	assert.Empty(t, llm.prompts)
}

func TestSubmissionService_StarSummaryError(t *testing.T) {
	llm := &mockLLM{respond: func(string) (string, error) {
		return "", errors.New("unavailable")
	}}
	svc := application.NewSubmissionService(&mockSubmissionStore{}, llm, discardLogger())

	_, err := svc.StarSummary(context.Background(), []string{"x"}, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate star summary")
}
