package application_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/application"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
)

// --- Mock implementations ---

type mockLister struct {
	mu    sync.Mutex
	calls int
	list  func(ctx context.Context, call int) ([]model.Submission, error)
}

func (m *mockLister) ListSubmissions(ctx context.Context) ([]model.Submission, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()
	return m.list(ctx, call)
}

func (m *mockLister) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type summaryCall struct {
	Reviews []string
	Rating  int
}

// mockSummarizer blocks each StarSummary call until the test releases it on
// the channel registered for that rating. Calls for unregistered ratings
// return immediately with text/err.
type mockSummarizer struct {
	mu      sync.Mutex
	calls   []summaryCall
	gates   map[int]chan summaryResult
	text    string
	err     error
	started chan int
}

type summaryResult struct {
	text string
	err  error
}

func newMockSummarizer() *mockSummarizer {
	return &mockSummarizer{
		gates:   make(map[int]chan summaryResult),
		started: make(chan int, 16),
	}
}

func (m *mockSummarizer) gate(rating int) chan summaryResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan summaryResult, 1)
	m.gates[rating] = ch
	return ch
}

func (m *mockSummarizer) StarSummary(_ context.Context, reviews []string, rating int) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, summaryCall{Reviews: reviews, Rating: rating})
	gate, ok := m.gates[rating]
	text, err := m.text, m.err
	m.mu.Unlock()

	m.started <- rating

	if ok {
		res := <-gate
		return res.text, res.err
	}
	return text, err
}

func (m *mockSummarizer) Calls() []summaryCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]summaryCall(nil), m.calls...)
}

type submitCall struct {
	Rating int
	Review string
}

type mockBackend struct {
	*mockSummarizer
	lister    *mockLister
	submits   []submitCall
	reply     string
	submitErr error
}

func (m *mockBackend) ListSubmissions(ctx context.Context) ([]model.Submission, error) {
	return m.lister.ListSubmissions(ctx)
}

func (m *mockBackend) SubmitReview(_ context.Context, rating int, review string) (string, error) {
	m.submits = append(m.submits, submitCall{Rating: rating, Review: review})
	return m.reply, m.submitErr
}

type mockRefresher struct {
	calls int
	err   error
}

func (m *mockRefresher) Refresh(_ context.Context) error {
	m.calls++
	return m.err
}

type mockSubmissionStore struct {
	added []model.Submission
	list  []model.Submission
	err   error
}

func (m *mockSubmissionStore) Add(_ context.Context, sub model.Submission) error {
	if m.err != nil {
		return m.err
	}
	m.added = append(m.added, sub)
	return nil
}

func (m *mockSubmissionStore) ListAll(_ context.Context) ([]model.Submission, error) {
	return m.list, m.err
}

// mockLLM answers prompts by inspecting their content.
type mockLLM struct {
	mu      sync.Mutex
	prompts []string
	respond func(prompt string) (string, error)
}

func (m *mockLLM) GenerateText(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	return m.respond(prompt)
}

// --- Fixtures ---

var testDay = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func sub(rating int, review string) model.Submission {
	return model.Submission{Rating: rating, Review: review, Timestamp: testDay}
}

func subAt(rating int, review string, ts time.Time) model.Submission {
	return model.Submission{Rating: rating, Review: review, Timestamp: ts}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// loadedFeed returns a feed holding subs (given in insertion order).
func loadedFeed(subs ...model.Submission) *application.ReviewFeed {
	feed := application.NewReviewFeed()
	feed.Apply(feed.Begin(), subs)
	return feed
}
