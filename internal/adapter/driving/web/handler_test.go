package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/application"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
)

// --- Test doubles ---

type fakeBackend struct {
	mu        sync.Mutex
	subs      []model.Submission
	reply     string
	submitErr error
	submitted []int
}

func (b *fakeBackend) ListSubmissions(_ context.Context) ([]model.Submission, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Submission(nil), b.subs...), nil
}

func (b *fakeBackend) StarSummary(_ context.Context, _ []string, rating int) (string, error) {
	return "Guests rated this group " + strconv.Itoa(rating), nil
}

func (b *fakeBackend) SubmitReview(_ context.Context, rating int, review string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submitted = append(b.submitted, rating)
	if b.submitErr != nil {
		return "", b.submitErr
	}
	b.subs = append(b.subs, model.Submission{Rating: rating, Review: review, Timestamp: time.Now()})
	return b.reply, nil
}

func (b *fakeBackend) Submitted() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.submitted...)
}

// feedRefresher reloads the feed synchronously from the backend.
type feedRefresher struct {
	backend *fakeBackend
	feed    *application.ReviewFeed
}

func (r *feedRefresher) Refresh(ctx context.Context) error {
	gen := r.feed.Begin()
	subs, err := r.backend.ListSubmissions(ctx)
	if err != nil {
		return err
	}
	r.feed.Apply(gen, subs)
	return nil
}

type fixedStatus struct {
	status application.PollStatus
}

func (s fixedStatus) Status() application.PollStatus {
	return s.status
}

type testEnv struct {
	backend   *fakeBackend
	dashboard *application.DashboardService
	insight   *application.InsightRequester
	mux       *http.ServeMux
}

var testDay = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T, view model.View, status application.PollStatus, subs ...model.Submission) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend := &fakeBackend{subs: subs, reply: "Thanks, **friend**!"}
	feed := application.NewReviewFeed()
	refresher := &feedRefresher{backend: backend, feed: feed}
	require.NoError(t, refresher.Refresh(context.Background()))

	insight := application.NewInsightRequester(backend, logger)
	t.Cleanup(insight.Close)

	dashboard := application.NewDashboardService(view, feed, refresher, backend, insight, time.UTC, logger)
	health := application.NewHealthService(fixedStatus{status: status})

	mux := http.NewServeMux()
	RegisterRoutes(mux, NewHandler(dashboard, health, 3*time.Second, time.UTC, logger))

	return &testEnv{backend: backend, dashboard: dashboard, insight: insight, mux: mux}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

const testToken = "test-csrf-token"

func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: testToken})
	return req
}

func okStatus() application.PollStatus {
	return application.PollStatus{LastSuccess: testDay}
}

// --- Dashboard page ---

func TestDashboard_UserRendersFormAndTestimonials(t *testing.T) {
	env := newTestEnv(t, model.ViewUser, okStatus(),
		model.Submission{Rating: 5, Review: "Lovely brunch", Timestamp: testDay},
		model.Submission{Rating: 3, Review: "Okay coffee", Timestamp: testDay.Add(time.Hour)},
	)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, `action="/submit"`)
	assert.Contains(t, body, "Community Testimonials")
	assert.Contains(t, body, "Lovely brunch")
	assert.Contains(t, body, "4.00")
	assert.Less(t, strings.Index(body, "Okay coffee"), strings.Index(body, "Lovely brunch"), "newest review first")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, csrfCookieName, cookies[0].Name)
	assert.Contains(t, body, cookies[0].Value)
}

func TestDashboard_EmptyAverageSentinels(t *testing.T) {
	tests := []struct {
		view model.View
		want string
	}{
		{view: model.ViewUser, want: `<span class="big">0.00</span>`},
		{view: model.ViewAdmin, want: `<span class="big">-</span>`},
	}

	for _, tc := range tests {
		t.Run(string(tc.view), func(t *testing.T) {
			env := newTestEnv(t, tc.view, okStatus())

			rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestDashboard_AdminRendersTableAndCharts(t *testing.T) {
	env := newTestEnv(t, model.ViewAdmin, okStatus(),
		model.Submission{Rating: 1, Review: "Cold soup", AISummary: "Food arrived **cold**", AIActions: "Check the kitchen", Timestamp: testDay},
	)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Admin Analytics")
	assert.Contains(t, body, "Rating distribution")
	assert.Contains(t, body, "2026-03-14 (1)")
	assert.Contains(t, body, "<strong>cold</strong>")
	assert.Contains(t, body, "Check the kitchen")
	assert.NotContains(t, body, `action="/submit"`)
}

func TestDashboard_EscapesReviewText(t *testing.T) {
	env := newTestEnv(t, model.ViewUser, okStatus(),
		model.Submission{Rating: 2, Review: "<script>alert(1)</script>", Timestamp: testDay},
	)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func TestLive_ReturnsFragmentOnly(t *testing.T) {
	env := newTestEnv(t, model.ViewAdmin, okStatus(),
		model.Submission{Rating: 4, Review: "Nice patio", Timestamp: testDay},
	)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/partials/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<!doctype html>")
	assert.Contains(t, body, "Nice patio")
}

// --- Filter ---

func TestFilter_RejectsMissingCSRF(t *testing.T) {
	env := newTestEnv(t, model.ViewAdmin, okStatus())

	req := formRequest("/filter", url.Values{"kind": {"rating"}, "value": {"5"}})

	rec := env.do(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, env.dashboard.Snapshot().Filter.IsActive())
}

func TestFilter_PlainPostRedirects(t *testing.T) {
	env := newTestEnv(t, model.ViewAdmin, okStatus(),
		model.Submission{Rating: 5, Review: "Superb", Timestamp: testDay},
	)

	rec := env.do(formRequest("/filter", url.Values{
		"csrf_token": {testToken},
		"kind":       {"day"},
		"value":      {"2026-03-14"},
	}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, model.DayFilter("2026-03-14"), env.dashboard.Snapshot().Filter)
}

func TestFilter_LiveRequestRendersFragmentWithInsight(t *testing.T) {
	env := newTestEnv(t, model.ViewAdmin, okStatus(),
		model.Submission{Rating: 5, Review: "Superb", Timestamp: testDay},
		model.Submission{Rating: 3, Review: "Fine", Timestamp: testDay},
	)

	req := formRequest("/filter", url.Values{"kind": {"rating"}, "value": {"5"}})
	req.Header.Set(csrfHeader, testToken)
	req.Header.Set(liveRequestHeader, "1")

	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "showing only 5-star reviews")
	assert.Contains(t, body, "What 5-star reviewers are saying")
	assert.Contains(t, body, "Superb")
	assert.NotContains(t, body, "Fine")

	env.insight.Wait()
	assert.Equal(t, model.Insight{State: model.InsightReady, Text: "Guests rated this group 5"}, env.dashboard.Snapshot().Insight)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/partials/live", nil))
	assert.Contains(t, rec.Body.String(), "Guests rated this group 5")
}

func TestFilter_ClearRemovesFilter(t *testing.T) {
	env := newTestEnv(t, model.ViewAdmin, okStatus())
	env.dashboard.SetFilter(model.RatingFilter(2))

	rec := env.do(formRequest("/filter", url.Values{"csrf_token": {testToken}, "kind": {"none"}}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.False(t, env.dashboard.Snapshot().Filter.IsActive())
}

func TestFilter_InvalidRating(t *testing.T) {
	env := newTestEnv(t, model.ViewAdmin, okStatus())

	rec := env.do(formRequest("/filter", url.Values{"csrf_token": {testToken}, "kind": {"rating"}, "value": {"9"}}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		value   string
		want    model.Filter
		wantErr bool
	}{
		{name: "rating", kind: "rating", value: "3", want: model.RatingFilter(3)},
		{name: "rating out of range", kind: "rating", value: "0", wantErr: true},
		{name: "rating not a number", kind: "rating", value: "five", wantErr: true},
		{name: "day", kind: "day", value: "2026-03-14", want: model.DayFilter("2026-03-14")},
		{name: "day without timestamp", kind: "day", value: "", want: model.DayFilter("")},
		{name: "none", kind: "none", want: model.NoFilter()},
		{name: "empty kind", kind: "", want: model.NoFilter()},
		{name: "unknown", kind: "author", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseFilter(tc.kind, tc.value)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// --- Submit ---

func TestSubmit_ShowsReplyAndRefreshes(t *testing.T) {
	env := newTestEnv(t, model.ViewUser, okStatus())

	rec := env.do(formRequest("/submit", url.Values{
		"csrf_token": {testToken},
		"rating":     {"4"},
		"review":     {"Great tacos"},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<strong>friend</strong>")
	assert.Contains(t, body, "Great tacos")
	assert.Equal(t, []int{4}, env.backend.Submitted())
}

func TestSubmit_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		rating string
		review string
	}{
		{name: "empty review", rating: "5", review: "   "},
		{name: "rating out of range", rating: "7", review: "Tasty"},
		{name: "rating missing", rating: "", review: "Tasty"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, model.ViewUser, okStatus())

			rec := env.do(formRequest("/submit", url.Values{
				"csrf_token": {testToken},
				"rating":     {tc.rating},
				"review":     {tc.review},
			}))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "Please choose a rating from 1 to 5")
			assert.Empty(t, env.backend.Submitted())
		})
	}
}

func TestSubmit_BackendFailure(t *testing.T) {
	env := newTestEnv(t, model.ViewUser, okStatus())
	env.backend.submitErr = errors.New("connection refused")

	rec := env.do(formRequest("/submit", url.Values{
		"csrf_token": {testToken},
		"rating":     {"2"},
		"review":     {"Too loud"},
	}))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "We could not submit your review right now")
}

func TestSubmit_RejectsMissingCSRF(t *testing.T) {
	env := newTestEnv(t, model.ViewUser, okStatus())

	rec := env.do(formRequest("/submit", url.Values{"rating": {"5"}, "review": {"Yum"}}))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, env.backend.Submitted())
}

func TestSubmit_NotRoutedForAdmin(t *testing.T) {
	env := newTestEnv(t, model.ViewAdmin, okStatus())

	rec := env.do(formRequest("/submit", url.Values{"csrf_token": {testToken}, "rating": {"5"}, "review": {"Yum"}}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- Health ---

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		status     application.PollStatus
		wantCode   int
		wantStatus string
	}{
		{name: "starting", wantCode: http.StatusOK, wantStatus: `"status":"starting"`},
		{name: "ok", status: okStatus(), wantCode: http.StatusOK, wantStatus: `"last_success":"2026-03-14T12:00:00Z"`},
		{
			name:       "degraded",
			status:     application.PollStatus{LastSuccess: testDay, LastError: errors.New("connection refused")},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: `"last_error":"connection refused"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, model.ViewUser, tc.status)

			rec := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tc.wantStatus)
		})
	}
}

func TestStaticAssetsServed(t *testing.T) {
	env := newTestEnv(t, model.ViewUser, okStatus())

	for _, path := range []string{"/static/app.css", "/static/live.js"} {
		rec := env.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
