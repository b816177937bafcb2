// Package web implements the HTML dashboard driving adapter using templ components.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/adapter/driving/web/templates"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/adapter/driving/web/templates/pages"
	vm "github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/adapter/driving/web/viewmodel"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/application"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
)

// liveRequestHeader marks requests sent by live.js that expect the live
// fragment instead of a redirect.
const liveRequestHeader = "X-Live-Request"

const submitFailedMessage = "We could not submit your review right now. Please try again."

// Handler is the web driving adapter that serves one dashboard as HTML.
type Handler struct {
	dashboard *application.DashboardService
	health    *application.HealthService
	poll      time.Duration
	loc       *time.Location
	logger    *slog.Logger
}

// NewHandler creates a Handler. poll is the interval live.js refreshes the
// live section with; loc is the display time zone (nil means time.Local).
func NewHandler(
	dashboard *application.DashboardService,
	health *application.HealthService,
	poll time.Duration,
	loc *time.Location,
	logger *slog.Logger,
) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		dashboard: dashboard,
		health:    health,
		poll:      poll,
		loc:       loc,
		logger:    logger,
	}
}

// Dashboard renders the full page for the configured view.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d := h.viewModel(csrfToken(w, r))
	h.renderPage(w, r, http.StatusOK, d, vm.SubmitResultViewModel{})
}

// Live renders only the polled section of the page.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	h.renderLive(w, r, h.viewModel(csrfToken(w, r)))
}

// Filter changes the active filter. Live requests get the updated fragment;
// plain form posts are redirected back to the page.
func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	f, err := parseFilter(r.FormValue("kind"), r.FormValue("value"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.dashboard.SetFilter(f)

	if r.Header.Get(liveRequestHeader) != "" {
		h.renderLive(w, r, h.viewModel(csrfToken(w, r)))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Submit posts a review from the user form and renders the page with the
// reply, or with an error notice.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	token := csrfToken(w, r)

	rating, err := strconv.Atoi(r.FormValue("rating"))
	if err != nil {
		rating = 0
	}

	reply, err := h.dashboard.Submit(r.Context(), rating, r.FormValue("review"))
	if err != nil {
		status := http.StatusBadGateway
		msg := submitFailedMessage
		if errors.Is(err, application.ErrInvalidSubmission) {
			status = http.StatusBadRequest
			msg = "Please choose a rating from 1 to 5 and write a review."
		} else {
			h.logger.ErrorContext(r.Context(), "review submission failed", "error", err)
		}
		h.renderPage(w, r, status, h.viewModel(token), vm.SubmitResultViewModel{Error: msg})
		return
	}

	h.renderPage(w, r, http.StatusOK, h.viewModel(token), vm.SubmitResultViewModel{ReplyHTML: RenderMarkdown(reply)})
}

type healthResponse struct {
	Status      string `json:"status"`
	LastSuccess string `json:"last_success,omitempty"`
	LastError   string `json:"last_error,omitempty"`
}

// Health reports the poller-derived health as JSON. Degraded answers 503.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	report := h.health.Check()

	resp := healthResponse{Status: report.Status, LastError: report.LastError}
	if !report.LastSuccess.IsZero() {
		resp.LastSuccess = report.LastSuccess.UTC().Format(time.RFC3339)
	}

	status := http.StatusOK
	if report.Status == application.HealthDegraded {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode health response", "error", err)
	}
}

func (h *Handler) viewModel(token string) vm.DashboardViewModel {
	return toDashboardViewModel(h.dashboard.Snapshot(), h.loc, h.poll, token)
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, d vm.DashboardViewModel, result vm.SubmitResultViewModel) {
	var page templ.Component
	if h.dashboard.View() == model.ViewAdmin {
		page = pages.AdminDashboard(d)
	} else {
		page = pages.UserDashboard(d, result)
	}
	h.render(w, r, status, templates.Layout(d.Title, page))
}

func (h *Handler) renderLive(w http.ResponseWriter, r *http.Request, d vm.DashboardViewModel) {
	var live templ.Component
	if h.dashboard.View() == model.ViewAdmin {
		live = pages.AdminLive(d)
	} else {
		live = pages.UserLive(d)
	}
	h.render(w, r, http.StatusOK, live)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render dashboard", "error", err)
	}
}

var errUnknownFilter = errors.New("unknown filter")

// parseFilter maps the filter form fields onto a model.Filter.
func parseFilter(kind, value string) (model.Filter, error) {
	switch model.FilterKind(kind) {
	case model.FilterRating:
		rating, err := strconv.Atoi(value)
		if err != nil || rating < model.MinRating || rating > model.MaxRating {
			return model.Filter{}, errors.New("rating must be between 1 and 5")
		}
		return model.RatingFilter(rating), nil
	case model.FilterDay:
		return model.DayFilter(value), nil
	case model.FilterNone, "none":
		return model.NoFilter(), nil
	default:
		return model.Filter{}, errUnknownFilter
	}
}
