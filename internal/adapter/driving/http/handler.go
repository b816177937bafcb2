// Package httphandler serves the feedback REST API consumed by the dashboards.
package httphandler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/application"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/logging"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	submissions *application.SubmissionService
	store       Pinger
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(submissions *application.SubmissionService, store Pinger, logger *slog.Logger) *Handler {
	return &Handler{
		submissions: submissions,
		store:       store,
		logger:      logger,
	}
}

// RegisterAPIRoutes registers the REST API routes on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /favicon.ico", h.Favicon)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /submissions", h.ListSubmissions)
	mux.HandleFunc("POST /submit_review", h.SubmitReview)
	mux.HandleFunc("POST /star_summary", h.StarSummary)
	mux.Handle("GET /metrics", promhttp.Handler())
}

// NewServeMux creates an http.Handler with all routes registered, wrapped
// with the standard middleware and a CORS policy allowing origins.
func NewServeMux(h *Handler, origins []string, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{"ETag", requestIDHeader},
	})

	return c.Handler(ApplyMiddleware(mux, "feedbackapi", logger))
}

// Index answers at the root so probes and browsers never see a 404.
func (h *Handler) Index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, IndexResponse{
		Status:  "running",
		Message: "Feedback API. Use /submit_review, /submissions, /star_summary, /health",
	})
}

// Favicon returns 204 so browsers stop asking.
func (h *Handler) Favicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Health reports ok when the database answers a ping.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC().Format(time.RFC3339)

	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			h.log(r).Error("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Time: now})
			return
		}
	}

	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Time: now})
}

// ListSubmissions returns every stored review in insertion order. The body
// carries a content ETag so pollers can revalidate with If-None-Match.
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.submissions.List(r.Context())
	if err != nil {
		h.log(r).Error("failed to list submissions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]SubmissionResponse, 0, len(subs))
	for _, s := range subs {
		resp = append(resp, toSubmissionResponse(s))
	}

	data, err := json.Marshal(resp)
	if err != nil {
		h.log(r).Error("failed to encode submissions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	sum := sha256.Sum256(data)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// SubmitReview stores a new review and returns the AI reply for its author.
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.submissions.Submit(r.Context(), parseRating(req.Rating), req.Review)
	if err != nil {
		if errors.Is(err, application.ErrInvalidSubmission) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log(r).Error("failed to submit review", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, SubmitReviewResponse{Success: true, UserReply: sub.UserReply})
}

// StarSummary returns the AI group summary for the given reviews.
func (h *Handler) StarSummary(w http.ResponseWriter, r *http.Request) {
	var req StarSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text, err := h.submissions.StarSummary(r.Context(), req.Reviews, req.Rating)
	if err != nil {
		h.log(r).Warn("star summary failed", "rating", req.Rating, "reviews", len(req.Reviews), "error", err)
		writeError(w, http.StatusBadGateway, "summary unavailable")
		return
	}

	writeJSON(w, http.StatusOK, StarSummaryResponse{GroupAction: text})
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	return logging.FromContext(r.Context(), h.logger)
}

// parseRating truncates a numeric rating toward zero. Missing or
// non-numeric values yield 0, which fails validation.
func parseRating(n json.Number) int {
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Trunc(f))
}
