package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// SubmissionResponse is the JSON representation of a stored review.
type SubmissionResponse struct {
	ID        string `json:"id"`
	Rating    int    `json:"rating"`
	Review    string `json:"review"`
	Timestamp string `json:"timestamp"`
	UserReply string `json:"user_reply"`
	AISummary string `json:"ai_summary"`
	AIActions string `json:"ai_actions"`
}

// SubmitReviewRequest is the JSON body for POST /submit_review.
type SubmitReviewRequest struct {
	Rating json.Number `json:"rating"`
	Review string      `json:"review"`
}

// SubmitReviewResponse is returned after a review is stored.
type SubmitReviewResponse struct {
	Success   bool   `json:"success"`
	UserReply string `json:"user_reply"`
}

// StarSummaryRequest is the JSON body for POST /star_summary.
type StarSummaryRequest struct {
	Reviews []string `json:"reviews"`
	Rating  int      `json:"rating"`
}

// StarSummaryResponse carries the group summary text.
type StarSummaryResponse struct {
	GroupAction string `json:"group_action"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// IndexResponse is served at the API root.
type IndexResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// toSubmissionResponse converts a domain Submission to its JSON representation.
// A zero timestamp is rendered as "".
func toSubmissionResponse(s model.Submission) SubmissionResponse {
	var ts string
	if !s.Timestamp.IsZero() {
		ts = s.Timestamp.UTC().Format(time.RFC3339Nano)
	}

	return SubmissionResponse{
		ID:        s.ID,
		Rating:    s.Rating,
		Review:    s.Review,
		Timestamp: ts,
		UserReply: s.UserReply,
		AISummary: s.AISummary,
		AIActions: s.AIActions,
	}
}
