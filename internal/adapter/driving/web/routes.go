package web

import (
	"io/fs"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
)

// RegisterRoutes registers the dashboard routes on the provided mux.
// Static assets are served from the embedded filesystem at /static/*.
// The submit form is only routed for the user view.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", h.Dashboard)
	mux.HandleFunc("GET /partials/live", h.Live)
	mux.HandleFunc("POST /filter", h.Filter)
	if h.dashboard.View() == model.ViewUser {
		mux.HandleFunc("POST /submit", h.Submit)
	}
	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
}
