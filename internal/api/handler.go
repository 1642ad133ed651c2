// Package api implements the JSON endpoints consumed by the careers pages.
//
// Routes:
//
//	GET  /api/jobs                        → list jobs from Workable
//	GET  /api/jobs/{shortcode}            → single job from Workable
//	GET  /api/views/{shortcode}           → view count for one job
//	GET  /api/views?shortcode=a&shortcode=b → view counts for several jobs
//	POST /api/incr                        → record one view (fire-and-forget)
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"jobmate/careers-service/internal/logging"
	"jobmate/careers-service/internal/model"
	"jobmate/careers-service/internal/views"
	"jobmate/careers-service/internal/workable"
)

// maxBatchShortcodes bounds GET /api/views batch reads.
const maxBatchShortcodes = 100

// Catalog is the job source used by the handlers.
type Catalog interface {
	ListJobs(ctx context.Context) ([]model.JobPosting, error)
	GetJob(ctx context.Context, shortcode string) (*model.JobPosting, error)
}

// ViewCounter is the view service used by the handlers.
type ViewCounter interface {
	Dispatch(ctx context.Context, shortcode string)
	GetView(ctx context.Context, shortcode string) int64
	GetViews(ctx context.Context, shortcodes []string) map[string]int64
}

// Handler holds shared dependencies.
type Handler struct {
	catalog Catalog
	views   ViewCounter
	log     *logging.Logger
}

// NewHandler returns a configured Handler.
func NewHandler(catalog Catalog, counter ViewCounter, log *logging.Logger) *Handler {
	return &Handler{catalog: catalog, views: counter, log: log.With("component", "api")}
}

// RegisterRoutes mounts all API routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/jobs", h.handleJobs)
	mux.HandleFunc("/api/jobs/", h.handleJob)
	mux.HandleFunc("/api/views", h.handleViewsBatch)
	mux.HandleFunc("/api/views/", h.handleViews)
	mux.HandleFunc("/api/incr", h.handleIncr)
}

// ─── Jobs ─────────────────────────────────────────────────────────────────────

// handleJobs handles GET /api/jobs
func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	jobs, err := h.catalog.ListJobs(r.Context())
	if err != nil {
		LoggerFrom(r.Context(), h.log).Error("list jobs failed", "err", err)
		jsonError(w, "failed to fetch jobs", http.StatusBadGateway)
		return
	}

	jsonOK(w, map[string]any{"jobs": jobs})
}

// handleJob handles GET /api/jobs/{shortcode}
func (h *Handler) handleJob(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	shortcode, ok := trailingSegment(r.URL.Path, "/api/jobs/")
	if !ok || views.ValidateShortcode(shortcode) != nil {
		jsonError(w, "invalid shortcode", http.StatusBadRequest)
		return
	}

	job, err := h.catalog.GetJob(r.Context(), shortcode)
	switch {
	case errors.Is(err, workable.ErrNotFound):
		jsonError(w, "job not found", http.StatusNotFound)
		return
	case err != nil:
		LoggerFrom(r.Context(), h.log).Error("get job failed", "shortcode", shortcode, "err", err)
		jsonError(w, "failed to fetch job", http.StatusBadGateway)
		return
	}

	jsonOK(w, job)
}

// ─── Views ────────────────────────────────────────────────────────────────────

// handleViews handles GET /api/views/{shortcode}
func (h *Handler) handleViews(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	shortcode, ok := trailingSegment(r.URL.Path, "/api/views/")
	if !ok || views.ValidateShortcode(shortcode) != nil {
		jsonError(w, "invalid shortcode", http.StatusBadRequest)
		return
	}

	jsonOK(w, map[string]int64{"views": h.views.GetView(r.Context(), shortcode)})
}

// handleViewsBatch handles GET /api/views?shortcode=a&shortcode=b.
// A comma-separated shortcodes=a,b parameter is accepted as well.
func (h *Handler) handleViewsBatch(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	shortcodes := q["shortcode"]
	for _, list := range q["shortcodes"] {
		for _, sc := range strings.Split(list, ",") {
			if sc = strings.TrimSpace(sc); sc != "" {
				shortcodes = append(shortcodes, sc)
			}
		}
	}

	if len(shortcodes) == 0 {
		jsonError(w, "at least one shortcode is required", http.StatusBadRequest)
		return
	}
	if len(shortcodes) > maxBatchShortcodes {
		jsonError(w, "too many shortcodes", http.StatusBadRequest)
		return
	}
	for _, sc := range shortcodes {
		if views.ValidateShortcode(sc) != nil {
			jsonError(w, "invalid shortcode", http.StatusBadRequest)
			return
		}
	}

	jsonOK(w, map[string]any{"views": h.views.GetViews(r.Context(), shortcodes)})
}

// handleIncr handles POST /api/incr with body {"shortcode": "..."}.
// The increment runs in the background; the response only acknowledges it.
func (h *Handler) handleIncr(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var body struct {
		Shortcode string `json:"shortcode"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&body); err != nil {
		jsonError(w, "body must contain shortcode", http.StatusBadRequest)
		return
	}
	if views.ValidateShortcode(body.Shortcode) != nil {
		jsonError(w, "invalid shortcode", http.StatusBadRequest)
		return
	}

	h.views.Dispatch(r.Context(), body.Shortcode)
	jsonStatus(w, http.StatusAccepted, map[string]bool{"ok": true})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// allowMethod writes a 405 with an Allow header when r.Method != method.
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	jsonError(w, "method "+r.Method+" not allowed", http.StatusMethodNotAllowed)
	return false
}

// trailingSegment returns the single path segment after prefix.
func trailingSegment(path, prefix string) (string, bool) {
	rest := strings.TrimPrefix(path, prefix)
	if rest == path || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}

func jsonOK(w http.ResponseWriter, v any) {
	jsonStatus(w, http.StatusOK, v)
}

func jsonStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	jsonStatus(w, code, map[string]string{"error": msg})
}
