// Package web serves the server-rendered careers pages.
package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"

	"jobmate/careers-service/internal/api"
	"jobmate/careers-service/internal/logging"
	"jobmate/careers-service/internal/model"
	"jobmate/careers-service/internal/views"
	"jobmate/careers-service/internal/web/templates"
	"jobmate/careers-service/internal/workable"
)

// ViewReader is the read side of the view service.
type ViewReader interface {
	GetView(ctx context.Context, shortcode string) int64
	GetViews(ctx context.Context, shortcodes []string) map[string]int64
}

// Handler renders the careers pages.
type Handler struct {
	catalog api.Catalog
	views   ViewReader
	log     *logging.Logger
}

// NewHandler returns a configured Handler.
func NewHandler(catalog api.Catalog, counter ViewReader, log *logging.Logger) *Handler {
	return &Handler{catalog: catalog, views: counter, log: log.With("component", "web")}
}

// RegisterRoutes mounts the page routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.handleRoot)
	mux.HandleFunc("/careers", h.handleCareers)
	mux.HandleFunc("/careers/", h.handleJob)
}

// handleRoot redirects / to the listing; anything else unmatched is a 404.
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.render(w, r, http.StatusNotFound, "Not found",
			templates.Message("Page not found", "The page you are looking for does not exist."))
		return
	}
	http.Redirect(w, r, "/careers", http.StatusFound)
}

// handleCareers handles GET /careers
func (h *Handler) handleCareers(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	ctx := r.Context()

	jobs, err := h.catalog.ListJobs(ctx)
	if err != nil {
		api.LoggerFrom(ctx, h.log).Error("careers page: list jobs failed", "err", err)
		h.unavailable(w, r)
		return
	}

	shortcodes := make([]string, 0, len(jobs))
	for _, j := range jobs {
		if views.ValidateShortcode(j.Shortcode) == nil {
			shortcodes = append(shortcodes, j.Shortcode)
		}
	}
	counts := h.views.GetViews(ctx, shortcodes)

	h.render(w, r, http.StatusOK, "Careers", templates.Careers(BuildCareersPage(jobs, counts)))
}

// handleJob handles GET /careers/{shortcode}. The job and its view count are
// fetched in parallel.
func (h *Handler) handleJob(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	shortcode := strings.TrimPrefix(r.URL.Path, "/careers/")
	if views.ValidateShortcode(shortcode) != nil {
		h.notFound(w, r)
		return
	}

	var (
		job   *model.JobPosting
		count int64
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		job, err = h.catalog.GetJob(ctx, shortcode)
		return err
	})
	g.Go(func() error {
		// Request context: a failed GetJob cancels the group's ctx.
		count = h.views.GetView(r.Context(), shortcode)
		return nil
	})
	err := g.Wait()

	switch {
	case errors.Is(err, workable.ErrNotFound):
		h.notFound(w, r)
		return
	case err != nil:
		api.LoggerFrom(r.Context(), h.log).Error("job page: get job failed", "shortcode", shortcode, "err", err)
		h.unavailable(w, r)
		return
	}

	h.render(w, r, http.StatusOK, job.Title+" | Careers", templates.Job(BuildJobDetail(job, count)))
}

// ─── Page data ────────────────────────────────────────────────────────────────

// BuildCareersPage lays jobs out as one featured card, up to two secondary
// cards and three columns holding the rest by index mod 3.
func BuildCareersPage(jobs []model.JobPosting, counts map[string]int64) templates.CareersPage {
	var page templates.CareersPage
	for i := range jobs {
		c := jobCard(&jobs[i], counts[jobs[i].Shortcode])
		switch {
		case i == 0:
			page.Featured = &c
		case i <= 2:
			page.Secondary = append(page.Secondary, c)
		default:
			col := (i - 3) % 3
			page.Columns[col] = append(page.Columns[col], c)
		}
	}
	return page
}

// BuildJobDetail formats a posting for the detail page.
func BuildJobDetail(job *model.JobPosting, count int64) templates.JobDetail {
	return templates.JobDetail{
		Shortcode:           job.Shortcode,
		Title:               job.Title,
		Teaser:              Teaser(job.Description),
		Views:               CompactNumber(count),
		ViewsTitle:          ViewCountTitle(count),
		ApplicationURL:      job.ApplicationURL,
		Department:          job.Department,
		Location:            DisplayCity(job.Location.City),
		Country:             job.Location.Country,
		EmploymentType:      job.EmploymentType,
		DescriptionHTML:     job.Description,
		RequirementsHTML:    job.Requirements,
		BenefitsHTML:        job.Benefits,
		FullDescriptionHTML: job.FullDescription,
	}
}

func jobCard(job *model.JobPosting, count int64) templates.JobCard {
	return templates.JobCard{
		Shortcode:  job.Shortcode,
		Title:      job.Title,
		Date:       FormatDate(job.CreatedAt),
		Views:      CompactNumber(count),
		ViewsTitle: ViewCountTitle(count),
		Subtitle:   Subtitle(job),
	}
}

// Subtitle joins department, workplace type and city with bullets, skipping
// empty parts.
func Subtitle(job *model.JobPosting) string {
	parts := make([]string, 0, 3)
	if job.Department != "" {
		parts = append(parts, job.Department)
	}
	if job.Location.WorkplaceType != "" {
		parts = append(parts, CapitalizeFirst(job.Location.WorkplaceType))
	}
	parts = append(parts, DisplayCity(job.Location.City))
	return strings.Join(parts, " • ")
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	templ.Handler(templates.Layout(title, body), templ.WithStatus(status)).ServeHTTP(w, r)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "Job not found",
		templates.Message("Job not found", "This position may have been filled or removed."))
}

func (h *Handler) unavailable(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusBadGateway, "Careers unavailable",
		templates.Message("Something went wrong", "We could not load open positions right now. Please try again shortly."))
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}
