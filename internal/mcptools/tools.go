// Package mcptools exposes the job catalog and view counts to agents as
// read-only MCP tools served over streamable HTTP.
package mcptools

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"jobmate/careers-service/internal/api"
	"jobmate/careers-service/internal/logging"
	"jobmate/careers-service/internal/model"
	"jobmate/careers-service/internal/views"
	"jobmate/careers-service/internal/workable"
)

const maxViewShortcodes = 100

// Tool error texts mirror the JSON API; upstream detail is only logged.
var (
	errJobNotFound     = errors.New("job not found")
	errFetchJobFailed  = errors.New("failed to fetch job")
	errFetchJobsFailed = errors.New("failed to fetch jobs")
)

// ViewReader is the read side of the view service.
type ViewReader interface {
	GetViews(ctx context.Context, shortcodes []string) map[string]int64
}

// ListJobsInput is the (empty) input of list_jobs.
type ListJobsInput struct{}

// ListJobsResult is the output of list_jobs.
type ListJobsResult struct {
	Jobs []model.JobPosting `json:"jobs" jsonschema:"published job postings in catalog order"`
}

// GetJobInput is the input of get_job.
type GetJobInput struct {
	Shortcode string `json:"shortcode" jsonschema:"Workable job shortcode"`
}

// GetJobResult is the output of get_job.
type GetJobResult struct {
	Job model.JobPosting `json:"job" jsonschema:"the job posting"`
}

// GetViewsInput is the input of get_views.
type GetViewsInput struct {
	Shortcodes []string `json:"shortcodes" jsonschema:"job shortcodes to read view counts for"`
}

// GetViewsResult is the output of get_views.
type GetViewsResult struct {
	Views map[string]int64 `json:"views" jsonschema:"view count per shortcode; unknown shortcodes are 0"`
}

// NewServer builds an MCP server with list_jobs, get_job and get_views.
// None of the tools record views.
func NewServer(catalog api.Catalog, counter ViewReader, version string, log *logging.Logger) *mcp.Server {
	log = log.With("component", "mcp")
	server := mcp.NewServer(&mcp.Implementation{Name: "careers-service", Version: version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_jobs",
		Description: "Lists published job openings from the careers catalog",
	}, ListJobsHandler(catalog, log))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_job",
		Description: "Fetches one job opening by shortcode",
	}, GetJobHandler(catalog, log))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_views",
		Description: "Reads page view counts for job shortcodes",
	}, GetViewsHandler(counter))
	return server
}

// Handler serves server over streamable HTTP.
func Handler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}

// ListJobsHandler lists the catalog.
func ListJobsHandler(catalog api.Catalog, log *logging.Logger) mcp.ToolHandlerFor[ListJobsInput, ListJobsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ListJobsInput) (*mcp.CallToolResult, ListJobsResult, error) {
		jobs, err := catalog.ListJobs(ctx)
		if err != nil {
			log.Error("list_jobs failed", "err", err)
			return nil, ListJobsResult{}, errFetchJobsFailed
		}
		if jobs == nil {
			jobs = []model.JobPosting{}
		}
		return nil, ListJobsResult{Jobs: jobs}, nil
	}
}

// GetJobHandler fetches one posting.
func GetJobHandler(catalog api.Catalog, log *logging.Logger) mcp.ToolHandlerFor[GetJobInput, GetJobResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in GetJobInput) (*mcp.CallToolResult, GetJobResult, error) {
		if err := views.ValidateShortcode(in.Shortcode); err != nil {
			return nil, GetJobResult{}, err
		}
		job, err := catalog.GetJob(ctx, in.Shortcode)
		switch {
		case errors.Is(err, workable.ErrNotFound):
			return nil, GetJobResult{}, errJobNotFound
		case err != nil:
			log.Error("get_job failed", "shortcode", in.Shortcode, "err", err)
			return nil, GetJobResult{}, errFetchJobFailed
		}
		return nil, GetJobResult{Job: *job}, nil
	}
}

// GetViewsHandler reads counts without incrementing them.
func GetViewsHandler(counter ViewReader) mcp.ToolHandlerFor[GetViewsInput, GetViewsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in GetViewsInput) (*mcp.CallToolResult, GetViewsResult, error) {
		if len(in.Shortcodes) == 0 {
			return nil, GetViewsResult{}, fmt.Errorf("at least one shortcode is required")
		}
		if len(in.Shortcodes) > maxViewShortcodes {
			return nil, GetViewsResult{}, fmt.Errorf("at most %d shortcodes are allowed", maxViewShortcodes)
		}
		return nil, GetViewsResult{Views: counter.GetViews(ctx, in.Shortcodes)}, nil
	}
}
