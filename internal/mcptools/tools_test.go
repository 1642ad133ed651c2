package mcptools_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"jobmate/careers-service/internal/counter"
	"jobmate/careers-service/internal/logging"
	"jobmate/careers-service/internal/mcptools"
	"jobmate/careers-service/internal/model"
	"jobmate/careers-service/internal/views"
	"jobmate/careers-service/internal/workable"
)

type fakeCatalog struct {
	jobs []model.JobPosting
	err  error
}

func (f *fakeCatalog) ListJobs(context.Context) ([]model.JobPosting, error) {
	return f.jobs, f.err
}

func (f *fakeCatalog) GetJob(_ context.Context, shortcode string) (*model.JobPosting, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.jobs {
		if f.jobs[i].Shortcode == shortcode {
			return &f.jobs[i], nil
		}
	}
	return nil, workable.ErrNotFound
}

func fixture() (*fakeCatalog, *views.Service) {
	catalog := &fakeCatalog{jobs: []model.JobPosting{
		{Title: "Backend Engineer", Shortcode: "AAA111"},
		{Title: "Designer", Shortcode: "BBB222"},
	}}
	return catalog, views.NewService(counter.NewMemoryStore(), logging.NewNop(), 0)
}

// ── Handlers ──────────────────────────────────────────────────────────────

func TestListJobs(t *testing.T) {
	catalog, _ := fixture()
	_, out, err := mcptools.ListJobsHandler(catalog, logging.NewNop())(context.Background(), nil, mcptools.ListJobsInput{})
	if err != nil {
		t.Fatalf("list_jobs: %v", err)
	}
	if len(out.Jobs) != 2 || out.Jobs[0].Shortcode != "AAA111" {
		t.Errorf("jobs = %+v", out.Jobs)
	}

	catalog.jobs = nil
	_, out, err = mcptools.ListJobsHandler(catalog, logging.NewNop())(context.Background(), nil, mcptools.ListJobsInput{})
	if err != nil || out.Jobs == nil {
		t.Errorf("empty catalog = %+v, %v; want non-nil empty list", out.Jobs, err)
	}
}

func TestGetJob(t *testing.T) {
	catalog, _ := fixture()
	h := mcptools.GetJobHandler(catalog, logging.NewNop())

	_, out, err := h(context.Background(), nil, mcptools.GetJobInput{Shortcode: "BBB222"})
	if err != nil || out.Job.Title != "Designer" {
		t.Fatalf("get_job = %+v, %v", out.Job, err)
	}

	_, _, err = h(context.Background(), nil, mcptools.GetJobInput{Shortcode: "ZZZ999"})
	if err == nil || err.Error() != "job not found" {
		t.Errorf("missing job err = %v, want %q", err, "job not found")
	}

	_, _, err = h(context.Background(), nil, mcptools.GetJobInput{Shortcode: "a:b"})
	var ve *views.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("invalid shortcode err = %v, want ValidationError", err)
	}
}

func TestGetJob_HidesUpstreamDetail(t *testing.T) {
	upstream := &workable.FetchError{
		Op:     "get job",
		Status: 503,
		Err: &url.Error{
			Op:  "Get",
			URL: "https://acme.workable.com/spi/v3/jobs/BBB222?token=secret",
			Err: errors.New("service unavailable"),
		},
	}
	catalog := &fakeCatalog{err: upstream}

	_, _, err := mcptools.GetJobHandler(catalog, logging.NewNop())(context.Background(), nil, mcptools.GetJobInput{Shortcode: "BBB222"})
	if err == nil || err.Error() != "failed to fetch job" {
		t.Fatalf("upstream failure err = %v, want %q", err, "failed to fetch job")
	}
	for _, leak := range []string{"http", "503", "workable.com", "secret"} {
		if strings.Contains(err.Error(), leak) {
			t.Errorf("tool error %q exposes %q", err, leak)
		}
	}

	_, _, err = mcptools.ListJobsHandler(catalog, logging.NewNop())(context.Background(), nil, mcptools.ListJobsInput{})
	if err == nil || err.Error() != "failed to fetch jobs" {
		t.Errorf("list upstream failure err = %v, want %q", err, "failed to fetch jobs")
	}
}

func TestGetViews_ReadsWithoutRecording(t *testing.T) {
	_, svc := fixture()
	ctx := context.Background()
	svc.RecordView(ctx, "AAA111")
	svc.RecordView(ctx, "AAA111")

	h := mcptools.GetViewsHandler(svc)
	for range 2 {
		_, out, err := h(ctx, nil, mcptools.GetViewsInput{Shortcodes: []string{"AAA111", "BBB222"}})
		if err != nil {
			t.Fatalf("get_views: %v", err)
		}
		if out.Views["AAA111"] != 2 || out.Views["BBB222"] != 0 {
			t.Errorf("views = %v", out.Views)
		}
	}

	if _, _, err := h(ctx, nil, mcptools.GetViewsInput{}); err == nil {
		t.Error("empty shortcodes should fail")
	}
}

// ── Protocol round trip ───────────────────────────────────────────────────

func TestServer_CallToolOverSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalog, svc := fixture()
	svc.RecordView(ctx, "BBB222")
	server := mcptools.NewServer(catalog, svc, "test", logging.NewNop())

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"list_jobs", "get_job", "get_views"} {
		if !names[want] {
			t.Errorf("tool %s not registered", want)
		}
	}

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_views",
		Arguments: map[string]any{"shortcodes": []string{"BBB222", "AAA111"}},
	})
	if err != nil {
		t.Fatalf("call get_views: %v", err)
	}
	if res.IsError {
		t.Fatalf("get_views returned tool error: %+v", res.Content)
	}
	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatal(err)
	}
	var out mcptools.GetViewsResult
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode structured content %s: %v", raw, err)
	}
	if out.Views["BBB222"] != 1 || out.Views["AAA111"] != 0 {
		t.Errorf("views = %v", out.Views)
	}
}
