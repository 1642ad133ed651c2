package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jobmate/careers-service/internal/api"
	"jobmate/careers-service/internal/counter"
	"jobmate/careers-service/internal/logging"
	"jobmate/careers-service/internal/model"
	"jobmate/careers-service/internal/views"
	"jobmate/careers-service/internal/workable"
)

// fakeCatalog serves fixed jobs or a fixed error.
type fakeCatalog struct {
	jobs    []model.JobPosting
	listErr error
	getErr  error
	calls   int
}

func (f *fakeCatalog) ListJobs(context.Context) ([]model.JobPosting, error) {
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.jobs, nil
}

func (f *fakeCatalog) GetJob(_ context.Context, shortcode string) (*model.JobPosting, error) {
	f.calls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := range f.jobs {
		if f.jobs[i].Shortcode == shortcode {
			return &f.jobs[i], nil
		}
	}
	return nil, workable.ErrNotFound
}

type fixture struct {
	mux     http.Handler
	catalog *fakeCatalog
	svc     *views.Service
	store   *counter.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := counter.NewMemoryStore()
	svc := views.NewService(store, logging.NewNop(), 0)
	catalog := &fakeCatalog{jobs: []model.JobPosting{
		{ID: "1", Title: "Backend Engineer", Shortcode: "AAA111"},
		{ID: "2", Title: "Designer", Shortcode: "BBB222"},
	}}

	mux := http.NewServeMux()
	api.NewHandler(catalog, svc, logging.NewNop()).RegisterRoutes(mux)

	return &fixture{
		mux:     api.Middleware(logging.NewNop())(mux),
		catalog: catalog,
		svc:     svc,
		store:   store,
	}
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

// ── /api/jobs ─────────────────────────────────────────────────────────────

func TestJobs_List(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/api/jobs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := decode[struct {
		Jobs []model.JobPosting `json:"jobs"`
	}](t, rec)
	if len(body.Jobs) != 2 || body.Jobs[0].Shortcode != "AAA111" || body.Jobs[1].Shortcode != "BBB222" {
		t.Errorf("jobs = %+v", body.Jobs)
	}
}

func TestJobs_MethodNotAllowed(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/api/jobs", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodGet {
		t.Errorf("Allow = %q, want GET", allow)
	}
}

func TestJobs_UpstreamFailureHidesDetail(t *testing.T) {
	f := newFixture(t)
	f.catalog.listErr = &workable.FetchError{Op: "list jobs", Status: 500, Err: errors.New("secret internal detail")}

	rec := f.do(http.MethodGet, "/api/jobs", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Errorf("error body leaks detail: %s", rec.Body.String())
	}
	body := decode[map[string]string](t, rec)
	if body["error"] != "failed to fetch jobs" {
		t.Errorf("error = %q", body["error"])
	}
}

// ── /api/jobs/{shortcode} ─────────────────────────────────────────────────

func TestJob_Get(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/api/jobs/BBB222", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	job := decode[model.JobPosting](t, rec)
	if job.Title != "Designer" {
		t.Errorf("job = %+v", job)
	}
}

func TestJob_NotFoundVersusUpstreamFailure(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/jobs/nonexistent-shortcode", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing job status = %d, want 404", rec.Code)
	}

	f.catalog.getErr = &workable.FetchError{Op: "get job", Err: errors.New("dial tcp: refused")}
	rec = f.do(http.MethodGet, "/api/jobs/AAA111", "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("upstream failure status = %d, want 502", rec.Code)
	}
}

func TestJob_InvalidShortcodeNotForwarded(t *testing.T) {
	f := newFixture(t)
	for _, path := range []string{"/api/jobs/a:b", "/api/jobs/a/b", "/api/jobs/" + strings.Repeat("x", 65)} {
		rec := f.do(http.MethodGet, path, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", path, rec.Code)
		}
	}
	if f.catalog.calls != 0 {
		t.Errorf("catalog called %d times for invalid input", f.catalog.calls)
	}
}

// ── /api/views ────────────────────────────────────────────────────────────

func TestViews_SingleDefaultsToZero(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/api/views/job-99", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decode[map[string]int64](t, rec)["views"]; got != 0 {
		t.Errorf("views = %d, want 0", got)
	}
}

func TestViews_StoreOutageDegradesToZero(t *testing.T) {
	f := newFixture(t)
	f.svc.RecordView(context.Background(), "job-42")
	f.store.SetUnavailable(true)

	rec := f.do(http.MethodGet, "/api/views/job-42", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decode[map[string]int64](t, rec)["views"]; got != 0 {
		t.Errorf("views = %d, want 0 during outage", got)
	}
}

func TestViews_Batch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.RecordView(ctx, "a")
	f.svc.RecordView(ctx, "c")
	f.svc.RecordView(ctx, "c")

	rec := f.do(http.MethodGet, "/api/views?shortcode=a&shortcode=b&shortcodes=c,%20d", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	got := decode[struct {
		Views map[string]int64 `json:"views"`
	}](t, rec).Views
	want := map[string]int64{"a": 1, "b": 0, "c": 2, "d": 0}
	if len(got) != len(want) {
		t.Fatalf("views = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("views[%s] = %d, want %d", k, got[k], v)
		}
	}
}

func TestViews_BatchRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	tooMany := "/api/views?shortcodes=" + strings.TrimSuffix(strings.Repeat("x,", 101), ",")
	for _, target := range []string{"/api/views", "/api/views?shortcode=a:b", tooMany} {
		if rec := f.do(http.MethodGet, target, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", target, rec.Code)
		}
	}
}

// ── /api/incr ─────────────────────────────────────────────────────────────

func TestIncr_DispatchesOneView(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/incr", `{"shortcode":"job-42"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if !decode[map[string]bool](t, rec)["ok"] {
		t.Error(`response should be {"ok": true}`)
	}

	f.svc.Wait()
	if got := f.svc.GetView(context.Background(), "job-42"); got != 1 {
		t.Errorf("views after incr = %d, want 1", got)
	}
}

func TestIncr_StoreOutageStillAcknowledges(t *testing.T) {
	f := newFixture(t)
	f.store.SetUnavailable(true)

	rec := f.do(http.MethodPost, "/api/incr", `{"shortcode":"job-42"}`)
	f.svc.Wait()
	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", rec.Code)
	}
}

func TestIncr_RejectsBadInput(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		method string
		body   string
		want   int
	}{
		{http.MethodGet, "", http.StatusMethodNotAllowed},
		{http.MethodPost, `not json`, http.StatusBadRequest},
		{http.MethodPost, `{}`, http.StatusBadRequest},
		{http.MethodPost, `{"shortcode": 42}`, http.StatusBadRequest},
		{http.MethodPost, `{"shortcode": "a:b"}`, http.StatusBadRequest},
	}
	for _, c := range cases {
		rec := f.do(c.method, "/api/incr", c.body)
		if rec.Code != c.want {
			t.Errorf("%s /api/incr %q status = %d, want %d", c.method, c.body, rec.Code, c.want)
		}
	}
	f.svc.Wait()
	vals, _ := f.store.MultiGet(context.Background(), []string{views.Key("a:b")})
	if vals[0].OK {
		t.Error("invalid shortcode reached the store")
	}
}

// ── Middleware ────────────────────────────────────────────────────────────

func TestMiddleware_RequestID(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/views/x", "")
	if rec.Header().Get(api.RequestIDHeader) == "" {
		t.Error("response should carry a generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/views/x", nil)
	req.Header.Set(api.RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	if got := rec.Header().Get(api.RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want propagated abc-123", got)
	}
}

func TestMiddleware_RecoversPanic(t *testing.T) {
	h := api.Middleware(logging.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestMiddleware_PreservesFlusher(t *testing.T) {
	var flushable bool
	h := api.Middleware(logging.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, flushable = w.(http.Flusher)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !flushable {
		t.Error("wrapped writer should implement http.Flusher")
	}
}
