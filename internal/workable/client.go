// Package workable fetches job postings from the Workable SPI v3 API and
// normalises them into model.JobPosting.
//
// The client is read-only and stateless: every call goes to Workable, nothing
// is cached, and nothing is retried.
package workable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobmate/careers-service/internal/logging"
	"jobmate/careers-service/internal/model"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 10 << 20
	maxLoggedBody  = 512
)

// ErrNotFound is returned by GetJob when Workable reports no such job.
var ErrNotFound = errors.New("job not found")

// FetchError reports a transport failure, a non-success status, or a payload
// that does not have the expected shape.
type FetchError struct {
	Op     string // "list jobs" or "get job"
	Status int    // HTTP status, 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("workable %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("workable %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Config configures a Client. BaseURL and Token are required.
type Config struct {
	BaseURL    string // e.g. https://acme.workable.com
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client // overrides Timeout when set
}

// Client talks to one Workable account.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	log     *logging.Logger
}

// NewClient validates cfg and returns a Client.
func NewClient(cfg Config, log *logging.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("workable: base URL is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("workable: API token is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  httpClient,
		log:     log.With("component", "workable"),
	}, nil
}

// ListJobs returns every published job in Workable's order.
func (c *Client) ListJobs(ctx context.Context) ([]model.JobPosting, error) {
	const op = "list jobs"

	body, status, err := c.get(ctx, "/spi/v3/jobs")
	if err != nil {
		return nil, &FetchError{Op: op, Err: err}
	}
	if status != http.StatusOK {
		c.logUpstreamError(op, status, body)
		return nil, &FetchError{Op: op, Status: status, Err: errors.New("unexpected status")}
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &FetchError{Op: op, Status: status, Err: fmt.Errorf("decode: %w", err)}
	}
	if resp.Jobs == nil {
		return nil, &FetchError{Op: op, Status: status, Err: errors.New("invalid data structure: missing jobs array")}
	}

	jobs := make([]model.JobPosting, 0, len(*resp.Jobs))
	for _, j := range *resp.Jobs {
		jobs = append(jobs, j.toModel())
	}

	c.log.Debug("jobs fetched", "count", len(jobs))
	return jobs, nil
}

// GetJob returns a single job. It returns ErrNotFound when Workable answers
// 404 and a *FetchError for any other failure.
func (c *Client) GetJob(ctx context.Context, shortcode string) (*model.JobPosting, error) {
	const op = "get job"

	body, status, err := c.get(ctx, "/spi/v3/jobs/"+url.PathEscape(shortcode))
	if err != nil {
		return nil, &FetchError{Op: op, Err: err}
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status != http.StatusOK {
		c.logUpstreamError(op, status, body)
		return nil, &FetchError{Op: op, Status: status, Err: errors.New("unexpected status")}
	}

	var raw rawJob
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &FetchError{Op: op, Status: status, Err: fmt.Errorf("decode: %w", err)}
	}
	if raw.Shortcode == "" && raw.ID == "" {
		return nil, &FetchError{Op: op, Status: status, Err: errors.New("invalid data structure: empty job")}
	}

	job := raw.toModel()
	return &job, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) logUpstreamError(op string, status int, body []byte) {
	if len(body) > maxLoggedBody {
		body = body[:maxLoggedBody]
	}
	c.log.Warn("workable returned non-success status", "op", op, "status", status, "body", string(body))
}
