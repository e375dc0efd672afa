package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meltforce/liftlog/internal/aggregate"
	"github.com/meltforce/liftlog/internal/catalog"
)

// HTTPClient implements DataSource by calling the liftlog REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the log lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) Routines(ctx context.Context) ([]catalog.Routine, error) {
	var out []catalog.Routine
	if err := c.get(ctx, "/api/v1/routines", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Exercises(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.get(ctx, "/api/v1/exercises", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ExerciseSummary(ctx context.Context, exercise, workout string) (aggregate.WorkingSetSummary, error) {
	params := url.Values{}
	params.Set("name", exercise)
	if workout != "" {
		params.Set("workout", workout)
	}
	var out aggregate.WorkingSetSummary
	if err := c.get(ctx, "/api/v1/exercises/summary", params, &out); err != nil {
		return aggregate.WorkingSetSummary{}, err
	}
	return out, nil
}

func (c *HTTPClient) ExerciseSessions(ctx context.Context, exercise string) ([]aggregate.SessionAggregate, error) {
	params := url.Values{}
	params.Set("name", exercise)
	var out []aggregate.SessionAggregate
	if err := c.get(ctx, "/api/v1/exercises/sessions", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) SessionVolumes(ctx context.Context) ([]aggregate.SessionVolume, error) {
	var out []aggregate.SessionVolume
	if err := c.get(ctx, "/api/v1/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
