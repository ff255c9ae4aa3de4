// Package portia is a thin client for the Portia Cloud API. It
// fetches raw plan-run records for analysis and submits LLM tasks
// for narration and tool-driven actions like email delivery.
// Requests are single-attempt: retry policy belongs to callers'
// schedules, not here.
package portia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/vaibhav1mahajan/portia-digest-bot/internal/analysis"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.portialabs.ai"

	defaultTimeout = 60 * time.Second
	// taskTimeout covers LLM task runs, which are much slower
	// than record listing.
	taskTimeout = 180 * time.Second

	// maxPages bounds cursor-following so a misbehaving API
	// cannot loop the client forever.
	maxPages = 50
)

// Client talks to the Portia Cloud API for one organization.
type Client struct {
	baseURL string
	apiKey  string
	orgID   string
	httpc   *http.Client
}

// New builds a Client. baseURL falls back to DefaultBaseURL when
// empty; apiKey and orgID are required.
func New(baseURL, apiKey, orgID string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("portia: api key is required")
	}
	if orgID == "" {
		return nil, fmt.Errorf("portia: org id is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		orgID:   orgID,
		httpc:   &http.Client{Timeout: taskTimeout},
	}, nil
}

// RunFilter narrows a plan-run listing.
type RunFilter struct {
	Window analysis.Window
	PlanID string // optional
	State  string // optional raw platform state, e.g. "FAILED"
	Limit  int    // 0 means server default
}

// ListPlanRuns fetches the raw run records for the filter, following
// pagination cursors. Records come back loosely typed: the analysis
// layer re-validates every field.
func (c *Client) ListPlanRuns(
	ctx context.Context, f RunFilter,
) ([]analysis.RawRecord, error) {
	params := url.Values{}
	params.Set("org_id", c.orgID)
	params.Set("since", f.Window.Start.Format(time.RFC3339))
	params.Set("until", f.Window.End.Format(time.RFC3339))
	if f.PlanID != "" {
		params.Set("plan_id", f.PlanID)
	}
	if f.State != "" {
		params.Set("state", f.State)
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}

	next := c.baseURL + "/api/v0/plan-runs/?" + params.Encode()
	var records []analysis.RawRecord

	for page := 0; next != "" && page < maxPages; page++ {
		body, err := c.get(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("listing plan runs: %w", err)
		}

		items := gjson.GetBytes(body, "results")
		if !items.Exists() && gjson.ParseBytes(body).IsArray() {
			items = gjson.ParseBytes(body)
		}
		items.ForEach(func(_, item gjson.Result) bool {
			records = append(records, analysis.RawRecord(item.Raw))
			return true
		})

		next = gjson.GetBytes(body, "next").Str
		if f.Limit > 0 && len(records) >= f.Limit {
			records = records[:f.Limit]
			break
		}
	}
	return records, nil
}

// GetPlanRun fetches a single raw run record by id.
func (c *Client) GetPlanRun(
	ctx context.Context, runID string,
) (analysis.RawRecord, error) {
	body, err := c.get(
		ctx, c.baseURL+"/api/v0/plan-runs/"+url.PathEscape(runID)+"/",
	)
	if err != nil {
		return nil, fmt.Errorf("getting plan run %s: %w", runID, err)
	}
	return analysis.RawRecord(body), nil
}

// outputPaths are tried in order against a task-run response to
// find the final text output. The platform has shipped several
// response shapes.
var outputPaths = []string{
	"outputs.final_output.value",
	"outputs.final_output",
	"final_output",
	"output",
}

// RunTask submits a natural-language task to the platform and
// returns the final text output. Used for narration and for
// tool-backed actions (Gmail send).
func (c *Client) RunTask(ctx context.Context, task string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"task":   task,
		"org_id": c.orgID,
	})
	if err != nil {
		return "", fmt.Errorf("encoding task: %w", err)
	}

	body, err := c.post(ctx, c.baseURL+"/api/v0/plan-runs/run/", payload)
	if err != nil {
		return "", fmt.Errorf("running task: %w", err)
	}

	for _, path := range outputPaths {
		if v := gjson.GetBytes(body, path); v.Exists() && v.Type == gjson.String {
			return v.Str, nil
		}
	}
	return "", fmt.Errorf("task response has no recognizable output: %s",
		truncateBody(body))
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, defaultTimeout)
}

func (c *Client) post(ctx context.Context, rawURL string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, rawURL, bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, taskTimeout)
}

func (c *Client) do(req *http.Request, timeout time.Duration) ([]byte, error) {
	req.Header.Set("Authorization", "Api-Key "+c.apiKey)
	req.Header.Set("Portia-Org-Id", c.orgID)
	req.Header.Set("Accept", "application/json")

	ctx, cancel := context.WithTimeout(req.Context(), timeout)
	defer cancel()
	resp, err := c.httpc.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, truncateBody(body))
	}
	return body, nil
}

func truncateBody(b []byte) string {
	const max = 300
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
