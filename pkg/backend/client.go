package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"recast/pkg/config"
	"recast/pkg/utils"
)

// TransportError reports a failed HTTP exchange with the backend. Any
// transport error aborts the whole run; there are no automatic retries.
type TransportError struct {
	Endpoint   string
	StatusCode int // 0 when the request never completed
	Err        error
	Body       string
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("backend %s request failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client talks to the plan/refactor backend. One instance per run.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *utils.Logger
}

func NewClient(cfg *config.Config, logger *utils.Logger) *Client {
	timeout := time.Duration(cfg.RequestTimeoutSecs) * time.Second
	return &Client{
		baseURL:    strings.TrimRight(cfg.ServerURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// NewRequestID returns the correlation token for one run. It is generated
// once, sent with the plan request, and must be reused verbatim on the
// refactor request of the same run.
func NewRequestID() string {
	return uuid.NewString()
}

// Plan performs the single synchronous call to the planning endpoint.
func (c *Client) Plan(ctx context.Context, req *PlanRequest) (*PlanResponse, error) {
	var resp PlanResponse
	if err := c.postJSON(ctx, "/plan", req, &resp); err != nil {
		return nil, err
	}
	c.logger.Logf("Plan %s: %d targets (planner %s, ~%d tokens)",
		req.RequestID, len(resp.TargetFiles), resp.PlannerVersion, resp.EstimatedTokenCost)
	return &resp, nil
}

// Refactor performs the single synchronous call to the refactoring
// endpoint. Per-item errors inside a success response are not transport
// errors and are left for the caller to reconcile.
func (c *Client) Refactor(ctx context.Context, req *RefactorRequest) (*RefactorResponse, error) {
	var resp RefactorResponse
	if err := c.postJSON(ctx, "/refactor", req, &resp); err != nil {
		return nil, err
	}
	c.logger.Logf("Refactor %s: %d results, dry_run=%v", req.RequestID, len(resp.Results), req.DryRun)
	return &resp, nil
}

// Health checks backend liveness.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, &TransportError{Endpoint: "/health", Err: err}
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Endpoint: "/health", Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: "/health", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Endpoint: "/health", StatusCode: resp.StatusCode, Body: excerpt(body)}
	}
	var health HealthResponse
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, &TransportError{Endpoint: "/health", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return &health, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, reqBody, respBody interface{}) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", endpoint, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: excerpt(body)}
	}
	if err := json.Unmarshal(body, respBody); err != nil {
		return &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// excerpt bounds error bodies so a misbehaving backend cannot flood the
// operator's terminal.
func excerpt(body []byte) string {
	const max = 512
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
