package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// client wraps http.Client with the simulator's request conventions.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

func (c *client) get(ctx context.Context, path string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *client) post(ctx context.Context, path string, body, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *client) do(req *http.Request, out any) (int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// checkHealth verifies the service answers on /healthz.
func (c *client) checkHealth(ctx context.Context) error {
	status, err := c.get(ctx, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("health check failed with status %d", status)
	}
	return nil
}

// createSession registers one scripted session.
func (c *client) createSession(ctx context.Context, req sessionRequest) (sessionResponse, error) {
	var out sessionResponse
	status, err := c.post(ctx, "/api/sessions", req, &out)
	if err != nil {
		return sessionResponse{}, err
	}
	if status != http.StatusCreated {
		return sessionResponse{}, fmt.Errorf("create session: status %d", status)
	}
	return out, nil
}

// postEvent submits one event and reports whether it was accepted.
func (c *client) postEvent(ctx context.Context, e eventRequest) (bool, error) {
	var ack ackResponse
	status, err := c.post(ctx, "/api/events", e, &ack)
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusAccepted:
		return true, nil
	case http.StatusOK:
		return ack.Duplicate, nil
	default:
		return false, fmt.Errorf("post event: status %d", status)
	}
}

// completeSession freezes the session and returns its report.
func (c *client) completeSession(ctx context.Context, sessionID string) (reportResponse, error) {
	var rep reportResponse
	status, err := c.post(ctx, "/api/sessions/"+sessionID+"/complete", nil, &rep)
	if err != nil {
		return reportResponse{}, err
	}
	if status != http.StatusOK {
		return reportResponse{}, fmt.Errorf("complete session: status %d", status)
	}
	return rep, nil
}

// fetchReport retrieves the session's report.
func (c *client) fetchReport(ctx context.Context, sessionID string) (reportResponse, error) {
	var rep reportResponse
	status, err := c.get(ctx, "/api/sessions/"+sessionID+"/report", &rep)
	if err != nil {
		return reportResponse{}, err
	}
	if status != http.StatusOK {
		return reportResponse{}, fmt.Errorf("fetch report: status %d", status)
	}
	return rep, nil
}
