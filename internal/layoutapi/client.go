package layoutapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/roomcraft/roomcraft/internal/design"
	"github.com/roomcraft/roomcraft/internal/models"
)

const (
	GetPath    = "/api/get-grid"
	UpdatePath = "/api/update-grid"
	DesignPath = "/api/design"
)

// GridPayload is the wire shape of both layout endpoints
type GridPayload struct {
	Grid models.Layout `json:"grid"`
}

// StatusError reports a non-2xx response from the layout server
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("layout server returned status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the roomcraft HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch reads the current layout
func (c *Client) Fetch(ctx context.Context) (models.Layout, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+GetPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var payload GridPayload
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}
	if payload.Grid == nil {
		return models.Layout{}, nil
	}
	return payload.Grid, nil
}

// Replace overwrites the remote layout
func (c *Client) Replace(ctx context.Context, layout models.Layout) error {
	if layout == nil {
		layout = models.Layout{}
	}
	body, err := json.Marshal(GridPayload{Grid: layout})
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+UpdatePath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, nil)
}

// Design asks the server to run a design cycle for prompt. The server
// resets the layout before answering.
func (c *Client) Design(ctx context.Context, prompt string) (*design.Result, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal design request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+DesignPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result design.Result
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach layout server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode layout response: %w", err)
	}
	return nil
}
