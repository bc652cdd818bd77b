package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client fetches monitoring snapshots from the exam service. Safe for
// concurrent use.
type Client struct {
	baseURL string
	actorID uint
	httpc   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithActorID sets the supervisor id sent on every request. The snapshot
// endpoint is owner-only, so a client without it gets 403.
func WithActorID(id uint) Option {
	return func(c *Client) { c.actorID = id }
}

// NewClient creates a client against the service's /api/v1 base URL, e.g.
// "http://localhost:8080/api/v1".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GetSnapshot fetches the current snapshot for a test. The request is
// cancelled with ctx; snapshot reads have no side effects, so cancellation is
// always safe.
func (c *Client) GetSnapshot(ctx context.Context, testID uint) (*Snapshot, error) {
	url := fmt.Sprintf("%s/supervisor/tests/%d/snapshot", c.baseURL, testID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("monitor: building snapshot request: %w", err)
	}
	if c.actorID != 0 {
		req.Header.Set("X-Actor-ID", fmt.Sprintf("%d", c.actorID))
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("monitor: fetching snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("monitor: snapshot request returned %s", resp.Status)
	}

	var snapshot Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("monitor: decoding snapshot: %w", err)
	}
	return &snapshot, nil
}
