package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const requestTimeout = 15 * time.Second

// Payload is the forwarding-stage body: the sender, the raw message text,
// and the serialized extraction result. The receiver's response is never
// consumed.
type Payload struct {
	UserID  string          `json:"user_id"`
	RawText string          `json:"raw_text"`
	Parsed  json.RawMessage `json:"parsed"`
}

// Client delivers fire-and-forget POSTs to one webhook destination.
type Client struct {
	url        string
	httpClient *http.Client
}

// New constructs a webhook client for one destination URL.
func New(url string) (*Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("webhook url is required")
	}

	return &Client{
		url:        strings.TrimSpace(url),
		httpClient: &http.Client{Timeout: requestTimeout},
	}, nil
}

// Forward POSTs one payload. Non-2xx responses count as delivery failures
// so the caller can log them, but the response body is otherwise ignored.
func (c *Client) Forward(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook responded %s", resp.Status)
	}

	return nil
}
