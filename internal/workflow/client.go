package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Payload is the normalized query handed to the workflow engine.
type Payload struct {
	DocumentURL string `json:"document_url"`
	UserQuery   string `json:"user_query"`
}

// ErrDispatch marks a failed handoff to the workflow engine.
var ErrDispatch = errors.New("workflow dispatch failed")

// Dispatcher sends a query payload to the workflow engine and returns its
// raw JSON response.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload Payload) (json.RawMessage, error)
}

// Client dispatches payloads to an n8n-style webhook over HTTP. One attempt,
// no retries: the workflow engine owns long-running processing, this client's
// job ends at successful handoff.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient constructs a Client for the given webhook endpoint.
func NewClient(endpoint string) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("PIPELINE_URL is required")
	}
	timeout := 30 * time.Second
	if raw := strings.TrimSpace(os.Getenv("PIPELINE_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Dispatch POSTs the payload and relays the engine's JSON body verbatim.
func (c *Client) Dispatch(ctx context.Context, payload Payload) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal payload: %v", ErrDispatch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDispatch, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDispatch, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrDispatch, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrDispatch, resp.StatusCode, snippet(raw))
	}

	if len(raw) == 0 || !json.Valid(raw) {
		// Some webhook configurations answer with an empty or plain body.
		wrapped, _ := json.Marshal(map[string]string{"raw": string(raw)})
		return wrapped, nil
	}
	return raw, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 256 {
		return s[:256]
	}
	return s
}

var _ Dispatcher = (*Client)(nil)
