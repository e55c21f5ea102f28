package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"docchat-backend/internal/transcribe"
)

// Client implements transcribe.Model against a faster-whisper HTTP server.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient constructs a Client for the given whisper server endpoint.
func NewClient(endpoint string) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("WHISPER_SERVER_URL is required")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("WHISPER_TIMEOUT_SECONDS")); raw != "" {
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

type whisperResponse struct {
	Text     string `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe uploads the audio file as multipart form data and maps the
// server's segment list.
func (c *Client) Transcribe(ctx context.Context, audioPath string) ([]transcribe.Segment, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copy audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read whisper response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whisper status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed whisperResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}

	segments := make([]transcribe.Segment, 0, len(parsed.Segments))
	for _, s := range parsed.Segments {
		segments = append(segments, transcribe.Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	if len(segments) == 0 && strings.TrimSpace(parsed.Text) != "" {
		segments = append(segments, transcribe.Segment{Text: parsed.Text})
	}
	return segments, nil
}

var _ transcribe.Model = (*Client)(nil)
