// internal/publish/client.go
//
// Client for the artifact file service. Publishing a reviewed artifact is
// a copy from its working location to the canonical reviewed location,
// performed remotely by the service.

package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SubmissionError is a publish request the service refused. Message is
// the human-readable failure body surfaced to the reviewer.
type SubmissionError struct {
	StatusCode int
	Message    string
}

func (e *SubmissionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("publish: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("publish: %s", e.Message)
}

// Client talks to the file service API.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// ClientOption customizes Client construction.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// NewClient creates a client rooted at baseURL (e.g. "http://localhost:8080/api").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

type copyRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// CopyArtifact asks the file service to copy the artifact from source to
// destination. A non-2xx response becomes a SubmissionError carrying the
// response body as its message; transport failures are wrapped as-is.
func (c *Client) CopyArtifact(ctx context.Context, source, destination string) error {
	body, err := json.Marshal(copyRequest{Source: source, Destination: destination})
	if err != nil {
		return fmt.Errorf("publish: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/copy-file", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("publish: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("publish: copy request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &SubmissionError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
		}
	}
	// The success body is informational only; drain it so the connection
	// can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
