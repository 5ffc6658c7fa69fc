package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"
)

// diagLimit caps how much of an upstream error body is kept for diagnostics.
const diagLimit = 300

// ChatMessage is a single message in a chat-completions request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body sent to the provider's chat-completions endpoint.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature,omitempty"`
}

// StatusError reports a non-2xx response from the provider. Detail holds at
// most diagLimit bytes of the response body, cut on a rune boundary.
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %d: %s", e.Status, e.Detail)
}

// Client sends chat-completions requests to the LLM provider. Requests carry
// no client-side timeout: streams stay open as long as the upstream produces
// and the request context lives.
type Client struct {
	// completionsURL is the full URL of the chat-completions endpoint.
	// If the configured base URL does not already end with
	// "/v1/chat/completions" the suffix is appended automatically, so callers
	// can pass either a base host or the full URL.
	completionsURL string
	httpClient     *http.Client
}

// NewClient constructs a Client with the given base URL (or full endpoint
// URL).
func NewClient(baseURL string) *Client {
	completionsURL := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(completionsURL, "/v1/chat/completions") {
		completionsURL += "/v1/chat/completions"
	}

	return &Client{
		completionsURL: completionsURL,
		httpClient: &http.Client{
			Transport: &http.Transport{Proxy: http.ProxyFromEnvironment},
		},
	}
}

// OpenStream issues a streaming chat-completions request and returns the raw
// SSE response body on a 2xx status. The caller owns the returned body and
// must close it. Non-2xx responses are returned as a *StatusError.
func (c *Client) OpenStream(ctx context.Context, apiKey string, req *ChatRequest) (io.ReadCloser, error) {
	req.Stream = true
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.completionsURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upstream request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, diagLimit+utf8.UTFMax))
		resp.Body.Close()
		return nil, &StatusError{Status: resp.StatusCode, Detail: truncate(string(raw), diagLimit)}
	}

	return resp.Body, nil
}

// truncate cuts s to at most limit bytes without splitting a UTF-8 sequence.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
