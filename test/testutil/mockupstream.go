package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
)

// MockUpstream is an httptest.Server that simulates an OpenAI-compatible
// /v1/chat/completions endpoint in streaming mode.
type MockUpstream struct {
	Server *httptest.Server

	// Answer is streamed word by word as delta fragments.
	Answer string

	// FailStatus, when non-zero, makes the mock reject every request with
	// that status and FailBody.
	FailStatus int
	FailBody   string

	// InjectMalformed inserts an unparsable data record between fragments.
	InjectMalformed bool

	// LastRequest captures the most recent request body parsed.
	LastRequest map[string]any
	// LastAuth captures the most recent Authorization header.
	LastAuth string
}

// NewMockUpstream creates and starts a mock provider streaming the given
// answer.
func NewMockUpstream(answer string) *MockUpstream {
	m := &MockUpstream{Answer: answer}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// Close shuts down the mock server.
func (m *MockUpstream) Close() {
	m.Server.Close()
}

// URL returns the base URL of the mock server.
func (m *MockUpstream) URL() string {
	return m.Server.URL
}

func (m *MockUpstream) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/chat/completions" || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	m.LastAuth = r.Header.Get("Authorization")

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	m.LastRequest = body

	if m.FailStatus != 0 {
		http.Error(w, m.FailBody, m.FailStatus)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	flusher, hasFlusher := w.(http.Flusher)

	writeChunk := func(delta string) {
		chunk := map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion.chunk",
			"choices": []map[string]any{
				{"index": 0, "delta": map[string]any{"content": delta}},
			},
		}
		data, _ := json.Marshal(chunk)
		fmt.Fprintf(w, "data: %s\n\n", data)
		if hasFlusher {
			flusher.Flush()
		}
	}

	words := strings.Fields(m.Answer)
	for i, word := range words {
		if i > 0 {
			word = " " + word
		}
		writeChunk(word)
		if m.InjectMalformed && i == 0 {
			fmt.Fprint(w, "data: not-json\n\n")
			if hasFlusher {
				flusher.Flush()
			}
		}
	}

	fmt.Fprint(w, "data: [DONE]\n\n")
	if hasFlusher {
		flusher.Flush()
	}
}
