package upstream

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// chunk mirrors the fields of one streaming chat-completions fragment that
// the gateway cares about.
type chunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Decoder incrementally decodes the provider's SSE byte stream into content
// deltas. Reading is line-oriented on raw bytes, so a multi-byte UTF-8
// sequence split across network reads is reassembled by the buffered reader
// rather than dropped.
type Decoder struct {
	scanner *bufio.Scanner
}

// NewDecoder wraps the provider response body.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	return &Decoder{scanner: scanner}
}

// Next returns the next non-empty content delta from the stream. It returns
// io.EOF when the upstream signals end-of-stream, and any transport error
// otherwise. Records that are not "data:" lines, the "[DONE]" sentinel, and
// fragments that fail to parse as JSON are all consumed silently.
func (d *Decoder) Next() (string, error) {
	for d.scanner.Scan() {
		line := strings.TrimSpace(d.scanner.Text())
		payload, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		payload = strings.TrimSpace(payload)
		if payload == "" || payload == "[DONE]" {
			continue
		}

		var c chunk
		if err := json.Unmarshal([]byte(payload), &c); err != nil {
			// Malformed upstream fragment; drop it rather than kill the stream.
			continue
		}
		if len(c.Choices) == 0 || c.Choices[0].Delta.Content == "" {
			continue
		}
		return c.Choices[0].Delta.Content, nil
	}
	if err := d.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
