// The relay owns one request's connection to the LLM provider: it decodes
// the provider's SSE stream and re-frames it into the gateway's own event
// vocabulary, with heartbeats and cooperative cancellation.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fitfi/nova-gateway/internal/upstream"
)

// DefaultHeartbeat is the keep-alive cadence while streaming.
const DefaultHeartbeat = 15 * time.Second

type state int

const (
	stateIdle state = iota
	stateConnecting
	stateStreaming
	stateClosingDone
	stateClosingError
)

// Params configures one relay run. All fields except Heartbeat are required.
type Params struct {
	Client  *upstream.Client
	APIKey  string
	Mode    string
	Request *upstream.ChatRequest
	TraceID string
	// Heartbeat overrides DefaultHeartbeat; zero means the default.
	Heartbeat time.Duration
}

// frame is one unit of work from the upstream decode loop.
type frame struct {
	delta string
	err   error
}

// Run drives the outbound SSE stream for a single request until the upstream
// ends, fails, or the client disconnects. The caller must have set SSE
// headers already; Run writes only the body. Every run terminates the stream
// with exactly one done event (preceded by an error event on failure), and
// nothing is written after it.
func Run(ctx context.Context, w http.ResponseWriter, p Params) {
	out := newFlushWriter(w)
	heartbeat := p.Heartbeat
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}

	// Idle → Connecting: the meta event goes out before the upstream call
	// resolves so the client can render a typing state immediately.
	out.emit(metaEvent(p.Mode, p.Request.Model, p.TraceID))

	body, err := p.Client.OpenStream(ctx, p.APIKey, p.Request)
	if err != nil {
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			log.Error().Str("trace_id", p.TraceID).Int("status", statusErr.Status).Msg("upstream rejected request")
			out.emit(errorEvent("upstream error", statusErr.Detail, p.TraceID))
		} else {
			log.Error().Str("trace_id", p.TraceID).Err(err).Msg("upstream connect failed")
			out.emit(errorEvent("network error", "", p.TraceID))
		}
		out.emit(doneEvent())
		return
	}
	defer body.Close()

	// Connecting → Streaming.
	st := stateStreaming

	frames := make(chan frame)
	go func() {
		defer close(frames)
		dec := upstream.NewDecoder(body)
		for {
			delta, err := dec.Next()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					select {
					case frames <- frame{err: err}:
					case <-ctx.Done():
					}
				}
				return
			}
			select {
			case frames <- frame{delta: delta}:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	// Single-writer loop: upstream frames and heartbeat ticks converge here,
	// so a ping never interleaves with a partially written event. Backpressure
	// is implicit: the next frame is only received once the previous one has
	// been fully written out.
	for st == stateStreaming {
		select {
		case <-ctx.Done():
			// Client gone. Closing the body unblocks the decode loop; the
			// deferred ticker stop releases the heartbeat.
			log.Debug().Str("trace_id", p.TraceID).Msg("client disconnected mid-stream")
			return
		case fr, ok := <-frames:
			switch {
			case !ok:
				st = stateClosingDone
			case fr.err != nil:
				log.Error().Str("trace_id", p.TraceID).Err(fr.err).Msg("upstream read failed mid-stream")
				st = stateClosingError
			default:
				out.emit(chunkEvent(fr.delta))
			}
		case <-ticker.C:
			out.ping()
		}
	}

	if st == stateClosingError {
		out.emit(errorEvent("network error", "", p.TraceID))
	}
	out.emit(doneEvent())
}

// flushWriter serializes SSE records onto the response and flushes after
// each one. Flushing is a no-op when the underlying writer does not
// implement http.Flusher.
type flushWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newFlushWriter(w http.ResponseWriter) *flushWriter {
	fw := &flushWriter{w: w}
	if f, ok := w.(http.Flusher); ok {
		fw.flusher = f
	}
	return fw
}

func (fw *flushWriter) emit(ev StreamEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	fmt.Fprintf(fw.w, "data: %s\n\n", data)
	fw.flush()
}

// ping writes a comment-style keep-alive line. It is transport-level only
// and never surfaces as a StreamEvent.
func (fw *flushWriter) ping() {
	fmt.Fprint(fw.w, ":ping\n\n")
	fw.flush()
}

func (fw *flushWriter) flush() {
	if fw.flusher != nil {
		fw.flusher.Flush()
	}
}
