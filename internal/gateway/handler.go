package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fitfi/nova-gateway/internal/apierrors"
	"github.com/fitfi/nova-gateway/internal/assistant"
	"github.com/fitfi/nova-gateway/internal/config"
	"github.com/fitfi/nova-gateway/internal/httputil"
	"github.com/fitfi/nova-gateway/internal/origin"
	"github.com/fitfi/nova-gateway/internal/persona"
	"github.com/fitfi/nova-gateway/internal/relay"
	"github.com/fitfi/nova-gateway/internal/upstream"
)

// fallbackContent is the reduced-fidelity reply for clients that do not
// consume SSE.
const fallbackContent = "Nova (fallback): streaming niet actief."

// Handler serves the Nova endpoints. It holds no per-request state; every
// invocation is a fresh, isolated execution.
type Handler struct {
	guard  *origin.Guard
	router *persona.Router
	client *upstream.Client
	orc    *assistant.Orchestrator
}

// novaRequest is the body of POST /v1/nova. Stream is a pointer so that an
// absent field means "stream when the client accepts it".
type novaRequest struct {
	Mode     string                 `json:"mode"`
	Messages []upstream.ChatMessage `json:"messages"`
	Stream   *bool                  `json:"stream,omitempty"`
}

type fallbackResponse struct {
	Model   string `json:"model"`
	Content string `json:"content"`
	TraceID string `json:"traceId"`
}

// cors sets the CORS headers every response path carries, and reports
// whether the request may proceed. Preflights short-circuit here.
func (h *Handler) cors(w http.ResponseWriter, r *http.Request) bool {
	reqOrigin := r.Header.Get("Origin")
	w.Header().Set("Access-Control-Allow-Origin", h.guard.Header(reqOrigin))
	w.Header().Set("Vary", "Origin")

	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Headers", "content-type")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.WriteHeader(http.StatusNoContent)
		return false
	}

	// Fail closed before any body parsing or upstream work.
	if !h.guard.Allowed(reqOrigin) {
		log.Warn().Str("origin", reqOrigin).Msg("origin rejected")
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return false
	}
	return true
}

// Nova handles POST /v1/nova: the streaming gateway endpoint.
func (h *Handler) Nova(w http.ResponseWriter, r *http.Request) {
	if !h.cors(w, r) {
		return
	}
	traceID := uuid.NewString()

	var req novaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if len(req.Messages) == 0 {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	resolved := h.router.Route(req.Mode)
	wantsStream := httputil.AcceptsSSE(r) && (req.Stream == nil || *req.Stream)

	apiKey := config.APIKey()
	if apiKey == "" {
		log.Error().Str("trace_id", traceID).Msg("missing OPENAI_API_KEY")
		if wantsStream {
			// The stream has to terminate cleanly even when it never gets
			// off the ground, so the client state machine cannot hang.
			httputil.SetSSEHeaders(w)
			writeSSEErrorAndDone(w, "missing OPENAI_API_KEY", traceID)
			return
		}
		apierrors.WriteJSONError(w, http.StatusInternalServerError, "missing OPENAI_API_KEY", traceID)
		return
	}

	// The system message is always synthesized server-side; caller-supplied
	// system messages are discarded, not trusted.
	messages := make([]upstream.ChatMessage, 0, len(req.Messages)+1)
	messages = append(messages, upstream.ChatMessage{Role: "system", Content: resolved.SystemPrompt})
	for _, m := range req.Messages {
		if m.Role == "system" {
			continue
		}
		messages = append(messages, m)
	}

	if !wantsStream {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(fallbackResponse{
			Model:   resolved.Model,
			Content: fallbackContent,
			TraceID: traceID,
		})
		return
	}

	httputil.SetSSEHeaders(w)
	relay.Run(r.Context(), w, relay.Params{
		Client: h.client,
		APIKey: apiKey,
		Mode:   string(resolved.Mode),
		Request: &upstream.ChatRequest{
			Model:       resolved.Model,
			Messages:    messages,
			Temperature: 0.7,
		},
		TraceID: traceID,
	})
}

// Assistant handles POST /v1/nova/assistant: the chat-driven outfit flow.
func (h *Handler) Assistant(w http.ResponseWriter, r *http.Request) {
	if !h.cors(w, r) {
		return
	}
	traceID := uuid.NewString()

	var req assistant.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	resp := h.orc.Respond(r.Context(), req)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		assistant.Response
		TraceID string `json:"traceId"`
	}{Response: resp, TraceID: traceID})
}

// Health handles GET /v1/nova/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !h.cors(w, r) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":     true,
		"fn":     "nova",
		"hasKey": config.APIKey() != "",
	})
}

func writeSSEErrorAndDone(w http.ResponseWriter, message, traceID string) {
	for _, ev := range []relay.StreamEvent{
		{Type: "error", Message: message, TraceID: traceID},
		{Type: "done"},
	} {
		data, _ := json.Marshal(ev)
		fmt.Fprintf(w, "data: %s\n\n", data)
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
