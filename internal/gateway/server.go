package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/fitfi/nova-gateway/internal/assistant"
	"github.com/fitfi/nova-gateway/internal/config"
	"github.com/fitfi/nova-gateway/internal/origin"
	"github.com/fitfi/nova-gateway/internal/persona"
	"github.com/fitfi/nova-gateway/internal/upstream"
)

// Server is the Nova gateway HTTP server.
type Server struct {
	httpServer *http.Server
}

// New constructs a Server from the given config. rec is the external
// recommendation engine backing the assistant endpoint; it may be nil, in
// which case chat-driven outfit requests degrade to clarify responses.
func New(cfg *config.Config, rec assistant.Recommender) *Server {
	h := &Handler{
		guard:  origin.NewGuard(cfg.AllowedOrigins),
		router: persona.NewRouter(),
		client: upstream.NewClient(cfg.UpstreamBaseURL),
		orc:    assistant.New(rec),
	}

	r := mux.NewRouter()
	r.HandleFunc("/v1/nova", h.Nova).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/v1/nova/assistant", h.Assistant).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/v1/nova/health", h.Health).Methods(http.MethodGet, http.MethodOptions)
	r.Use(loggingMiddleware, recoveryMiddleware)

	return &Server{
		httpServer: &http.Server{
			Addr:        cfg.ListenAddr,
			Handler:     r,
			ReadTimeout: 30 * time.Second,
			// No WriteTimeout: SSE responses stay open as long as the
			// upstream streams.
			IdleTimeout: 60 * time.Second,
		},
	}
}

// Start begins listening and blocks until the server is stopped.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Handler returns the underlying http.Handler (for use in tests with
// httptest.NewServer).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
