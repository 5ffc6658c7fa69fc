package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fitfi/nova-gateway/internal/config"
	"github.com/fitfi/nova-gateway/internal/gateway"
)

func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()

	log.Info().
		Str("listen", cfg.ListenAddr).
		Str("upstream_base_url", cfg.UpstreamBaseURL).
		Bool("has_key", config.APIKey() != "").
		Msg("starting nova-gateway")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The recommendation engine is an external collaborator; this binary
	// runs without one and lets the assistant degrade to clarify responses.
	srv := gateway.New(cfg, nil)
	srvErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down...")
		shutCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			log.Error().Err(err).Msg("gateway shutdown error")
		}
	case err := <-srvErr:
		log.Error().Err(err).Msg("gateway server error")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
