// Package server provides HTTP server lifecycle management for regosift
// services.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Graceful shutdown waits for in-flight requests up to this long before
// closing remaining connections.
const shutdownTimeout = 30 * time.Second

// Server wraps http.Server with lifecycle management.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
}

// New creates a server for the given handler and listen address.
func New(handler http.Handler, host string, port int, requestTimeout time.Duration) *Server {
	addr := fmt.Sprintf("%s:%d", host, port)
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           http.TimeoutHandler(handler, requestTimeout, "request timed out"),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start binds the listen address and serves until Shutdown is called.
// Blocks the calling goroutine.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = listener

	log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")

	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Addr returns the bound listen address, useful when port 0 was requested.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown gracefully stops the server, waiting for in-flight requests
// up to shutdownTimeout before forcing connections closed.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	log.Info().Msg("shutting down http server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown incomplete, closing connections")
		return s.httpServer.Close()
	}
	return nil
}
