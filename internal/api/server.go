// Package api exposes the tool surface over HTTP: a JSON endpoint per tool
// plus a WebSocket hub that announces every call. The single-writer contract
// still holds; the server serializes tool execution with a mutex.
package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/docxforge/docxforge/internal/logging"
	"github.com/docxforge/docxforge/internal/tools"
)

// Config carries the HTTP server settings.
type Config struct {
	Host string
	Port int
}

// Server binds a tool registry to an HTTP listener and a WebSocket hub.
type Server struct {
	cfg      Config
	registry *tools.Registry
	hub      *Hub
	mu       sync.Mutex // serializes tool execution
}

// NewServer wires the registry into a server. The hub is created but not
// running until Start.
func NewServer(cfg Config, registry *tools.Registry) *Server {
	return &Server{
		cfg:      cfg,
		registry: registry,
		hub:      NewHub(),
	}
}

// Hub returns the server's event hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler builds the routed handler with logging middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /tools", s.handleListTools)
	mux.HandleFunc("POST /tools/{name}", s.handleCallTool)
	mux.HandleFunc("GET /ws", s.hub.ServeWS)
	return logging.CombinedMiddleware(mux)
}

// Start runs the hub and serves HTTP until the context is canceled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run()

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logging.ServerStartup("rest_api", "http", s.cfg.Port, "host", s.cfg.Host)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
