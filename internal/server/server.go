// Package server exposes an Inspector to remote consoles: as MCP tools
// over stdio or streamable HTTP, and as a websocket bridge speaking the
// inspector's request/response frames.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/layout-inspector/internal/inspector"
	"github.com/mj1618/layout-inspector/internal/platform"
)

// Config holds server configuration.
type Config struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
}

// Server wraps the MCP server with the inspector and snapshot cache.
type Server struct {
	inspector *inspector.Inspector
	provider  *platform.Provider
	cache     *SnapshotCache
	mcp       *mcpserver.MCPServer
	logger    *slog.Logger
	version   string
}

// Option configures a Server.
type Option func(*Server)

// WithProvider sets the host whose update cycle mutations wait on.
func WithProvider(p *platform.Provider) Option {
	return func(s *Server) { s.provider = p }
}

// WithLogger sets the server's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVersion sets the version reported to MCP clients.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a server over in with all inspector tools registered.
func New(in *inspector.Inspector, cfg Config, opts ...Option) *Server {
	s := &Server{
		inspector: in,
		cache:     NewSnapshotCache(cfg.CacheTTL),
		logger:    slog.New(slog.DiscardHandler),
		version:   "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcp = mcpserver.NewMCPServer("layout-inspector", s.version)
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer { return s.mcp }

// Cache returns the snapshot cache.
func (s *Server) Cache() *SnapshotCache { return s.cache }

// Serve starts the server with the configured transport.
func (s *Server) Serve(ctx context.Context, cfg Config) error {
	addr := fmt.Sprintf(":%d", cfg.Port)
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		s.logger.Info("serving MCP", "transport", cfg.Transport, "addr", addr)
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(addr)
	case "ws":
		s.logger.Info("serving websocket bridge", "addr", addr)
		return s.serveHTTP(ctx, &http.Server{Addr: addr, Handler: s.Handler()})
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio, streamable-http or ws)", cfg.Transport)
	}
}

// Handler returns the HTTP handler serving the websocket bridge on /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

func (s *Server) serveHTTP(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// afterMutation waits for the host to apply an accepted write and expires
// cached snapshots so the next read sees it.
func (s *Server) afterMutation(ctx context.Context) {
	if s.provider != nil {
		if err := s.provider.Wait(ctx); err != nil {
			s.logger.Warn("host sync failed", "error", err)
		}
	}
	s.cache.InvalidateAll()
}
