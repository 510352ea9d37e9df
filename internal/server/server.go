// Package server exposes a relay.Store over HTTP.
//
// Routes are declared once in a table (see Routes) and registered into a Go
// 1.22 pattern mux. Anything the table does not match falls through to a JSON
// 404. Every response carries permissive CORS headers and OPTIONS requests are
// answered before routing.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/comigor/bridge-go/internal/relay"
)

// Route is one row of the HTTP contract.
type Route struct {
	Method  string
	Pattern string
	Summary string
	Handler http.HandlerFunc
}

// Server serves one store.
type Server struct {
	store           *relay.Store
	log             *slog.Logger
	shutdownTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithShutdownTimeout bounds how long Run waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

// New returns a server backed by store.
func New(store *relay.Store, log *slog.Logger, opts ...Option) *Server {
	s := &Server{store: store, log: log, shutdownTimeout: 5 * time.Second}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes is the route table. Order is the order of the startup banner.
func (s *Server) Routes() []Route {
	return []Route{
		{http.MethodPost, "/messages", "Send a message", s.handleCreate},
		{http.MethodGet, "/messages", "Get all messages", s.handleList},
		{http.MethodGet, "/messages/unread", "Get unread messages", s.handleUnread},
		{http.MethodGet, "/messages/{id}", "Get specific message", s.handleGet},
		{http.MethodPost, "/messages/{id}/read", "Mark message as read", s.handleMarkRead},
		{http.MethodDelete, "/messages/{id}", "Delete message", s.handleDelete},
		{http.MethodGet, "/health", "Health check", s.handleHealth},
	}
}

// Handler builds the full middleware chain around the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, r := range s.Routes() {
		mux.HandleFunc(r.Method+" "+r.Pattern, r.Handler)
	}
	mux.HandleFunc("/", s.handleNotFound)

	return cors(requestID(accessLog(s.log, mux)))
}

// ListenAndServe listens on addr and runs until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Run(ctx, ln)
}

// Run serves on ln until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// OPTIONS * must reach the CORS middleware.
		DisableGeneralOptionsHandler: true,
	}

	s.banner(ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down relay")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("relay stopped")
	return nil
}

func (s *Server) banner(addr string) {
	s.log.Info("bridge relay started", "url", "http://"+addr)
	for _, r := range s.Routes() {
		s.log.Info("endpoint", "method", r.Method, "pattern", r.Pattern, "summary", r.Summary)
	}
}
