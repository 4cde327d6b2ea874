package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aigoflow/assistant-service/internal/capabilities"
	"github.com/aigoflow/assistant-service/internal/handlers"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	httpAddr     string
	handler      *handlers.AssistantHandler
	capabilities []capabilities.Capability
	ready        chan net.Addr
}

func NewServer(httpAddr string, handler *handlers.AssistantHandler, caps []capabilities.Capability) *Server {
	return &Server{
		httpAddr:     httpAddr,
		handler:      handler,
		capabilities: caps,
		ready:        make(chan net.Addr, 1),
	}
}

// Handler returns the full HTTP handler: routes wrapped in CORS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.handler.RegisterRoutes(mux)
	return handlers.CORS(mux)
}

// Ready delivers the bound listen address once Start is accepting.
func (s *Server) Ready() <-chan net.Addr {
	return s.ready
}

// Start serves until ctx is cancelled, then shuts down gracefully so
// in-flight requests finish and get logged.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpAddr)
	if err != nil {
		return err
	}

	for _, c := range s.capabilities {
		slog.Info("Registered endpoint", "endpoint", c.Endpoint, "capability", c.Type, "model", c.Model)
	}
	slog.Info("HTTP server starting",
		"addr", ln.Addr().String(),
		"capabilities", capabilities.Strings(s.capabilities))

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.ready <- ln.Addr()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
