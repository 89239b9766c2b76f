package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/oshokin/loadshed-guard/internal/logger"
	"github.com/oshokin/loadshed-guard/internal/telemetry"
)

const (
	// requestTimeout bounds a single request.
	requestTimeout = 10 * time.Second
	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 5 * time.Second
	// readHeaderTimeout protects against slow clients.
	readHeaderTimeout = 5 * time.Second
)

// Server is the HTTP status server.
type Server struct {
	// reporter provides guard state.
	reporter Reporter
	// metrics exposes /metrics and measures requests; optional.
	metrics *telemetry.Metrics
}

// NewServer creates a status server.
func NewServer(reporter Reporter, metrics *telemetry.Metrics) *Server {
	return &Server{
		reporter: reporter,
		metrics:  metrics,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
	})

	return r
}

// Run serves until ctx is canceled.
func (s *Server) Run(ctx context.Context, address string) error {
	ctx = logger.WithName(ctx, "status-server")

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", address, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	logger.InfoKV(ctx, "Status server listening", "listen_address", lis.Addr().String())

	// Done channel is closed after Shutdown finishes so Run returns only
	// once in-flight requests are drained.
	done := make(chan struct{})

	go func() {
		defer close(done)

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.ErrorKV(ctx, "Status server shutdown failed", "error", err)
		}
	}()

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}

	<-done
	logger.Info(ctx, "Status server stopped")

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.reporter.Ready() {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "waiting for schedule"})

		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.reporter.Report(r.Context()))
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(data)
}
