package health

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/oshokin/loadshed-guard/internal/logger"
)

const (
	// ServiceName is the health service name reported for the guard.
	ServiceName = "loadshed.guard.v1"

	// DefaultPollInterval is how often readiness is re-evaluated.
	DefaultPollInterval = 5 * time.Second
)

// ReadinessFunc reports whether the guard can predict outages.
type ReadinessFunc func() bool

// Server publishes guard readiness through grpc.health.v1.Health.
type Server struct {
	// health is the standard health implementation.
	health *grpchealth.Server
	// ready is polled to update the serving status.
	ready ReadinessFunc
	// interval is the readiness poll interval.
	interval time.Duration
	// serving caches the last published status.
	serving bool
}

// NewServer creates a health server that starts NOT_SERVING.
func NewServer(ready ReadinessFunc, interval time.Duration) *Server {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	h := grpchealth.NewServer()
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Server{
		health:   h,
		ready:    ready,
		interval: interval,
	}
}

// Health returns the underlying health service.
func (s *Server) Health() healthpb.HealthServer {
	return s.health
}

// Sync publishes the current readiness.
func (s *Server) Sync(ctx context.Context) {
	ready := s.ready()
	if ready == s.serving {
		return
	}

	s.serving = ready

	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		status = healthpb.HealthCheckResponse_SERVING
	}

	s.health.SetServingStatus(ServiceName, status)
	logger.InfoKV(ctx, "Health status changed", "service", ServiceName, "status", status.String())
}

// Run starts the gRPC server and blocks until context is canceled or server stops.
func (s *Server) Run(ctx context.Context, address string) error {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", address, err)
	}

	return s.Serve(ctx, lis)
}

// Serve runs the gRPC server on lis until ctx is canceled.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	ctx = logger.WithName(ctx, "grpc-health")

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, s.health)
	reflection.Register(grpcServer)

	logger.InfoKV(ctx, "Health server listening", "listen_address", lis.Addr().String())

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.Sync(ctx)

		for {
			select {
			case <-ctx.Done():
				logger.Info(ctx, "Shutting down gRPC server")
				s.health.Shutdown()
				grpcServer.GracefulStop()

				return
			case <-ticker.C:
				s.Sync(ctx)
			}
		}
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}
