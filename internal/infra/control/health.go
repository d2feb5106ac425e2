package control

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"jasper-launcher/internal/domain/model"
	"jasper-launcher/pkg/log"
)

// StackService is the health service name that follows the compose stack.
// The empty service name reports the launcher process itself.
const StackService = "jasper.stack"

// Health serves grpc.health.v1 so supervisors can probe the launcher.
type Health struct {
	health *health.Server
	server *grpc.Server
}

// NewHealth creates the health service with the stack reported as not serving.
func NewHealth() *Health {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(StackService, healthpb.HealthCheckResponse_NOT_SERVING)

	server := grpc.NewServer()
	healthpb.RegisterHealthServer(server, hs)
	return &Health{health: hs, server: server}
}

// SetStackState marks the stack service serving only while the stack is running.
func (h *Health) SetStackState(state model.StackState) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if state == model.StackRunning {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus(StackService, status)
}

// Check answers a health request without going through the network.
func (h *Health) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := h.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

// Serve accepts gRPC connections on listener until ctx is cancelled.
func (h *Health) Serve(ctx context.Context, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		h.health.Shutdown()
		h.server.GracefulStop()
	}()

	log.Info("gRPC health listening", "address", listener.Addr().String())
	if err := h.server.Serve(listener); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("grpc health: %w", err)
	}
	return nil
}
