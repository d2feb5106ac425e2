package control

import (
	"context"
	"net"
	"testing"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"jasper-launcher/internal/domain/model"
)

func TestHealthFollowsStackState(t *testing.T) {
	h := NewHealth()
	ctx := context.Background()

	check := func(service string, want healthpb.HealthCheckResponse_ServingStatus) {
		t.Helper()
		got, err := h.Check(ctx, service)
		if err != nil {
			t.Fatalf("Check(%q) failed: %v", service, err)
		}
		if got != want {
			t.Errorf("Check(%q) = %s, want %s", service, got, want)
		}
	}

	check("", healthpb.HealthCheckResponse_SERVING)
	check(StackService, healthpb.HealthCheckResponse_NOT_SERVING)

	h.SetStackState(model.StackRunning)
	check(StackService, healthpb.HealthCheckResponse_SERVING)

	h.SetStackState(model.StackStopping)
	check(StackService, healthpb.HealthCheckResponse_NOT_SERVING)

	if _, err := h.Check(ctx, "unknown"); err == nil {
		t.Error("unknown service should be an error")
	}
}

func TestHealthServeStopsWithContext(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	h := NewHealth()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- h.Serve(ctx, listener) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
