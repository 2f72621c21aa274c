package api

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"facelens-go/internal/config"
	"facelens-go/internal/services/detection"
)

func startHealth(t *testing.T, d *detection.Service) healthpb.HealthClient {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	g := newGRPCHealth(lis, d)
	go g.serve()
	t.Cleanup(g.stop)

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func check(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestGRPCHealthServingWhenDetectorLoaded(t *testing.T) {
	client := startHealth(t, detection.NewStaticService(twoFaceDetector()))

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, DetectorHealthService))
}

func TestGRPCHealthNotServingWithoutModel(t *testing.T) {
	cfg := config.Load()
	cfg.DetectorBackend = config.BackendPigo
	cfg.PigoCascadePath = filepath.Join(t.TempDir(), "facefinder")
	d := detection.NewService(cfg)
	d.Warmup()

	client := startHealth(t, d)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, DetectorHealthService))
}
