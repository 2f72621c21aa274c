package api

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"facelens-go/internal/services/detection"
)

// DetectorHealthService is the gRPC health service name that tracks whether
// the face model is loaded. The empty service name tracks the process.
const DetectorHealthService = "facelens.FaceDetector"

const healthPollInterval = 5 * time.Second

// grpcHealth serves the standard grpc.health.v1 protocol so orchestrators can
// check readiness without going through HTTP.
type grpcHealth struct {
	lis      net.Listener
	srv      *grpc.Server
	health   *health.Server
	detector *detection.Service

	done     chan struct{}
	stopOnce sync.Once
}

func newGRPCHealth(lis net.Listener, detector *detection.Service) *grpcHealth {
	g := &grpcHealth{
		lis:      lis,
		srv:      grpc.NewServer(),
		health:   health.NewServer(),
		detector: detector,
		done:     make(chan struct{}),
	}
	healthpb.RegisterHealthServer(g.srv, g.health)
	g.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	g.refresh()
	return g
}

// refresh copies the detector state into the health server.
func (g *grpcHealth) refresh() {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if g.detector.Ready() {
		status = healthpb.HealthCheckResponse_SERVING
	}
	g.health.SetServingStatus(DetectorHealthService, status)
}

func (g *grpcHealth) watch() {
	ticker := time.NewTicker(healthPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-g.done:
			return
		case <-ticker.C:
			g.refresh()
		}
	}
}

func (g *grpcHealth) serve() {
	go g.watch()

	log.Info().Str("addr", g.lis.Addr().String()).Msg("Starting gRPC health server")
	if err := g.srv.Serve(g.lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		log.Error().Err(err).Msg("gRPC health server failed")
	}
}

func (g *grpcHealth) stop() {
	g.stopOnce.Do(func() {
		close(g.done)
		g.health.Shutdown()
		g.srv.GracefulStop()
		// no-op when Serve already owned the listener
		_ = g.lis.Close()
	})
}
