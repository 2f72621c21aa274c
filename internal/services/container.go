package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"facelens-go/internal/config"
	"facelens-go/internal/services/detection"
	"facelens-go/internal/services/ingest"
	"facelens-go/internal/services/messaging"
	"facelens-go/internal/services/metrics"
	"facelens-go/internal/services/pipeline"
	"facelens-go/internal/services/session"
)

// ServiceContainer holds all services
type ServiceContainer struct {
	Config    *config.Config
	Detector  *detection.Service
	Decoder   *ingest.Decoder
	Sessions  *session.Store
	Pipeline  *pipeline.Service
	Metrics   *metrics.Metrics
	Messaging *messaging.Service
}

// NewServiceContainer creates a new service container
func NewServiceContainer(cfg *config.Config) (*ServiceContainer, error) {
	detector := detection.NewService(cfg)
	detector.Warmup()

	return newContainer(cfg, detector), nil
}

// NewServiceContainerWithDetector wires the container around a caller supplied detector.
func NewServiceContainerWithDetector(cfg *config.Config, d detection.Detector) *ServiceContainer {
	return newContainer(cfg, detection.NewStaticService(d))
}

func newContainer(cfg *config.Config, detector *detection.Service) *ServiceContainer {
	m := metrics.New()
	sessions := session.NewStore(cfg.SessionTTL, cfg.MaxSessions)
	m.RegisterSessionGauge(sessions.Len)
	m.RegisterDetectorReady(detector.Ready)

	pipe := pipeline.NewService(detector, m, pipeline.Options{
		InstanceID:  cfg.InstanceID,
		MinFaceSize: cfg.MinFaceSize,
		Thickness:   cfg.RectThickness,
	})

	sc := &ServiceContainer{
		Config:   cfg,
		Detector: detector,
		Decoder: ingest.NewDecoder(ingest.Options{
			MaxBytes:   cfg.MaxUploadBytes,
			MaxPixels:  cfg.MaxImagePixels,
			AutoOrient: cfg.AutoOrient,
		}),
		Sessions: sessions,
		Pipeline: pipe,
		Metrics:  m,
	}

	if cfg.NatsEnabled {
		msg, err := messaging.NewService(cfg)
		if err != nil {
			// events are best effort, the UI works without them
			log.Warn().Err(err).Str("url", cfg.NatsURL).Msg("NATS not available, detection events disabled")
		} else {
			sc.Messaging = msg
			pipe.WithPublisher(msg)
		}
	}

	return sc
}

// Shutdown gracefully shuts down all services
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	if sc.Messaging != nil {
		if err := sc.Messaging.Shutdown(ctx); err != nil {
			return err
		}
	}

	if sc.Detector != nil {
		sc.Detector.Shutdown(ctx)
	}

	return nil
}
