package detection

import (
	"context"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/rs/zerolog/log"

	"facelens-go/internal/config"
	"facelens-go/internal/models"
)

// Service hands out the configured detector, loading it on first use. A
// failed load is reported to the caller and attempted again on the next run.
type Service struct {
	backend string
	load    func() (Detector, error)

	mu       sync.Mutex
	detector Detector
	lastErr  error
}

func NewService(cfg *config.Config) *Service {
	var load func() (Detector, error)
	switch cfg.DetectorBackend {
	case config.BackendHaar:
		load = func() (Detector, error) { return LoadHaar(cfg.HaarCascadePath) }
	case config.BackendPigo:
		load = func() (Detector, error) {
			if cfg.PigoCascadePath == "" {
				return LoadEmbeddedPigo(cfg.PigoIoU, cfg.PigoShiftFactor)
			}
			return LoadPigo(cfg.PigoCascadePath, cfg.PigoIoU, cfg.PigoShiftFactor)
		}
	default:
		backend := cfg.DetectorBackend
		load = func() (Detector, error) {
			return nil, &ConfigurationError{Backend: backend, Err: fmt.Errorf("unknown detector backend")}
		}
	}

	log.Info().Str("backend", cfg.DetectorBackend).Msg("Initializing face detection service")
	return &Service{backend: cfg.DetectorBackend, load: load}
}

// NewStaticService wraps an already constructed detector.
func NewStaticService(d Detector) *Service {
	return &Service{
		backend:  d.Name(),
		detector: d,
		load:     func() (Detector, error) { return d, nil },
	}
}

func (s *Service) ensureDetector() (Detector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.detector != nil {
		return s.detector, nil
	}

	d, err := s.load()
	if err != nil {
		s.lastErr = err
		return nil, err
	}
	s.detector = d
	s.lastErr = nil
	return d, nil
}

// Warmup tries to load the detector at startup. Failure is logged, not
// fatal: the UI stays up and each run surfaces the configuration error.
func (s *Service) Warmup() {
	if _, err := s.ensureDetector(); err != nil {
		log.Warn().Err(err).Str("backend", s.backend).Msg("Face detector not available, will retry on next request")
		return
	}
	log.Info().Str("backend", s.backend).Msg("Face detector ready")
}

func (s *Service) Name() string { return s.backend }

func (s *Service) Detect(ctx context.Context, gray *image.Gray, params models.DetectionParameters, minSize int) ([]models.Region, error) {
	d, err := s.ensureDetector()
	if err != nil {
		return nil, err
	}
	return d.Detect(ctx, gray, params, minSize)
}

// Ready reports whether a detector is loaded.
func (s *Service) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detector != nil
}

// LastError is the most recent load failure, nil once a detector is loaded.
func (s *Service) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Service) Shutdown(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.detector.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to release face detector")
		}
	}
	s.detector = nil
}
