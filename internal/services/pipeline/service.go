package pipeline

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"facelens-go/internal/helpers"
	"facelens-go/internal/logging"
	"facelens-go/internal/models"
	"facelens-go/internal/services/annotate"
	"facelens-go/internal/services/detection"
	"facelens-go/internal/services/metrics"
)

// EventPublisher receives a summary of every successful run.
type EventPublisher interface {
	PublishDetection(event models.FaceDetectionEvent) error
}

type Options struct {
	InstanceID  string
	MinFaceSize int
	Thickness   int
}

// Service runs grayscale conversion, detection and annotation for one image.
type Service struct {
	detector  detection.Detector
	publisher EventPublisher
	metrics   *metrics.Metrics
	opts      Options
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(detector detection.Detector, m *metrics.Metrics, opts Options) *Service {
	if opts.MinFaceSize <= 0 {
		opts.MinFaceSize = 30
	}
	if opts.Thickness <= 0 {
		opts.Thickness = annotate.DefaultThickness
	}
	return &Service{
		detector: detector,
		metrics:  m,
		opts:     opts,
		logger:   log.With().Str("instance_id", opts.InstanceID).Str("service", "pipeline").Logger(),
		now:      time.Now,
	}
}

// WithPublisher enables detection events.
func (s *Service) WithPublisher(p EventPublisher) *Service {
	s.publisher = p
	return s
}

// Request is the per-session input of one run.
type Request struct {
	SessionID string
	Filename  string
	Source    *image.NRGBA
	Params    models.DetectionParameters
	Color     string
	Labels    bool
}

type Result struct {
	Detection models.DetectionResult
	Source    *image.NRGBA
	Annotated *image.NRGBA
}

// Run executes the pipeline synchronously. Errors are scoped to this run.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	start := s.now()
	logger := logging.WithSession(s.logger, req.SessionID)

	if req.Source == nil {
		return nil, errors.New("no source image")
	}
	if err := req.Params.Validate(); err != nil {
		return nil, err
	}
	bgr, err := helpers.HexToBGR(req.Color)
	if err != nil {
		return nil, err
	}

	gray := detection.Grayscale(req.Source)
	regions, err := s.detector.Detect(ctx, gray, req.Params, s.opts.MinFaceSize)
	if err != nil {
		var cfgErr *detection.ConfigurationError
		if errors.As(err, &cfgErr) {
			s.metrics.ObserveRun(metrics.OutcomeConfigError, 0, 0)
		} else {
			s.metrics.ObserveRun(metrics.OutcomeError, 0, 0)
		}
		logger.Error().Err(err).Msg("Face detection failed")
		return nil, err
	}

	annotated := annotate.Draw(req.Source, regions, bgr, annotate.Options{
		Thickness: s.opts.Thickness,
		Labels:    req.Labels,
	})

	took := s.now().Sub(start)
	b := req.Source.Bounds()
	result := models.NewDetectionResult(regions, req.Params, bgr.Hex(), bgr, b.Dx(), b.Dy(), s.detector.Name(), took)
	result.SessionID = req.SessionID

	s.metrics.ObserveRun(metrics.OutcomeSuccess, result.Count, took)
	s.publish(logger, req, result)

	logger.Info().
		Int("faces", result.Count).
		Float64("scale_factor", req.Params.ScaleFactor).
		Int("min_neighbors", req.Params.MinNeighbors).
		Dur("took", took).
		Msg("Detection run complete")

	return &Result{
		Detection: result,
		Source:    req.Source,
		Annotated: annotated,
	}, nil
}

// Render runs the pipeline and serializes the annotated image for download.
func (s *Service) Render(ctx context.Context, req Request) ([]byte, string, *Result, error) {
	res, err := s.Run(ctx, req)
	if err != nil {
		return nil, "", nil, err
	}
	data, err := annotate.EncodePNG(res.Annotated)
	if err != nil {
		return nil, "", nil, err
	}
	return data, annotate.Filename(s.now()), res, nil
}

func (s *Service) DetectorName() string { return s.detector.Name() }

func (s *Service) publish(logger zerolog.Logger, req Request, result models.DetectionResult) {
	if s.publisher == nil {
		return
	}
	event := models.FaceDetectionEvent{
		SessionID:  req.SessionID,
		InstanceID: s.opts.InstanceID,
		Backend:    result.Backend,
		Filename:   req.Filename,
		Width:      result.Width,
		Height:     result.Height,
		Params:     result.Params,
		Color:      result.Color,
		Count:      result.Count,
		Regions:    result.Regions,
		DurationMS: result.DurationMS,
		Timestamp:  s.now().UTC(),
	}
	if err := s.publisher.PublishDetection(event); err != nil {
		s.metrics.EventPublishFailed()
		logger.Warn().Err(err).Msg("Failed to publish detection event")
	}
}
