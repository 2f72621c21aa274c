package detection

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
	"github.com/rs/zerolog/log"

	"facelens-go/internal/models"
)

const (
	defaultShiftFactor = 0.1
	minPigoWindow      = 10
)

// facefinder is the cascade shipped with pigo, used when no path is configured.
//
//go:embed cascade/facefinder
var facefinder []byte

// PigoDetector runs the pure-Go pico cascade and applies OpenCV-style
// neighbor grouping on the raw windows.
type PigoDetector struct {
	classifier  *pigo.Pigo
	iou         float64
	shiftFactor float64
}

// LoadPigo reads and unpacks a pigo "facefinder" cascade file.
func LoadPigo(path string, iou, shiftFactor float64) (*PigoDetector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Backend: "pigo", Path: path, Err: err}
	}
	d, err := NewPigo(data, iou, shiftFactor)
	if err != nil {
		return nil, &ConfigurationError{Backend: "pigo", Path: path, Err: err}
	}
	log.Info().Str("path", path).Int("bytes", len(data)).Msg("Pigo cascade loaded")
	return d, nil
}

// LoadEmbeddedPigo unpacks the bundled facefinder cascade.
func LoadEmbeddedPigo(iou, shiftFactor float64) (*PigoDetector, error) {
	d, err := NewPigo(facefinder, iou, shiftFactor)
	if err != nil {
		return nil, &ConfigurationError{Backend: "pigo", Path: "embedded facefinder", Err: err}
	}
	log.Info().Int("bytes", len(facefinder)).Msg("Pigo cascade loaded from embedded data")
	return d, nil
}

// NewPigo unpacks cascade bytes already in memory.
func NewPigo(cascade []byte, iou, shiftFactor float64) (d *PigoDetector, err error) {
	// the cascade header is two uint32 fields after an 8 byte preamble
	if len(cascade) < 16 {
		return nil, errors.New("cascade data too short")
	}
	// Unpack indexes the buffer without bounds checks and panics on truncated files
	defer func() {
		if r := recover(); r != nil {
			d, err = nil, fmt.Errorf("corrupt cascade data: %v", r)
		}
	}()

	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("error unpacking cascade file: %w", err)
	}
	if iou <= 0 || iou >= 1 {
		iou = 0.2
	}
	if shiftFactor <= 0 || shiftFactor > 1 {
		shiftFactor = defaultShiftFactor
	}
	return &PigoDetector{classifier: classifier, iou: iou, shiftFactor: shiftFactor}, nil
}

func (d *PigoDetector) Name() string { return "pigo" }

func (d *PigoDetector) Detect(ctx context.Context, gray *image.Gray, params models.DetectionParameters, minSize int) ([]models.Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := gray.Bounds()
	cols, rows := b.Dx(), b.Dy()
	maxSize := cols
	if rows < maxSize {
		maxSize = rows
	}
	// RunCascade grows the window with int(scale*factor); below 10px a 1.1 step never advances
	if minSize < minPigoWindow {
		minSize = minPigoWindow
	}
	if minSize > maxSize {
		return []models.Region{}, nil
	}

	cParams := pigo.CascadeParams{
		MinSize:     minSize,
		MaxSize:     maxSize,
		ShiftFactor: d.shiftFactor,
		ScaleFactor: params.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: gray.Pix,
			Rows:   rows,
			Cols:   cols,
			Dim:    gray.Stride,
		},
	}

	dets := d.classifier.RunCascade(cParams, 0)

	cands := make([]candidate, 0, len(dets))
	for _, det := range dets {
		half := det.Scale / 2
		cands = append(cands, candidate{
			rect: image.Rect(det.Col-half, det.Row-half, det.Col-half+det.Scale, det.Row-half+det.Scale),
		})
	}

	grouped := groupCandidates(cands, d.iou, params.MinNeighbors)

	log.Debug().
		Int("candidates", len(dets)).
		Int("faces", len(grouped)).
		Float64("scale_factor", params.ScaleFactor).
		Int("min_neighbors", params.MinNeighbors).
		Msg("Pigo cascade finished")

	return normalizeRegions(grouped, b), nil
}
