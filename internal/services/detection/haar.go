//go:build gocv

package detection

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"facelens-go/internal/models"
)

// HaarDetector wraps OpenCV's Viola-Jones cascade. CascadeClassifier is not
// safe for concurrent use, so Detect calls are serialized.
type HaarDetector struct {
	mu         sync.Mutex
	classifier gocv.CascadeClassifier
	path       string
}

// LoadHaar loads a cascade XML such as haarcascade_frontalface_default.xml.
func LoadHaar(path string) (*HaarDetector, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &ConfigurationError{Backend: "haar", Path: path, Err: err}
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, &ConfigurationError{Backend: "haar", Path: path, Err: errors.New("opencv could not parse cascade file")}
	}

	log.Info().Str("path", path).Msg("Haar cascade loaded")
	return &HaarDetector{classifier: classifier, path: path}, nil
}

func (d *HaarDetector) Name() string { return "haar" }

func (d *HaarDetector) Detect(ctx context.Context, gray *image.Gray, params models.DetectionParameters, minSize int) ([]models.Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := gray.Bounds()
	mat, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC1, gray.Pix)
	if err != nil {
		return nil, fmt.Errorf("failed to create Mat from grayscale data: %w", err)
	}
	defer mat.Close()

	d.mu.Lock()
	rects := d.classifier.DetectMultiScaleWithParams(
		mat,
		params.ScaleFactor,
		params.MinNeighbors,
		0,
		image.Pt(minSize, minSize),
		image.Pt(0, 0),
	)
	d.mu.Unlock()

	log.Debug().
		Int("faces", len(rects)).
		Float64("scale_factor", params.ScaleFactor).
		Int("min_neighbors", params.MinNeighbors).
		Msg("Haar cascade finished")

	return normalizeRegions(rects, b), nil
}

func (d *HaarDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.classifier.Close()
}
