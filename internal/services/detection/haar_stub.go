//go:build !gocv

package detection

import (
	"context"
	"errors"
	"image"

	"facelens-go/internal/models"
)

// HaarDetector is unavailable in builds without the gocv tag.
type HaarDetector struct{}

// LoadHaar always fails: rebuild with -tags gocv to link OpenCV.
func LoadHaar(path string) (*HaarDetector, error) {
	return nil, &ConfigurationError{Backend: "haar", Path: path, Err: errors.New("gocv build tag is not enabled")}
}

func (d *HaarDetector) Name() string { return "haar" }

func (d *HaarDetector) Detect(ctx context.Context, gray *image.Gray, params models.DetectionParameters, minSize int) ([]models.Region, error) {
	return nil, &ConfigurationError{Backend: "haar", Err: errors.New("gocv build tag is not enabled")}
}

func (d *HaarDetector) Close() error { return nil }
