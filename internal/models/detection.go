package models

import (
	"errors"
	"fmt"
	"image/color"
	"time"
)

const (
	MinScaleFactor = 1.1
	MaxScaleFactor = 2.0
	MinNeighbors   = 1
	MaxNeighbors   = 10

	DefaultScaleFactor  = 1.3
	DefaultMinNeighbors = 5
	DefaultRectColor    = "#00FF00"
)

var ErrInvalidParameters = errors.New("invalid detection parameters")

// DetectionParameters are the two knobs exposed to the user.
type DetectionParameters struct {
	ScaleFactor  float64 `json:"scale_factor" example:"1.3"`
	MinNeighbors int     `json:"min_neighbors" example:"5"`
}

// DefaultParameters returns the slider positions a fresh session starts with.
func DefaultParameters() DetectionParameters {
	return DetectionParameters{
		ScaleFactor:  DefaultScaleFactor,
		MinNeighbors: DefaultMinNeighbors,
	}
}

func (p DetectionParameters) Validate() error {
	if p.ScaleFactor < MinScaleFactor || p.ScaleFactor > MaxScaleFactor {
		return fmt.Errorf("%w: scale_factor %.2f not in [%.1f, %.1f]", ErrInvalidParameters, p.ScaleFactor, MinScaleFactor, MaxScaleFactor)
	}
	if p.MinNeighbors < MinNeighbors || p.MinNeighbors > MaxNeighbors {
		return fmt.Errorf("%w: min_neighbors %d not in [%d, %d]", ErrInvalidParameters, p.MinNeighbors, MinNeighbors, MaxNeighbors)
	}
	return nil
}

// Region is one detected face in source image pixel coordinates.
type Region struct {
	X      int `json:"x" example:"112"`
	Y      int `json:"y" example:"87"`
	Width  int `json:"width" example:"96"`
	Height int `json:"height" example:"96"`
}

// FaceLine renders the region the way the results panel lists it. index is zero based.
func (r Region) FaceLine(index int) string {
	return fmt.Sprintf("Face %d: Position (x=%d, y=%d), Size (width=%d, height=%d)", index+1, r.X, r.Y, r.Width, r.Height)
}

// BGR is a drawing color in blue, green, red channel order.
type BGR struct {
	B uint8 `json:"b"`
	G uint8 `json:"g"`
	R uint8 `json:"r"`
}

func (c BGR) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func (c BGR) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// DetectionResult is what the results panel renders for one pipeline run.
type DetectionResult struct {
	Success    bool                `json:"success"`
	SessionID  string              `json:"session_id,omitempty"`
	Count      int                 `json:"count" example:"1"`
	Caption    string              `json:"caption" example:"Detected 1 face(s)"`
	Message    string              `json:"message"`
	Params     DetectionParameters `json:"params"`
	Color      string              `json:"color" example:"#00FF00"`
	ColorBGR   BGR                 `json:"color_bgr"`
	Regions    []Region            `json:"regions"`
	FaceLines  []string            `json:"face_lines"`
	Width      int                 `json:"width"`
	Height     int                 `json:"height"`
	Backend    string              `json:"backend"`
	DurationMS int64               `json:"duration_ms"`
}

// NewDetectionResult fills the presentation fields derived from the regions.
func NewDetectionResult(regions []Region, params DetectionParameters, hex string, bgr BGR, width, height int, backend string, took time.Duration) DetectionResult {
	lines := make([]string, 0, len(regions))
	for i, r := range regions {
		lines = append(lines, r.FaceLine(i))
	}
	if regions == nil {
		regions = []Region{}
	}

	return DetectionResult{
		Success:    true,
		Count:      len(regions),
		Caption:    Caption(len(regions)),
		Message:    OutcomeMessage(len(regions)),
		Params:     params,
		Color:      hex,
		ColorBGR:   bgr,
		Regions:    regions,
		FaceLines:  lines,
		Width:      width,
		Height:     height,
		Backend:    backend,
		DurationMS: took.Milliseconds(),
	}
}

func Caption(count int) string {
	return fmt.Sprintf("Detected %d face(s)", count)
}

func OutcomeMessage(count int) string {
	if count > 0 {
		return fmt.Sprintf("Successfully detected %d face(s) in the image!", count)
	}
	return "No faces were detected. Try adjusting the parameters in the sidebar."
}

// FaceDetectionEvent is published on NATS after every successful run.
type FaceDetectionEvent struct {
	SessionID  string              `json:"session_id,omitempty"`
	InstanceID string              `json:"instance_id"`
	Backend    string              `json:"backend"`
	Filename   string              `json:"filename,omitempty"`
	Width      int                 `json:"width"`
	Height     int                 `json:"height"`
	Params     DetectionParameters `json:"params"`
	Color      string              `json:"color"`
	Count      int                 `json:"count"`
	Regions    []Region            `json:"regions"`
	DurationMS int64               `json:"duration_ms"`
	Timestamp  time.Time           `json:"timestamp"`
}
