package detection

import (
	"context"
	"fmt"
	"image"
	"sort"

	"facelens-go/internal/models"
)

// Detector finds face regions in a grayscale image. Implementations wrap an
// external classifier; the pipeline only ever talks to this interface.
type Detector interface {
	Name() string
	Detect(ctx context.Context, gray *image.Gray, params models.DetectionParameters, minSize int) ([]models.Region, error)
}

// ConfigurationError means the detector could not be initialized, usually
// because the model data is missing.
type ConfigurationError struct {
	Backend string
	Path    string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("face detector %q could not be initialized from %s: %v", e.Backend, e.Path, e.Err)
	}
	return fmt.Sprintf("face detector %q could not be initialized: %v", e.Backend, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Grayscale converts img into an 8-bit luma grid using the BT.601 weights
// (0.299 R + 0.587 G + 0.114 B). The result is anchored at (0,0) with
// Stride == width so its Pix slice can be handed to classifiers directly.
func Grayscale(img *image.NRGBA) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	gray := image.NewGray(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		src := img.Pix[off : off+w*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x := 0; x < w; x++ {
			r := float64(src[x*4])
			g := float64(src[x*4+1])
			bl := float64(src[x*4+2])
			dst[x] = uint8(0.299*r + 0.587*g + 0.114*bl + 0.5)
		}
	}
	return gray
}

// normalizeRegions clips regions to the image and orders them in reading
// order: faces whose tops lie within half a face height of the first face in
// a row share that row and are listed left-to-right, rows top-to-bottom.
func normalizeRegions(rects []image.Rectangle, bounds image.Rectangle) []models.Region {
	regions := make([]models.Region, 0, len(rects))
	for _, r := range rects {
		r = r.Intersect(bounds)
		if r.Empty() {
			continue
		}
		regions = append(regions, models.Region{
			X:      r.Min.X - bounds.Min.X,
			Y:      r.Min.Y - bounds.Min.Y,
			Width:  r.Dx(),
			Height: r.Dy(),
		})
	}

	sort.Slice(regions, func(i, j int) bool {
		return lessTopLeft(regions[i], regions[j])
	})

	for start := 0; start < len(regions); {
		anchor := regions[start]
		end := start + 1
		for end < len(regions) && regions[end].Y-anchor.Y < (anchor.Height+1)/2 {
			end++
		}
		row := regions[start:end]
		sort.Slice(row, func(i, j int) bool {
			if row[i].X != row[j].X {
				return row[i].X < row[j].X
			}
			return lessTopLeft(row[i], row[j])
		})
		start = end
	}
	return regions
}

func lessTopLeft(a, b models.Region) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Width != b.Width {
		return a.Width < b.Width
	}
	return a.Height < b.Height
}
