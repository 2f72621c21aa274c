package annotate

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"facelens-go/internal/helpers"
	"facelens-go/internal/models"
)

const (
	DefaultThickness = 2
	filenameLayout   = "20060102_150405"
)

type Options struct {
	Thickness int
	Labels    bool
}

// Draw returns a copy of src with an outline around every region. src is
// never written to.
func Draw(src *image.NRGBA, regions []models.Region, c models.BGR, opts Options) *image.NRGBA {
	dst := imaging.Clone(src)
	if len(regions) == 0 {
		return dst
	}

	thickness := opts.Thickness
	if thickness <= 0 {
		thickness = DefaultThickness
	}
	rgba := c.RGBA()
	stroke := color.NRGBA{R: rgba.R, G: rgba.G, B: rgba.B, A: 255}

	for _, r := range regions {
		drawOutline(dst, image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height), stroke, thickness)
	}
	if opts.Labels {
		for i, r := range regions {
			drawLabel(dst, fmt.Sprintf("Face %d", i+1), r, rgba)
		}
	}
	return dst
}

// drawOutline strokes the rectangle edges inward from rect's outer border,
// clipped to the image.
func drawOutline(img *image.NRGBA, rect image.Rectangle, c color.NRGBA, thickness int) {
	bounds := img.Bounds()
	for t := 0; t < thickness; t++ {
		x0, y0 := rect.Min.X+t, rect.Min.Y+t
		x1, y1 := rect.Max.X-t, rect.Max.Y-t
		if x0 > x1 || y0 > y1 {
			break
		}
		for x := x0; x <= x1; x++ {
			setIn(img, bounds, x, y0, c)
			setIn(img, bounds, x, y1, c)
		}
		for y := y0; y <= y1; y++ {
			setIn(img, bounds, x0, y, c)
			setIn(img, bounds, x1, y, c)
		}
	}
}

func setIn(img *image.NRGBA, bounds image.Rectangle, x, y int, c color.NRGBA) {
	if image.Pt(x, y).In(bounds) {
		img.SetNRGBA(x, y, c)
	}
}

// drawLabel writes text on a filled tab above the region, or inside its top
// edge when the region touches the top of the image.
func drawLabel(img *image.NRGBA, text string, r models.Region, bg color.RGBA) {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil() + 2
	width := font.MeasureString(face, text).Ceil() + 4

	top := r.Y - height
	if top < 0 {
		top = r.Y
	}
	tab := image.Rect(r.X, top, r.X+width, top+height).Intersect(img.Bounds())
	if tab.Empty() {
		return
	}
	fill := color.NRGBA{R: bg.R, G: bg.G, B: bg.B, A: 255}
	for y := tab.Min.Y; y < tab.Max.Y; y++ {
		for x := tab.Min.X; x < tab.Max.X; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(helpers.ContrastText(bg)),
		Face: face,
		Dot:  fixed.P(tab.Min.X+2, top+1+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)
}

// EncodePNG serializes the annotated image for download.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename names a download after the moment it was produced.
func Filename(t time.Time) string {
	return "face_detection_result_" + t.Format(filenameLayout) + ".png"
}
