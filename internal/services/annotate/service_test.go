package annotate

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facelens-go/internal/models"
)

var green = models.BGR{G: 255}

func gradient(t *testing.T, w, h int) *image.NRGBA {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	return img
}

func TestDrawNoRegionsIsIdentical(t *testing.T) {
	src := gradient(t, 50, 40)

	out := Draw(src, nil, green, Options{})

	assert.NotSame(t, src, out)
	assert.Equal(t, src.Bounds(), out.Bounds())
	assert.Equal(t, src.Pix, out.Pix)
}

func TestDrawLeavesSourceUntouched(t *testing.T) {
	src := gradient(t, 60, 60)
	before := append([]uint8(nil), src.Pix...)

	out := Draw(src, []models.Region{{X: 10, Y: 10, Width: 20, Height: 20}}, green, Options{Labels: true})

	assert.Equal(t, before, src.Pix)
	assert.NotEqual(t, src.Pix, out.Pix)
}

func TestDrawTwoPixelOutline(t *testing.T) {
	src := gradient(t, 60, 60)
	stroke := color.NRGBA{G: 255, A: 255}

	out := Draw(src, []models.Region{{X: 10, Y: 10, Width: 20, Height: 20}}, green, Options{Thickness: 2})

	// outer and inner ring of every edge
	for _, p := range []image.Point{{10, 10}, {11, 11}, {30, 30}, {29, 29}, {20, 10}, {20, 11}, {10, 20}, {11, 20}, {30, 20}, {29, 20}, {20, 30}, {20, 29}} {
		assert.Equal(t, stroke, out.NRGBAAt(p.X, p.Y), "point %v", p)
	}
	// third ring and interior untouched
	for _, p := range []image.Point{{12, 12}, {20, 12}, {20, 20}, {28, 20}, {9, 9}, {31, 31}} {
		assert.Equal(t, src.NRGBAAt(p.X, p.Y), out.NRGBAAt(p.X, p.Y), "point %v", p)
	}
}

func TestDrawUsesChosenColor(t *testing.T) {
	src := gradient(t, 40, 40)
	red := models.BGR{B: 0, G: 0, R: 255}

	out := Draw(src, []models.Region{{X: 5, Y: 5, Width: 10, Height: 10}}, red, Options{})

	assert.Equal(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(5, 5))
}

func TestDrawClipsAtImageEdge(t *testing.T) {
	src := gradient(t, 30, 30)

	out := Draw(src, []models.Region{{X: 20, Y: 20, Width: 10, Height: 10}}, green, Options{})

	assert.Equal(t, color.NRGBA{G: 255, A: 255}, out.NRGBAAt(29, 25))
	assert.Equal(t, src.Bounds(), out.Bounds())
}

func TestDrawDeterministic(t *testing.T) {
	src := gradient(t, 80, 80)
	regions := []models.Region{{X: 5, Y: 30, Width: 30, Height: 30}, {X: 40, Y: 2, Width: 35, Height: 35}}

	a := Draw(src, regions, green, Options{Labels: true})
	b := Draw(src, regions, green, Options{Labels: true})

	assert.Equal(t, a.Pix, b.Pix)
}

func TestEncodePNGKeepsDimensions(t *testing.T) {
	img := Draw(gradient(t, 123, 77), []models.Region{{X: 1, Y: 1, Width: 30, Height: 30}}, green, Options{})

	data, err := EncodePNG(img)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 123, decoded.Bounds().Dx())
	assert.Equal(t, 77, decoded.Bounds().Dy())
}

func TestFilename(t *testing.T) {
	ts := time.Date(2024, time.March, 7, 9, 5, 3, 0, time.UTC)
	assert.Equal(t, "face_detection_result_20240307_090503.png", Filename(ts))
}
