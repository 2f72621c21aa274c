package ingest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patternImage(t *testing.T, w, h int) *image.NRGBA {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 3), G: uint8(y * 5), B: uint8(x + y), A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func TestDecodePNGKeepsPixels(t *testing.T) {
	src := patternImage(t, 40, 30)
	d := NewDecoder(Options{MaxBytes: 1 << 20})

	up, err := d.Decode(bytes.NewReader(encodePNG(t, src)), "face.PNG")
	require.NoError(t, err)

	assert.Equal(t, FormatPNG, up.Format)
	assert.Equal(t, 40, up.Width())
	assert.Equal(t, 30, up.Height())
	assert.Equal(t, src.Pix, up.Image.Pix)
	assert.Equal(t, "face.PNG", up.Filename)
}

func TestDecodeJPEG(t *testing.T) {
	d := NewDecoder(Options{MaxBytes: 1 << 20, AutoOrient: true})

	for _, name := range []string{"photo.jpg", "photo.jpeg", "PHOTO.JPG"} {
		up, err := d.Decode(bytes.NewReader(encodeJPEG(t, patternImage(t, 64, 48))), name)
		require.NoError(t, err, name)
		assert.Equal(t, FormatJPEG, up.Format)
		assert.Equal(t, image.Rect(0, 0, 64, 48), up.Image.Bounds())
	}
}

func TestDecodeRejectsUnsupported(t *testing.T) {
	d := NewDecoder(Options{MaxBytes: 1 << 20})

	_, err := d.Decode(bytes.NewReader(encodePNG(t, patternImage(t, 8, 8))), "face.bmp")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	var gifBuf bytes.Buffer
	require.NoError(t, gif.Encode(&gifBuf, patternImage(t, 8, 8), nil))
	_, err = d.Decode(bytes.NewReader(gifBuf.Bytes()), "sneaky.png")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = d.Decode(bytes.NewReader([]byte("hello, not an image")), "notes.jpg")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestDecodeErrors(t *testing.T) {
	d := NewDecoder(Options{MaxBytes: 64})

	_, err := d.Decode(bytes.NewReader(nil), "empty.png")
	assert.True(t, errors.Is(err, ErrEmpty))

	_, err = d.Decode(bytes.NewReader(encodePNG(t, patternImage(t, 50, 50))), "big.png")
	assert.True(t, errors.Is(err, ErrTooLarge))

	// valid PNG signature, truncated body
	truncated := encodePNG(t, patternImage(t, 4, 4))[:40]
	_, err = d.Decode(bytes.NewReader(truncated), "broken.png")
	assert.True(t, errors.Is(err, ErrDecode))
}

// pngHeader is a PNG signature plus an IHDR chunk declaring w x h RGBA
// pixels, enough for DecodeConfig to report the dimensions.
func pngHeader(w, h uint32) []byte {
	var ihdr bytes.Buffer
	ihdr.WriteString("IHDR")
	_ = binary.Write(&ihdr, binary.BigEndian, w)
	_ = binary.Write(&ihdr, binary.BigEndian, h)
	ihdr.Write([]byte{8, 6, 0, 0, 0})

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(ihdr.Len()-4))
	buf.Write(ihdr.Bytes())
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(ihdr.Bytes()))
	return buf.Bytes()
}

func TestDecodeRejectsTooManyPixels(t *testing.T) {
	d := NewDecoder(Options{MaxBytes: 1 << 20, MaxPixels: 40_000_000})

	// a few dozen bytes that would inflate to 20000x20000 RGBA
	data := pngHeader(20000, 20000)
	require.Less(t, len(data), 64)

	_, err := d.Decode(bytes.NewReader(data), "bomb.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooLarge))
	assert.Contains(t, err.Error(), "20000x20000")

	small := NewDecoder(Options{MaxBytes: 1 << 20, MaxPixels: 100})
	_, err = small.Decode(bytes.NewReader(encodePNG(t, patternImage(t, 11, 10))), "wide.png")
	assert.True(t, errors.Is(err, ErrTooLarge))

	up, err := small.Decode(bytes.NewReader(encodePNG(t, patternImage(t, 10, 10))), "ok.png")
	require.NoError(t, err)
	assert.Equal(t, 10, up.Width())
}

func TestDecodeFlattensAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 0})
	src.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 128})
	d := NewDecoder(Options{MaxBytes: 1 << 20})

	up, err := d.Decode(bytes.NewReader(encodePNG(t, src)), "cutout.png")
	require.NoError(t, err)

	assert.True(t, up.Image.Opaque())
	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 255}, up.Image.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, up.Image.NRGBAAt(1, 0))
}
