package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecode            = errors.New("failed to decode image")
	ErrTooLarge          = errors.New("image upload too large")
	ErrEmpty             = errors.New("empty upload")
)

type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

var allowedExtensions = map[string]Format{
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".png":  FormatPNG,
}

var allowedMIME = map[string]Format{
	"image/jpeg": FormatJPEG,
	"image/png":  FormatPNG,
}

// Upload is a decoded source image, ready for the pipeline.
type Upload struct {
	Filename string
	Format   Format
	Image    *image.NRGBA
	Size     int
}

func (u *Upload) Width() int  { return u.Image.Bounds().Dx() }
func (u *Upload) Height() int { return u.Image.Bounds().Dy() }

type Options struct {
	MaxBytes  int64
	MaxPixels int64
	// AutoOrient applies the EXIF orientation tag.
	AutoOrient bool
}

type Decoder struct {
	opts Options
}

func NewDecoder(opts Options) *Decoder {
	return &Decoder{opts: opts}
}

// Decode reads an uploaded JPG/JPEG/PNG file into an NRGBA buffer anchored at (0,0).
func (d *Decoder) Decode(r io.Reader, filename string) (*Upload, error) {
	extFormat, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (accepted: jpg, jpeg, png)", ErrUnsupportedFormat, filename)
	}

	limit := d.opts.MaxBytes
	if limit <= 0 {
		limit = 20 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}

	mt := mimetype.Detect(data)
	sniffed, ok := allowedMIME[mt.String()]
	if !ok {
		return nil, fmt.Errorf("%w: content is %s", ErrUnsupportedFormat, mt.String())
	}
	if sniffed != extFormat {
		log.Debug().
			Str("filename", filename).
			Str("extension_format", string(extFormat)).
			Str("content_format", string(sniffed)).
			Msg("Upload extension does not match its content, trusting content")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); d.opts.MaxPixels > 0 && pixels > d.opts.MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d is more than %d pixels", ErrTooLarge, cfg.Width, cfg.Height, d.opts.MaxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(d.opts.AutoOrient))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	// imaging.Clone yields an NRGBA buffer whose bounds start at (0,0)
	nrgba := imaging.Clone(img)
	flattenAlpha(nrgba)

	log.Debug().
		Str("filename", filename).
		Str("format", string(sniffed)).
		Int("bytes", len(data)).
		Int("width", nrgba.Bounds().Dx()).
		Int("height", nrgba.Bounds().Dy()).
		Msg("Decoded upload")

	return &Upload{
		Filename: filepath.Base(filename),
		Format:   sniffed,
		Image:    nrgba,
		Size:     len(data),
	}, nil
}

// flattenAlpha marks every pixel opaque and keeps its color channels, the
// way a three-channel color load drops the alpha plane.
func flattenAlpha(img *image.NRGBA) {
	if img.Opaque() {
		return
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
}
