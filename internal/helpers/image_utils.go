package helpers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

// FitWithin scales img down to fit maxWidth x maxHeight keeping the aspect ratio.
// Images already inside the box are returned as is.
func FitWithin(img image.Image, maxWidth, maxHeight int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || maxHeight <= 0 || (b.Dx() <= maxWidth && b.Dy() <= maxHeight) {
		return img
	}
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
}

// PNGDataURL encodes img as PNG and wraps it in a data URL for direct use in an <img> tag.
func PNGDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode preview: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// PreviewDataURL produces a display-sized PNG data URL for the results panel.
func PreviewDataURL(img image.Image, maxWidth, maxHeight int) (string, error) {
	preview := FitWithin(img, maxWidth, maxHeight)
	url, err := PNGDataURL(preview)
	if err != nil {
		return "", err
	}

	src := img.Bounds()
	dst := preview.Bounds()
	log.Debug().
		Int("width", src.Dx()).
		Int("height", src.Dy()).
		Int("preview_width", dst.Dx()).
		Int("preview_height", dst.Dy()).
		Int("data_url_size", len(url)).
		Msg("Built preview image")

	return url, nil
}
