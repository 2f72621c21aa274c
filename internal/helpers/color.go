package helpers

import (
	"errors"
	"fmt"
	"image/color"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"facelens-go/internal/models"
)

var ErrInvalidColor = errors.New("invalid color")

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// HexToBGR converts a "#RRGGBB" string into the channel order the drawing routine expects.
func HexToBGR(s string) (models.BGR, error) {
	s = strings.TrimSpace(s)
	if !hexColorPattern.MatchString(s) {
		return models.BGR{}, fmt.Errorf("%w: %q must look like #RRGGBB", ErrInvalidColor, s)
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return models.BGR{}, fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	r, g, b := c.RGB255()
	return models.BGR{B: b, G: g, R: r}, nil
}

// NormalizeHex returns the canonical upper-case form of a valid color.
func NormalizeHex(s string) (string, error) {
	bgr, err := HexToBGR(s)
	if err != nil {
		return "", err
	}
	return bgr.Hex(), nil
}

// IsDarkColor determines if a color is considered dark using perceived luminance
func IsDarkColor(c color.RGBA) bool {
	// sRGB luminance(Y) from RGB: 0.2126 R + 0.7152 G + 0.0722 B
	luminance := 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
	return luminance < 128
}

// ContrastText picks black or white text for a label drawn on c.
func ContrastText(c color.RGBA) color.RGBA {
	if IsDarkColor(c) {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.RGBA{A: 255}
}
