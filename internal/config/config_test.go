package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facelens-go/internal/helpers"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, BackendPigo, cfg.DetectorBackend)
	assert.Equal(t, 30, cfg.MinFaceSize)
	assert.InDelta(t, 1.3, cfg.DefaultScaleFactor, 1e-9)
	assert.Equal(t, 5, cfg.DefaultMinNeighbors)
	assert.Equal(t, "#00FF00", cfg.DefaultRectColor)
	assert.Equal(t, 2, cfg.RectThickness)
	assert.Equal(t, "", cfg.PigoCascadePath)
	assert.Equal(t, int64(40_000_000), cfg.MaxImagePixels)
	require.NoError(t, cfg.Validate())
}

func TestValidateSharesColorContract(t *testing.T) {
	cfg := Load()
	cfg.DefaultRectColor = "#12345G"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, helpers.ErrInvalidColor))
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("DETECTOR_BACKEND", "HAAR")
	t.Setenv("DEFAULT_SCALE_FACTOR", "1.5")
	t.Setenv("SESSION_TTL", "90s")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("NATS_URL", "nats://broker:4222")
	t.Setenv("PIGO_CASCADE_PATH", "/models/facefinder")
	t.Setenv("MAX_IMAGE_PIXELS", "1000000")

	cfg := Load()

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, ":9100", cfg.Addr())
	assert.Equal(t, BackendHaar, cfg.DetectorBackend)
	assert.InDelta(t, 1.5, cfg.DefaultScaleFactor, 1e-9)
	assert.Equal(t, 90*time.Second, cfg.SessionTTL)
	assert.True(t, cfg.NatsEnabled)
	assert.Equal(t, "nats://broker:4222", cfg.NatsURL)
	assert.Equal(t, "/models/facefinder", cfg.PigoCascadePath)
	assert.Equal(t, int64(1_000_000), cfg.MaxImagePixels)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PORT", "eighty")
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("AUTO_ORIENT", "maybe")

	cfg := Load()

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.AutoOrient)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"ok", func(c *Config) {}, ""},
		{"unknown backend", func(c *Config) { c.DetectorBackend = "dlib" }, "DETECTOR_BACKEND"},
		{"scale too low", func(c *Config) { c.DefaultScaleFactor = 1.0 }, "DEFAULT_SCALE_FACTOR"},
		{"scale too high", func(c *Config) { c.DefaultScaleFactor = 2.5 }, "DEFAULT_SCALE_FACTOR"},
		{"neighbors zero", func(c *Config) { c.DefaultMinNeighbors = 0 }, "DEFAULT_MIN_NEIGHBORS"},
		{"neighbors eleven", func(c *Config) { c.DefaultMinNeighbors = 11 }, "DEFAULT_MIN_NEIGHBORS"},
		{"color without hash", func(c *Config) { c.DefaultRectColor = "00FF00" }, "DEFAULT_RECT_COLOR"},
		{"color non hex", func(c *Config) { c.DefaultRectColor = "#GG0000" }, "DEFAULT_RECT_COLOR"},
		{"color short form", func(c *Config) { c.DefaultRectColor = "#0F0" }, "DEFAULT_RECT_COLOR"},
		{"color signed", func(c *Config) { c.DefaultRectColor = "#+FFFFF" }, "DEFAULT_RECT_COLOR"},
		{"color lower case", func(c *Config) { c.DefaultRectColor = "#00ff7f" }, ""},
		{"zero pixel cap", func(c *Config) { c.MaxImagePixels = 0 }, "MAX_IMAGE_PIXELS"},
		{"zero session ttl", func(c *Config) { c.SessionTTL = 0 }, "SESSION_TTL"},
		{"zero thickness", func(c *Config) { c.RectThickness = 0 }, "RECT_THICKNESS"},
		{"zero min size", func(c *Config) { c.MinFaceSize = 0 }, "MIN_FACE_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
