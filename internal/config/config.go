package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"facelens-go/internal/helpers"
	"facelens-go/internal/models"
)

const (
	BackendPigo = "pigo"
	BackendHaar = "haar"
)

type Config struct {
	// Application
	Version     string
	Environment string
	InstanceID  string
	Port        int
	LogLevel    string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// Detector
	DetectorBackend string
	HaarCascadePath string
	PigoCascadePath string
	PigoIoU         float64
	PigoShiftFactor float64
	MinFaceSize     int

	// Detection defaults shown in the UI
	DefaultScaleFactor  float64
	DefaultMinNeighbors int
	DefaultRectColor    string
	RectThickness       int

	// Uploads and previews
	MaxUploadBytes   int64
	MaxImagePixels   int64
	AutoOrient       bool
	PreviewMaxWidth  int
	PreviewMaxHeight int

	// Sessions
	SessionTTL  time.Duration
	MaxSessions int

	// NATS (detection events)
	NatsEnabled        bool
	NatsURL            string
	NatsSubject        string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int

	// Observability
	MetricsEnabled bool
	GRPCHealthPort int

	// HTTP server
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found or error loading .env file, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		InstanceID:  getEnv("INSTANCE_ID", "facelens-1"),
		Port:        getEnvInt("PORT", 8000),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Logdy
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		// Detector
		DetectorBackend: strings.ToLower(getEnv("DETECTOR_BACKEND", BackendPigo)),
		HaarCascadePath: getEnv("HAAR_CASCADE_PATH", "/usr/share/opencv4/haarcascades/haarcascade_frontalface_default.xml"),
		PigoCascadePath: getEnv("PIGO_CASCADE_PATH", ""),
		PigoIoU:         getEnvFloat("PIGO_IOU", 0.2),
		PigoShiftFactor: getEnvFloat("PIGO_SHIFT_FACTOR", 0.1),
		MinFaceSize:     getEnvInt("MIN_FACE_SIZE", 30),

		// Detection defaults
		DefaultScaleFactor:  getEnvFloat("DEFAULT_SCALE_FACTOR", models.DefaultScaleFactor),
		DefaultMinNeighbors: getEnvInt("DEFAULT_MIN_NEIGHBORS", models.DefaultMinNeighbors),
		DefaultRectColor:    getEnv("DEFAULT_RECT_COLOR", models.DefaultRectColor),
		RectThickness:       getEnvInt("RECT_THICKNESS", 2),

		// Uploads and previews
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_BYTES", 20*1024*1024)), // 20MB
		MaxImagePixels:   int64(getEnvInt("MAX_IMAGE_PIXELS", 40_000_000)),
		AutoOrient:       getEnvBool("AUTO_ORIENT", true),
		PreviewMaxWidth:  getEnvInt("PREVIEW_MAX_WIDTH", 960),
		PreviewMaxHeight: getEnvInt("PREVIEW_MAX_HEIGHT", 960),

		// Sessions
		SessionTTL:  getEnvDuration("SESSION_TTL", 30*time.Minute),
		MaxSessions: getEnvInt("MAX_SESSIONS", 256),

		// NATS
		NatsEnabled:        getEnvBool("NATS_ENABLED", false),
		NatsURL:            getNatsURL(),
		NatsSubject:        getEnv("NATS_SUBJECT", "facelens.detections"),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 5*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited

		// Observability
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		GRPCHealthPort: getEnvInt("GRPC_HEALTH_PORT", 0),

		// HTTP server
		ReadTimeout:  getEnvDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getEnvDuration("WRITE_TIMEOUT", 60*time.Second),

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// DefaultParameters returns the configured starting slider positions.
func (c *Config) DefaultParameters() models.DetectionParameters {
	return models.DetectionParameters{
		ScaleFactor:  c.DefaultScaleFactor,
		MinNeighbors: c.DefaultMinNeighbors,
	}
}

// Validate reports the first setting that would make the service unusable.
func (c *Config) Validate() error {
	switch c.DetectorBackend {
	case BackendPigo, BackendHaar:
	default:
		return fmt.Errorf("unknown DETECTOR_BACKEND %q (want %q or %q)", c.DetectorBackend, BackendPigo, BackendHaar)
	}
	if c.DefaultScaleFactor < models.MinScaleFactor || c.DefaultScaleFactor > models.MaxScaleFactor {
		return fmt.Errorf("DEFAULT_SCALE_FACTOR %.2f out of range [%.1f, %.1f]", c.DefaultScaleFactor, models.MinScaleFactor, models.MaxScaleFactor)
	}
	if c.DefaultMinNeighbors < models.MinNeighbors || c.DefaultMinNeighbors > models.MaxNeighbors {
		return fmt.Errorf("DEFAULT_MIN_NEIGHBORS %d out of range [%d, %d]", c.DefaultMinNeighbors, models.MinNeighbors, models.MaxNeighbors)
	}
	if _, err := helpers.HexToBGR(c.DefaultRectColor); err != nil {
		return fmt.Errorf("DEFAULT_RECT_COLOR: %w", err)
	}
	if c.RectThickness < 1 {
		return fmt.Errorf("RECT_THICKNESS must be positive, got %d", c.RectThickness)
	}
	if c.MinFaceSize < 1 {
		return fmt.Errorf("MIN_FACE_SIZE must be positive, got %d", c.MinFaceSize)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.MaxImagePixels <= 0 {
		return fmt.Errorf("MAX_IMAGE_PIXELS must be positive, got %d", c.MaxImagePixels)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func isRunningInDocker() bool {
	if os.Getenv("DOCKER_CONTAINER") == "true" {
		return true
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}

// getNatsURL returns the appropriate NATS URL based on environment
func getNatsURL() string {
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		return envURL
	}
	if isRunningInDocker() {
		return "nats://nats:4222"
	}
	return "nats://localhost:4222"
}
