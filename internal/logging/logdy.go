package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/logdyhq/logdy-core/logdy"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"facelens-go/internal/config"
)

type logdyWriter struct {
	logger logdy.Logdy
}

func (w *logdyWriter) Write(p []byte) (n int, err error) {
	// Forward raw JSON line to Logdy UI
	w.logger.LogString(string(p))
	return len(p), nil
}

// StartLogdy starts the embedded Logdy web UI and returns a writer to tee logs into, plus the UI URL.
func StartLogdy(cfg *config.Config) (io.Writer, string) {
	portStr := strconv.Itoa(cfg.LogdyPort)
	ld := logdy.InitializeLogdy(logdy.Config{
		ServerIp:   cfg.LogdyHost,
		ServerPort: portStr,
	}, nil)

	return &logdyWriter{logger: ld}, fmt.Sprintf("http://%s:%s", cfg.LogdyHost, portStr)
}

// Configure installs the global zerolog logger: console output on stderr,
// the configured level, and the Logdy tee when enabled.
func Configure(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	var out io.Writer = console

	var logdyURL string
	if cfg.LogdyEnabled {
		var w io.Writer
		w, logdyURL = StartLogdy(cfg)
		out = zerolog.MultiLevelWriter(console, w)
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("level", cfg.LogLevel).Msg("Invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if logdyURL != "" {
		log.Info().Str("url", logdyURL).Msg("Logdy UI available")
	}
}
