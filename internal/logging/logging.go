// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a logger honoring LOG_LEVEL and LOG_PRETTY environment variables.
// Unknown levels fall back to info.
func New() zerolog.Logger {
	level := zerolog.InfoLevel
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if parsed, err := zerolog.ParseLevel(levelStr); err == nil {
			level = parsed
		}
	}

	var out io.Writer = os.Stderr
	if pretty, _ := os.LookupEnv("LOG_PRETTY"); pretty == "true" || pretty == "1" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
