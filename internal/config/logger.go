package config

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewLogger builds the root logger for a binary.
func NewLogger(cfg LoggingConfig, service string) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var output io.Writer = os.Stdout
	if cfg.Format != "json" {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	return zerolog.New(output).Level(level).With().Timestamp().Str("service", service).Logger()
}
