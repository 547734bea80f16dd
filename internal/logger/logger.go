package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"phonebills/internal/config"
)

// New builds the application logger from config. Unknown levels fall back
// to info; "console" format pretty-prints for development, anything else
// emits JSON.
func New(cfg *config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if strings.ToLower(cfg.Format) == "console" {
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		logger = zerolog.New(out)
	} else {
		logger = zerolog.New(os.Stdout)
	}

	return logger.Level(level).With().Timestamp().Logger()
}
