package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/Borislavv/go-corr-cache/config"
	"github.com/rs/zerolog"
)

// NewLogger builds the root logger of a cache: JSON lines by default, console output
// when cfg.Console is set.
func NewLogger(cfg config.LogsCfg, w io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		lvl, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("parse log level %q: %w", cfg.Level, err)
		}
		level = lvl
	}

	if cfg.Console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
