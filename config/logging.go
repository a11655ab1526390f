package config

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogging points the global logger at out. Console output is
// used when asked for, or in auto mode when out is a terminal.
func (c LogConfig) SetupLogging(out *os.File) error {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return err
	}

	var w io.Writer = out
	if c.Format == "console" || (c.Format == "auto" && isatty.IsTerminal(out.Fd())) {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	log.Logger = zerolog.New(w).With().Timestamp().Logger().Level(level)
	return nil
}
