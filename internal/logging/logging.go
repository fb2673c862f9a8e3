// Package logging builds the root zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr at the given level. Unknown levels
// fall back to info. pretty switches to the human-readable console writer.
func New(level string, pretty bool) zerolog.Logger {
	var out io.Writer = os.Stderr
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return NewWithWriter(out, level)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Component returns a child logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
