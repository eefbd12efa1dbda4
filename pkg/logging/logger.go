package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w. Debug output is only enabled
// when debug is true.
func New(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()
}

// Default logs to stderr so command output on stdout stays clean.
func Default(debug bool) zerolog.Logger {
	return New(os.Stderr, debug)
}
