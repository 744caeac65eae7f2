// Package logger wraps zerolog with the constructors used across the
// application. Handlers and services receive a *Logger and enrich it with
// their own fields.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

type Logger struct {
	zerolog.Logger
}

// New constructs a JSON logger writing to stdout. In debug mode the level
// drops to Debug and output switches to the human-readable console writer.
func New(mode string) *Logger {
	if mode == "debug" {
		out := zerolog.ConsoleWriter{Out: os.Stdout}
		l := zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger()
		return &Logger{l}
	}

	l := zerolog.New(os.Stdout).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	return &Logger{l}
}

// Nop returns a logger that discards everything. For tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}
