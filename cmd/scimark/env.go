package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	scimark "github.com/alnah/go-scimark"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger zerolog.Logger

	// NewPool builds the converter pool; tests replace it with a fake.
	NewPool func(size int, opts ...scimark.Option) (Pool, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv(logger zerolog.Logger) *Environment {
	return &Environment{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Logger:  logger,
		NewPool: newConverterPool,
	}
}

// newLogger returns a console logger on w at the level picked by the flags.
func newLogger(w io.Writer, quiet, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case quiet:
		level = zerolog.ErrorLevel
	case verbose:
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()
}
