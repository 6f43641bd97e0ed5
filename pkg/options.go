package room

import (
	"io"
	"log/slog"
	"os"
)

// Options controls lexing and execution behavior. A nil *Options means defaults.
type Options struct {
	// AllowUnterminatedStrings truncates an unclosed quote at end of input instead of
	// failing with ErrLex.
	AllowUnterminatedStrings bool
	// MaxCallDepth bounds nested user-function calls. Zero means unlimited.
	MaxCallDepth int
	// Stdout receives everything written by print. Defaults to os.Stdout.
	Stdout io.Writer
	// Logger receives debug events. Defaults to a logger that discards everything.
	Logger *slog.Logger
}

// normalize normalizes the Options.
func (o *Options) normalize() Options {
	if o == nil {
		return Options{Stdout: os.Stdout, Logger: discardLogger()}
	}

	out := *o
	if out.Stdout == nil {
		out.Stdout = os.Stdout
	}
	if out.Logger == nil {
		out.Logger = discardLogger()
	}
	if out.MaxCallDepth < 0 {
		out.MaxCallDepth = 0
	}

	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
