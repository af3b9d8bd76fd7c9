// Package logging builds the zerolog loggers used by the CLI and the
// comparison pipeline.
//
// On a terminal, logs are written through zerolog's console writer; anywhere
// else they are emitted as JSON lines so that scripted runs can parse them.
//
// Example usage:
//
//	logger := logging.New(logging.Config{Level: "debug"})
//	logger.Info().Str("file", "manifest.xlsx").Int("rows", 42).Msg("file loaded")
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Nop discards every event.
var Nop = zerolog.Nop()

// Config holds logger options.
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error or disabled.
	Level string

	// Format is "auto", "console" or "json". Auto picks console on a terminal.
	Format string

	// Verbose forces the debug level regardless of Level.
	Verbose bool

	// Output defaults to os.Stderr.
	Output io.Writer

	// NoColor disables colors in console mode. NO_COLOR also disables them.
	NoColor bool
}

// New creates a logger from cfg.
func New(cfg Config) zerolog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level := ParseLevel(cfg.Level)
	if cfg.Verbose && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	var writer io.Writer = output
	if useConsole(cfg.Format, output) {
		writer = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor || os.Getenv("NO_COLOR") != "",
		}
	}

	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}

	return logger
}

// ParseLevel maps a level name to a zerolog level. Unknown names fall back to
// info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "warning":
		return zerolog.WarnLevel
	case "none", "off":
		return zerolog.Disabled
	case "":
		return zerolog.InfoLevel
	}

	if l, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil && l != zerolog.NoLevel {
		return l
	}
	return zerolog.InfoLevel
}

func useConsole(format string, output io.Writer) bool {
	switch strings.ToLower(format) {
	case "console", "pretty":
		return true
	case "json":
		return false
	}
	return IsTerminal(output)
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
