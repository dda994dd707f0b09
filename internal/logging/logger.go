package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// DefaultLevel keeps a CLI quiet unless asked otherwise.
const DefaultLevel = zerolog.WarnLevel

// Config controls logger construction.
type Config struct {
	// Level is a zerolog level name ("debug", "info", "warn", ...).
	Level string
	// Format is FormatJSON or FormatConsole.
	Format string
	// Caller adds file:line to each entry.
	Caller bool
}

// ParseLevel parses a level name, falling back to DefaultLevel on empty or unknown input.
func ParseLevel(level string) zerolog.Level {
	if strings.TrimSpace(level) == "" {
		return DefaultLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return DefaultLevel
	}
	return lvl
}

// NewLogger creates a logger writing to stderr.
func NewLogger(cfg Config) zerolog.Logger {
	return NewLoggerWithWriter(cfg, os.Stderr)
}

// NewLoggerWithWriter creates a logger writing to w.
func NewLoggerWithWriter(cfg Config, w io.Writer) zerolog.Logger {
	out := w
	if cfg.Format == FormatConsole {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	ctx := zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// ComponentLogger returns a child logger tagged with the component name.
func ComponentLogger(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

// FromContext returns the logger stored on ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
