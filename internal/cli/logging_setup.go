package cli

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/scout/internal/logging"
)

// newCLILogger builds the process logger. --debug forces debug level on the console.
func newCLILogger(w io.Writer, cfg logging.Config, debug bool) zerolog.Logger {
	if debug {
		cfg.Level = zerolog.DebugLevel.String()
		cfg.Format = logging.FormatConsole
		cfg.Caller = true
	}
	return logging.ComponentLogger(logging.NewLoggerWithWriter(cfg, w), "cli")
}

// setupLogging attaches the logger and a trace id to the command context.
func setupLogging(cmd *cobra.Command, cfg logging.Config, debug bool) zerolog.Logger {
	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)

	logger := newCLILogger(cmd.ErrOrStderr(), cfg, debug).With().Str("trace_id", traceID).Logger()
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().Ctx(ctx).Str("command", cmd.CommandPath()).Msg("command started")
	return logger
}
