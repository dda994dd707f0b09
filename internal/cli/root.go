package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/scout/internal/config"
	"github.com/rshade/scout/internal/logging"
	"github.com/rshade/scout/internal/output"
	"github.com/rshade/scout/internal/scout"
	"github.com/rshade/scout/internal/tui"
)

// NewRootCmd creates the root Cobra command for the scout CLI using the process
// arguments and environment.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithArgs(ver, os.Args, os.LookupEnv)
}

// NewRootCmdWithArgs creates the root command with explicit args and env lookup for testability.
// args[0] is the program name. The environment is read once, here.
func NewRootCmdWithArgs(
	ver string,
	args []string,
	lookupEnv func(string) (string, bool),
) *cobra.Command {
	s := newSession(ver, config.LoadEnv(lookupEnv))

	cmd := &cobra.Command{
		Use:   "scout",
		Short: "Terminal client for Scout APM",
		Long: `scout queries the Scout APM API from the terminal.

Run without a command to open the interactive browser. The API key is read
from 1Password, Bitwarden or KeePassXC; plain-text keys are not supported.`,
		Example:       rootCmdExample,
		Version:       ver,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd, s)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&s.flags.output, "output", "o", "", "output format: plain or json (default from config, else plain)")
	flags.BoolVar(&s.flags.utc, "utc", false, "display timestamps in UTC instead of local time")
	flags.BoolVar(&s.flags.debug, "debug", false, "enable debug logging")
	flags.StringVar(&s.flags.configPath, "config", "", "path to the config file")
	cmd.Flags().StringVar(&s.flags.app, "app", "", "open this app (id or name) when the browser starts")
	cmd.Flags().StringVar(&s.flags.tab, "tab", "endpoints", "tab shown when an app opens: endpoints, insights, metrics or errors")
	cmd.Flags().IntVar(&s.flags.refresh, "refresh", 0, "re-fetch the open tab every N seconds (0 disables)")

	cmd.AddCommand(
		newAppsCmd(s), newAppCmd(s), newMetricsCmd(s), newMetricCmd(s),
		newEndpointsCmd(s), newEndpointMetricCmd(s), newEndpointTracesCmd(s), newTraceCmd(s),
		newErrorsCmd(s), newErrorCmd(s), newErrorGroupErrorsCmd(s),
		newInsightsCmd(s), newInsightCmd(s), newInsightsHistoryCmd(s), newInsightsHistoryByTypeCmd(s),
		newParseURLCmd(), newVersionCmd(s), newBackendsCmd(s), newConfigCmd(s),
	)

	if len(args) > 0 {
		cmd.SetArgs(args[1:])
	}
	return cmd
}

// OutputFormat returns the format chosen for this invocation, for error reporting
// after Execute returns. It falls back to plain when the flag is missing or invalid.
func OutputFormat(root *cobra.Command) output.Format {
	raw, err := root.PersistentFlags().GetString("output")
	if err != nil {
		return output.FormatPlain
	}
	f, err := output.ParseFormat(raw)
	if err != nil {
		return output.FormatPlain
	}
	return f
}

// runInteractive resolves the credential and hands control to the browser.
func runInteractive(cmd *cobra.Command, s *session) error {
	tab, err := tui.ParseTab(s.flags.tab)
	if err != nil {
		return fmt.Errorf("%w: --tab: %w", scout.ErrInvalidArgument, err)
	}

	ctx := cmd.Context()
	c, err := s.client(ctx)
	if err != nil {
		return err
	}
	defer s.release()

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("app", s.flags.app).
		Stringer("tab", tab).
		Int("refresh_seconds", s.flags.refresh).
		Msg("starting browser")

	return runBrowser(ctx, c, tui.Options{
		UTC:     s.utc,
		App:     s.flags.app,
		Tab:     tab,
		Refresh: time.Duration(s.flags.refresh) * time.Second,
		Now:     clock,
	})
}

const rootCmdExample = `  # Browse apps and endpoints interactively
  scout

  # Open one app on its insights tab and refresh every 30 seconds
  scout --app 42 --tab insights --refresh 30

  # List apps that reported in the last day
  scout apps --active-since 2025-06-01T00:00:00Z

  # Endpoint response times for the last 3 hours, as JSON
  scout endpoint-metric 42 <endpoint_id> response_time --range 3hrs -o json

  # Walk insight history one page at a time
  scout insights-history 42 --limit 50
  scout insights-history 42 --pagination-cursor <cursor> --pagination-direction forward

  # Extract identifiers from a Scout web URL
  scout parse-url https://scoutapm.com/apps/42/endpoints/<endpoint_id>/trace/7

  # Show which secret backend will be used
  scout backends --check`
