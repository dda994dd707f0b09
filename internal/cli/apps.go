package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/scout/internal/scout"
	"github.com/rshade/scout/internal/timerange"
)

func newAppsCmd(s *session) *cobra.Command {
	var activeSince string

	cmd := &cobra.Command{
		Use:   "apps",
		Short: "List applications",
		Example: `  scout apps
  scout apps --active-since 2025-06-01T00:00:00Z -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var since *time.Time
			if strings.TrimSpace(activeSince) != "" {
				t, err := timerange.ParseTime(activeSince)
				if err != nil {
					return err
				}
				since = &t
			}
			return s.run(cmd, func(ctx context.Context, c *scout.Client) (any, error) {
				return c.ListApps(ctx, since)
			})
		},
	}
	cmd.Flags().StringVar(&activeSince, "active-since", "",
		"only apps that reported at or after this ISO-8601 time")
	return cmd
}

func newAppCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "app <app_id>",
		Short: "Show one application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := parseID("app id", args[0])
			if err != nil {
				return err
			}
			return s.run(cmd, func(ctx context.Context, c *scout.Client) (any, error) {
				return c.GetApp(ctx, appID)
			})
		},
	}
}

func newMetricsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics <app_id>",
		Short: "List the metric types available for an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := parseID("app id", args[0])
			if err != nil {
				return err
			}
			return s.run(cmd, func(ctx context.Context, c *scout.Client) (any, error) {
				return c.ListMetrics(ctx, appID)
			})
		},
	}
}

func newMetricCmd(s *session) *cobra.Command {
	var rf rangeFlags

	cmd := &cobra.Command{
		Use:   "metric <app_id> <metric>",
		Short: "Show an application metric time series",
		Long: "Show an application metric time series.\n\nMetric types: " +
			strings.Join(scout.MetricTypes, ", "),
		Example: `  scout metric 42 response_time --range 3hrs
  scout metric 42 throughput --from 2025-06-01T00:00:00Z --to 2025-06-02T00:00:00Z`,
		Args: cobra.ExactArgs(2), //nolint:mnd // app id and metric
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := parseID("app id", args[0])
			if err != nil {
				return err
			}
			metric := args[1]
			if err = scout.ValidateMetric(metric); err != nil {
				return err
			}
			rng, err := rf.resolve()
			if err != nil {
				return err
			}
			return s.run(cmd, func(ctx context.Context, c *scout.Client) (any, error) {
				return c.GetMetric(ctx, appID, metric, rng)
			})
		},
	}
	addRangeFlags(cmd, &rf, true)
	return cmd
}
