package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/scout/internal/scout"
)

// endpointArg validates an endpoint id argument. Ids are passed through as given.
func endpointArg(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", fmt.Errorf("%w: endpoint id is required", scout.ErrInvalidArgument)
	}
	return id, nil
}

func newEndpointsCmd(s *session) *cobra.Command {
	var rf rangeFlags

	cmd := &cobra.Command{
		Use:   "endpoints <app_id>",
		Short: "List an application's endpoints (last 7 days by default)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := parseID("app id", args[0])
			if err != nil {
				return err
			}
			rng, err := rf.resolve()
			if err != nil {
				return err
			}
			return s.run(cmd, func(ctx context.Context, c *scout.Client) (any, error) {
				return c.ListEndpoints(ctx, appID, rng)
			})
		},
	}
	addRangeFlags(cmd, &rf, true)
	return cmd
}

func newEndpointMetricCmd(s *session) *cobra.Command {
	var rf rangeFlags

	cmd := &cobra.Command{
		Use:   "endpoint-metric <app_id> <endpoint_id> <metric>",
		Short: "Show a metric time series for one endpoint",
		Long: "Show a metric time series for one endpoint.\n\nMetric types: " +
			strings.Join(scout.MetricTypes, ", "),
		Args: cobra.ExactArgs(3), //nolint:mnd // app id, endpoint id and metric
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := parseID("app id", args[0])
			if err != nil {
				return err
			}
			endpointID, err := endpointArg(args[1])
			if err != nil {
				return err
			}
			metric := args[2]
			if err = scout.ValidateMetric(metric); err != nil {
				return err
			}
			rng, err := rf.resolve()
			if err != nil {
				return err
			}
			return s.run(cmd, func(ctx context.Context, c *scout.Client) (any, error) {
				return c.GetEndpointMetric(ctx, appID, endpointID, metric, rng)
			})
		},
	}
	addRangeFlags(cmd, &rf, true)
	return cmd
}

func newEndpointTracesCmd(s *session) *cobra.Command {
	var rf rangeFlags

	cmd := &cobra.Command{
		Use:   "endpoint-traces <app_id> <endpoint_id>",
		Short: "List traces for one endpoint (last 7 days by default)",
		Args:  cobra.ExactArgs(2), //nolint:mnd // app id and endpoint id
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := parseID("app id", args[0])
			if err != nil {
				return err
			}
			endpointID, err := endpointArg(args[1])
			if err != nil {
				return err
			}
			rng, err := rf.resolve()
			if err != nil {
				return err
			}
			return s.run(cmd, func(ctx context.Context, c *scout.Client) (any, error) {
				return c.ListEndpointTraces(ctx, appID, endpointID, rng)
			})
		},
	}
	addRangeFlags(cmd, &rf, true)
	return cmd
}

func newTraceCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "trace <app_id> <trace_id>",
		Short: "Show one trace",
		Args:  cobra.ExactArgs(2), //nolint:mnd // app id and trace id
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := parseID("app id", args[0])
			if err != nil {
				return err
			}
			traceID, err := parseID("trace id", args[1])
			if err != nil {
				return err
			}
			return s.run(cmd, func(ctx context.Context, c *scout.Client) (any, error) {
				return c.GetTrace(ctx, appID, traceID)
			})
		},
	}
}
