package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rshade/scout/internal/scout"
)

func newErrorsCmd(s *session) *cobra.Command {
	var (
		rf       rangeFlags
		endpoint string
	)

	cmd := &cobra.Command{
		Use:   "errors <app_id>",
		Short: "List error groups",
		Example: `  scout errors 42
  scout errors 42 --from 2025-06-01T00:00:00Z --to 2025-06-02T00:00:00Z --endpoint <endpoint_id>`,
		Args: cobra.ExactArgs(1),
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
				return c.ListErrorGroups(ctx, appID, rng, endpoint)
			})
		},
	}
	addRangeFlags(cmd, &rf, false)
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "only error groups for this endpoint id")
	return cmd
}

func newErrorCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "error <app_id> <error_group_id>",
		Short: "Show one error group",
		Args:  cobra.ExactArgs(2), //nolint:mnd // app id and group id
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, groupID, err := appAndGroup(args)
			if err != nil {
				return err
			}
			return s.run(cmd, func(ctx context.Context, c *scout.Client) (any, error) {
				return c.GetErrorGroup(ctx, appID, groupID)
			})
		},
	}
}

func newErrorGroupErrorsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "error-group-errors <app_id> <error_group_id>",
		Short: "List the individual errors of an error group",
		Args:  cobra.ExactArgs(2), //nolint:mnd // app id and group id
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, groupID, err := appAndGroup(args)
			if err != nil {
				return err
			}
			return s.run(cmd, func(ctx context.Context, c *scout.Client) (any, error) {
				return c.ListErrorGroupErrors(ctx, appID, groupID)
			})
		},
	}
}

func appAndGroup(args []string) (uint64, uint64, error) {
	appID, err := parseID("app id", args[0])
	if err != nil {
		return 0, 0, err
	}
	groupID, err := parseID("error group id", args[1])
	if err != nil {
		return 0, 0, err
	}
	return appID, groupID, nil
}
