package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/scout/internal/logging"
	"github.com/rshade/scout/internal/scout"
)

func newInsightsCmd(s *session) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "insights <app_id>",
		Short: "Show current performance insights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := parseID("app id", args[0])
			if err != nil {
				return err
			}
			n, err := resolveLimit(cmd, limit)
			if err != nil {
				return err
			}
			return s.run(cmd, func(ctx context.Context, c *scout.Client) (any, error) {
				return c.GetInsights(ctx, appID, n)
			})
		},
	}
	addLimitFlag(cmd, &limit)
	return cmd
}

func newInsightCmd(s *session) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "insight <app_id> <type>",
		Short: "Show current insights of one type",
		Long:  "Show current insights of one type.\n\nTypes: " + strings.Join(scout.InsightTypes, ", "),
		Args:  cobra.ExactArgs(2), //nolint:mnd // app id and type
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := parseID("app id", args[0])
			if err != nil {
				return err
			}
			insightType := args[1]
			if err = scout.ValidateInsight(insightType); err != nil {
				return err
			}
			n, err := resolveLimit(cmd, limit)
			if err != nil {
				return err
			}
			return s.run(cmd, func(ctx context.Context, c *scout.Client) (any, error) {
				return c.GetInsight(ctx, appID, insightType, n)
			})
		},
	}
	addLimitFlag(cmd, &limit)
	return cmd
}

func newInsightsHistoryCmd(s *session) *cobra.Command {
	var (
		rf rangeFlags
		pf pageFlags
	)

	cmd := &cobra.Command{
		Use:   "insights-history <app_id>",
		Short: "Page through historical insights",
		Example: `  scout insights-history 42 --limit 50
  scout insights-history 42 --pagination-cursor 1234 --pagination-direction forward
  scout insights-history 42 --pagination-page 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsightsHistory(cmd, s, args[0], "", &rf, &pf)
		},
	}
	addRangeFlags(cmd, &rf, false)
	addPageFlags(cmd, &pf)
	return cmd
}

func newInsightsHistoryByTypeCmd(s *session) *cobra.Command {
	var (
		rf rangeFlags
		pf pageFlags
	)

	cmd := &cobra.Command{
		Use:   "insights-history-by-type <app_id> <type>",
		Short: "Page through historical insights of one type",
		Long:  "Page through historical insights of one type.\n\nTypes: " + strings.Join(scout.InsightTypes, ", "),
		Args:  cobra.ExactArgs(2), //nolint:mnd // app id and type
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := scout.ValidateInsight(args[1]); err != nil {
				return err
			}
			return runInsightsHistory(cmd, s, args[0], args[1], &rf, &pf)
		},
	}
	addRangeFlags(cmd, &rf, false)
	addPageFlags(cmd, &pf)
	return cmd
}

// runInsightsHistory validates every input before the credential is resolved.
func runInsightsHistory(cmd *cobra.Command, s *session, rawApp, insightType string, rf *rangeFlags, pf *pageFlags) error {
	appID, err := parseID("app id", rawApp)
	if err != nil {
		return err
	}
	rng, err := rf.resolve()
	if err != nil {
		return err
	}
	params, err := pf.resolve(cmd)
	if err != nil {
		return err
	}
	limit, err := resolveLimit(cmd, pf.limit)
	if err != nil {
		return err
	}

	return s.run(cmd, func(ctx context.Context, c *scout.Client) (any, error) {
		logging.FromContext(ctx).Debug().Ctx(ctx).
			Uint64("app_id", appID).
			Bool("first_page", params.IsFirstPage()).
			Str("direction", string(params.EffectiveDirection())).
			Int("page", params.Page).
			Msg("fetching insights history")

		page, err := c.GetInsightsHistory(ctx, appID, scout.HistoryQuery{
			InsightType: insightType,
			Range:       rng,
			Limit:       limit,
			Page:        params,
		})
		if err != nil {
			return nil, err
		}
		return pagedPage{page}, nil
	})
}
