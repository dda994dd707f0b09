package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/scout/internal/output"
	"github.com/rshade/scout/internal/scout"
)

func newParseURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse-url <url>",
		Short: "Extract app, endpoint, trace, error and insight ids from a Scout web URL",
		Example: `  scout parse-url https://scoutapm.com/apps/42/endpoints/<endpoint_id>/trace/7
  scout parse-url https://scoutapm.com/apps/42/error_groups/9 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := scout.ParseURL(args[0])
			if err != nil {
				return err
			}
			return output.Render(cmd.OutOrStdout(), OutputFormat(cmd.Root()), parsed)
		},
	}
}
