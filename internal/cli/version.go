package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/scout/internal/output"
	"github.com/rshade/scout/pkg/version"
)

type versionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

func newVersionCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the scout version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if s.format == output.FormatJSON {
				return output.Render(cmd.OutOrStdout(), s.format, versionInfo{
					Version: s.version,
					Commit:  version.GetCommit(),
					Date:    version.GetDate(),
				})
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "scout %s\n", s.version)
			return err
		},
	}
}
