package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/scout/internal/config"
	"github.com/rshade/scout/internal/output"
)

func newConfigCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the scout config file",
	}
	cmd.AddCommand(newConfigPathCmd(s), newConfigValidateCmd(s))
	return cmd
}

func newConfigPathCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.Path(s.flags.configPath, s.env)
			if path == "" {
				return errors.New("no config location: set --config, SCOUT_CONFIG, XDG_CONFIG_HOME or HOME")
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// newConfigValidateCmd reports every config file problem as an error.
func newConfigValidateCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the config file",
		Long: `Validates the config file for syntax and semantic correctness.

Unlike normal startup, which warns and falls back to defaults, every problem
is reported as an error. API keys in the file are always rejected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, s)
		},
	}
}

func runConfigValidate(cmd *cobra.Command, s *session) error {
	path := config.Path(s.flags.configPath, s.env)
	if path == "" {
		return errors.New("no config location: set --config, SCOUT_CONFIG, XDG_CONFIG_HOME or HOME")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening config %s: %w", path, err)
	}
	defer f.Close()

	cfg := config.New()
	if err = config.Decode(cfg, f); err != nil {
		return fmt.Errorf("configuration validation failed: %s: %w", path, err)
	}

	if s.format == output.FormatJSON {
		return output.Render(cmd.OutOrStdout(), s.format, map[string]any{
			"path":     path,
			"valid":    true,
			"api_base": cfg.APIBase,
			"timeout":  cfg.Timeout.String(),
			"output":   cfg.Output,
			"utc":      cfg.UTC,
		})
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration is valid (%s)\n", formatStatus(StepSuccess, isTerminal(cmd.OutOrStdout())), path)
	return nil
}
