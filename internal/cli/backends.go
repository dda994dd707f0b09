package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/rshade/scout/internal/output"
	"github.com/rshade/scout/internal/secret"
)

// StepStatus is the outcome shown next to one backend.
type StepStatus int

const (
	// StepSuccess marks the active backend.
	StepSuccess StepStatus = iota
	// StepWarning marks a configured backend whose tool could not be run.
	StepWarning
	// StepSkipped marks a backend that is not configured.
	StepSkipped
	// StepReady marks a configured backend that is shadowed by an earlier one.
	StepReady
)

// formatStatus returns a status marker. Terminals get symbols, everything else brackets.
func formatStatus(status StepStatus, fancy bool) string {
	if !fancy {
		switch status {
		case StepSuccess:
			return "[OK]"
		case StepWarning:
			return "[WARN]"
		case StepSkipped:
			return "[SKIP]"
		case StepReady:
			return "[--]"
		default:
			return "[??]"
		}
	}

	switch status {
	case StepSuccess:
		return "\u2713" // ✓
	case StepWarning:
		return "!"
	case StepSkipped:
		return "-"
	case StepReady:
		return "\u00b7" // ·
	default:
		return "?"
	}
}

// backendReport is one row of `scout backends`.
type backendReport struct {
	secret.Status

	// Version is filled by --check when the tool answered.
	Version string `json:"version,omitempty"`
	// Problem is filled by --check when the tool could not be run.
	Problem string `json:"problem,omitempty"`
}

func (r backendReport) status() StepStatus {
	switch {
	case !r.Configured:
		return StepSkipped
	case r.Problem != "":
		return StepWarning
	case r.Active:
		return StepSuccess
	default:
		return StepReady
	}
}

func newBackendsCmd(s *session) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "backends",
		Short: "Show which secret backends are configured",
		Long: `Lists the secret backends in the order they are tried and marks the one
that will supply the API key. No secret is read.

With --check each tool is asked for its version (in parallel) to confirm
it is installed.`,
		Example: `  scout backends
  scout backends --check -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reports, err := backendReports(cmd, s, check)
			if err != nil {
				return err
			}
			if s.format == output.FormatJSON {
				return output.Render(cmd.OutOrStdout(), s.format, reports)
			}
			writeBackendReports(cmd.OutOrStdout(), reports, isTerminal(cmd.OutOrStdout()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "run each tool's --version to confirm it is installed")
	return cmd
}

// backendReports describes every backend and, with check, checks each tool concurrently.
func backendReports(cmd *cobra.Command, s *session, check bool) ([]backendReport, error) {
	statuses := s.resolver.Describe(s.env)
	reports := make([]backendReport, len(statuses))
	for i, st := range statuses {
		reports[i] = backendReport{Status: st}
	}
	if !check {
		return reports, nil
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	for i, b := range s.resolver.Backends {
		g.Go(func() error {
			v, err := secret.ToolVersion(ctx, b)
			if err != nil {
				reports[i].Problem = err.Error()
				return nil
			}
			reports[i].Version = v.String()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func writeBackendReports(w io.Writer, reports []backendReport, fancy bool) {
	for _, r := range reports {
		detail := "not configured"
		switch {
		case r.Configured && r.Active:
			detail = "configured, active"
		case r.Configured:
			detail = "configured"
		}
		switch {
		case r.Version != "":
			detail += ", v" + r.Version
		case r.Problem != "":
			detail += ", " + r.Problem
		}
		_, _ = fmt.Fprintf(w, "%-6s %-10s %-14s %s\n", formatStatus(r.status(), fancy), r.Name, "("+r.Binary+")", detail)
	}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // Fd fits in int on supported platforms.
}
