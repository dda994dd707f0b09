package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/scout/internal/cli/pagination"
	"github.com/rshade/scout/internal/config"
	"github.com/rshade/scout/internal/logging"
	"github.com/rshade/scout/internal/output"
	"github.com/rshade/scout/internal/scout"
	"github.com/rshade/scout/internal/secret"
	"github.com/rshade/scout/internal/tui"
	"github.com/rshade/scout/pkg/version"
)

//nolint:gochecknoglobals // Replaced in tests.
var (
	runBrowser = tui.Run
	clock      = time.Now
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	output     string
	utc        bool
	debug      bool
	configPath string
	app        string
	refresh    int
	tab        string
}

// session carries the per-invocation state built by the root PersistentPreRunE.
type session struct {
	version  string
	env      config.Env
	flags    globalFlags
	cfg      *config.Config
	format   output.Format
	utc      bool
	resolver *secret.Resolver
	cred     *secret.Credential
}

func newSession(ver string, env config.Env) *session {
	return &session{
		version:  ver,
		env:      env,
		cfg:      config.New(),
		format:   output.FormatPlain,
		resolver: secret.NewResolver(),
	}
}

// setup loads the config file, resolves the output format and configures logging.
func (s *session) setup(cmd *cobra.Command) error {
	boot := newCLILogger(cmd.ErrOrStderr(), logging.Config{Level: s.env.LogLevel, Format: logging.FormatConsole}, s.flags.debug)
	cfg, err := config.Load(boot.WithContext(cmd.Context()), s.flags.configPath, s.env)
	if err != nil {
		return err
	}
	s.cfg = cfg

	raw := cfg.Output
	if cmd.Flags().Changed("output") {
		raw = s.flags.output
	}
	format, err := output.ParseFormat(raw)
	if err != nil {
		return err
	}
	s.format = format
	s.flags.output = string(format)
	s.utc = s.flags.utc || cfg.UTC

	if s.flags.refresh < 0 {
		return fmt.Errorf("%w: --refresh must be >= 0, got %d", scout.ErrInvalidArgument, s.flags.refresh)
	}

	setupLogging(cmd, cfg.ToLoggingConfig(), s.flags.debug)
	return nil
}

// client resolves the credential once per process and returns an API client.
// The caller releases it with release.
func (s *session) client(ctx context.Context) (*scout.Client, error) {
	if s.cred == nil {
		cred, err := s.resolver.Resolve(ctx, s.env)
		if err != nil {
			return nil, err
		}
		s.cred = cred
	}
	return scout.New(s.cred,
		scout.WithBaseURL(s.cfg.APIBase),
		scout.WithTimeout(s.cfg.Timeout),
		scout.WithUserAgent(version.UserAgent()),
		scout.WithClock(clock),
	), nil
}

// release wipes the resolved credential, if any.
func (s *session) release() {
	if s.cred != nil {
		s.cred.Destroy()
		s.cred = nil
	}
}

// query is one API call made on behalf of a command.
type query func(ctx context.Context, c *scout.Client) (any, error)

// run resolves the credential, performs q and renders its result.
func (s *session) run(cmd *cobra.Command, q query) error {
	ctx := cmd.Context()
	c, err := s.client(ctx)
	if err != nil {
		return err
	}
	defer s.release()

	v, err := q(ctx, c)
	if err != nil {
		return err
	}
	return s.render(cmd, v)
}

// pagedPage marks the result of a paginated command. Its pagination metadata
// is part of the JSON output.
type pagedPage struct {
	*scout.Page
}

// pagedOutput is the JSON shape of a paginated command.
type pagedOutput struct {
	Results    json.RawMessage           `json:"results"`
	Pagination pagination.PaginationMeta `json:"pagination"`
}

// render writes v to stdout. Pages render their results; in plain mode
// follow-up pagination hints go to stderr so stdout stays pipeable.
func (s *session) render(cmd *cobra.Command, v any) error {
	var page *scout.Page
	switch p := v.(type) {
	case *scout.Page:
		page = p
	case pagedPage:
		if s.format == output.FormatJSON {
			return output.Render(cmd.OutOrStdout(), s.format, pagedOutput{Results: p.Results, Pagination: p.Meta})
		}
		page = p.Page
	default:
		return output.Render(cmd.OutOrStdout(), s.format, v)
	}

	if err := output.Render(cmd.OutOrStdout(), s.format, page.Results); err != nil {
		return err
	}
	if s.format == output.FormatPlain {
		writeCursorHints(cmd, page)
	}
	return nil
}

func writeCursorHints(cmd *cobra.Command, page *scout.Page) {
	meta := page.Meta
	if next, ok := meta.NextParams(); ok {
		cmd.PrintErrf("Next page: --pagination-cursor %s --pagination-direction %s\n", next.Cursor, next.Direction)
	}
	if prev, ok := meta.PreviousParams(); ok {
		cmd.PrintErrf("Previous page: --pagination-cursor %s --pagination-direction %s\n", prev.Cursor, prev.Direction)
	} else if meta.CurrentPage > pagination.MinPage {
		cmd.PrintErrf("Previous page: --pagination-page %d\n", meta.CurrentPage-1)
	}
}
