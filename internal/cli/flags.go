package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/scout/internal/cli/pagination"
	"github.com/rshade/scout/internal/scout"
	"github.com/rshade/scout/internal/timerange"
)

// rangeFlags holds --range, --from and --to.
type rangeFlags struct {
	relative string
	from     string
	to       string
}

// addRangeFlags registers --from/--to, and --range when relative is true.
func addRangeFlags(cmd *cobra.Command, r *rangeFlags, relative bool) {
	if relative {
		cmd.Flags().StringVar(&r.relative, "range", "", "relative time window ending now, e.g. 30min, 3hrs, 7days")
	}
	cmd.Flags().StringVar(&r.from, "from", "", "start of the window (ISO-8601, e.g. 2025-01-01T00:00:00Z)")
	cmd.Flags().StringVar(&r.to, "to", "", "end of the window (ISO-8601)")
}

// resolve returns nil when no window was given.
func (r *rangeFlags) resolve() (*timerange.Range, error) {
	return timerange.Parse(r.relative, r.from, r.to, clock())
}

// pageFlags holds the pagination and limit flags.
type pageFlags struct {
	cursor    string
	direction string
	page      int
	limit     int
}

func addPageFlags(cmd *cobra.Command, p *pageFlags) {
	cmd.Flags().StringVar(&p.cursor, "pagination-cursor", "", "opaque cursor from a previous page")
	cmd.Flags().StringVar(&p.direction, "pagination-direction", "", "cursor direction: forward or backward")
	cmd.Flags().IntVar(&p.page, "pagination-page", 0, "page number (1-based); cannot be combined with a cursor")
	addLimitFlag(cmd, &p.limit)
}

func addLimitFlag(cmd *cobra.Command, limit *int) {
	cmd.Flags().IntVar(limit, "limit", 0,
		fmt.Sprintf("maximum number of items (%d-%d)", pagination.MinLimit, pagination.MaxLimit))
}

// resolve validates the pagination flags against each other.
func (p *pageFlags) resolve(cmd *cobra.Command) (pagination.PaginationParams, error) {
	var page *int
	if cmd.Flags().Changed("pagination-page") {
		page = &p.page
	}
	return pagination.Validate(p.cursor, p.direction, page)
}

// resolveLimit returns 0 when --limit was not given.
func resolveLimit(cmd *cobra.Command, limit int) (int, error) {
	if !cmd.Flags().Changed("limit") {
		return 0, nil
	}
	if err := pagination.ValidateLimit(limit); err != nil {
		return 0, err
	}
	return limit, nil
}

// parseID parses a positive numeric identifier argument.
func parseID(name, raw string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", scout.ErrInvalidArgument, name, raw)
	}
	return id, nil
}
