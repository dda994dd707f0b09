package pagination

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names used by the Scout API.
const (
	ParamCursor    = "pagination_cursor"
	ParamDirection = "pagination_direction"
	ParamPage      = "pagination_page"
	ParamLimit     = "limit"
)

// Validation limits.
const (
	MinPage  = 1
	MinLimit = 1
	MaxLimit = 10000
)

// ErrInvalidPagination is returned for any invalid combination or value.
var ErrInvalidPagination = errors.New("invalid pagination")

// Direction is the cursor walk direction.
type Direction string

// Directions.
const (
	DirectionNone     Direction = ""
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

// ParseDirection parses "forward" or "backward" case-insensitively. "" is DirectionNone.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionNone:
		return DirectionNone, nil
	case DirectionForward:
		return DirectionForward, nil
	case DirectionBackward:
		return DirectionBackward, nil
	default:
		return DirectionNone, fmt.Errorf("%w: direction must be 'forward' or 'backward', got %q",
			ErrInvalidPagination, s)
	}
}

// PaginationParams is a validated page address. The zero value is the first page, forward.
//
//nolint:revive // PaginationParams is the canonical name for this exported type.
type PaginationParams struct {
	// Cursor is an opaque token from a previous page.
	Cursor string
	// Direction applies to Cursor only.
	Direction Direction
	// Page is a 1-based page number; 0 means not set.
	Page int
}

// Validate checks the raw flag values and returns the params they address.
// page is nil when the flag was not given.
func Validate(cursor, direction string, page *int) (PaginationParams, error) {
	cursor = strings.TrimSpace(cursor)

	dir, err := ParseDirection(direction)
	if err != nil {
		return PaginationParams{}, err
	}

	if dir != DirectionNone && cursor == "" {
		return PaginationParams{}, fmt.Errorf("%w: --pagination-direction requires --pagination-cursor",
			ErrInvalidPagination)
	}
	if page != nil {
		if cursor != "" || dir != DirectionNone {
			return PaginationParams{}, fmt.Errorf(
				"%w: --pagination-page cannot be combined with --pagination-cursor or --pagination-direction",
				ErrInvalidPagination)
		}
		if *page < MinPage {
			return PaginationParams{}, fmt.Errorf("%w: page must be >= %d, got %d", ErrInvalidPagination, MinPage, *page)
		}
		return PaginationParams{Page: *page}, nil
	}

	return PaginationParams{Cursor: cursor, Direction: dir}, nil
}

// ValidateLimit checks a --limit value.
func ValidateLimit(limit int) error {
	if limit < MinLimit || limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between %d and %d, got %d", ErrInvalidPagination, MinLimit, MaxLimit, limit)
	}
	return nil
}

// IsFirstPage reports whether p addresses the default first page.
func (p PaginationParams) IsFirstPage() bool {
	return p.Cursor == "" && p.Page == 0
}

// EffectiveDirection returns the direction, defaulting to forward.
func (p PaginationParams) EffectiveDirection() Direction {
	if p.Direction == DirectionNone {
		return DirectionForward
	}
	return p.Direction
}

// Apply sets the pagination query parameters on q. Absent fields are not sent.
func (p PaginationParams) Apply(q url.Values) {
	if p.Cursor != "" {
		q.Set(ParamCursor, p.Cursor)
	}
	if p.Direction != DirectionNone {
		q.Set(ParamDirection, string(p.Direction))
	}
	if p.Page > 0 {
		q.Set(ParamPage, strconv.Itoa(p.Page))
	}
}
