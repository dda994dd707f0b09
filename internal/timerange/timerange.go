// Package timerange turns --range/--from/--to inputs into a validated interval.
package timerange

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// MaxSpan is the longest interval the Scout API accepts.
const MaxSpan = 14 * 24 * time.Hour

// DefaultSpan is used by queries that need a range when the user gave none.
const DefaultSpan = 7 * 24 * time.Hour

// APILayout is the timestamp format sent to the API.
const APILayout = "2006-01-02T15:04:05Z"

// ErrInvalidRange is returned for any unusable combination or value.
var ErrInvalidRange = errors.New("invalid time range")

// Range is a closed interval with From <= To.
type Range struct {
	From time.Time
	To   time.Time
}

// Duration returns To - From.
func (r Range) Duration() time.Duration {
	return r.To.Sub(r.From)
}

// FromParam returns From formatted for the API.
func (r Range) FromParam() string {
	return Format(r.From)
}

// ToParam returns To formatted for the API.
func (r Range) ToParam() string {
	return Format(r.To)
}

// Parse builds a Range from a relative token or an explicit from/to pair.
// Empty strings mean "not given". When nothing is given the result is nil with no
// error and the caller queries without a time filter.
func Parse(relative, from, to string, now time.Time) (*Range, error) {
	relative = strings.TrimSpace(relative)
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)

	switch {
	case relative != "" && (from != "" || to != ""):
		return nil, fmt.Errorf("%w: --range cannot be combined with --from/--to", ErrInvalidRange)
	case relative != "":
		d, err := ParseDuration(relative)
		if err != nil {
			return nil, err
		}
		return check(Range{From: now.Add(-d), To: now})
	case from == "" && to == "":
		return nil, nil
	case from == "" || to == "":
		return nil, fmt.Errorf("%w: --from and --to must be given together", ErrInvalidRange)
	}

	fromT, err := ParseTime(from)
	if err != nil {
		return nil, err
	}
	toT, err := ParseTime(to)
	if err != nil {
		return nil, err
	}
	return check(Range{From: fromT, To: toT})
}

// Default returns the range of length d ending at now.
func Default(d time.Duration, now time.Time) Range {
	return Range{From: now.Add(-d), To: now}
}

// check enforces ordering and the maximum span.
func check(r Range) (*Range, error) {
	if r.From.After(r.To) {
		return nil, fmt.Errorf("%w: from (%s) is after to (%s)", ErrInvalidRange, Format(r.From), Format(r.To))
	}
	if r.Duration() > MaxSpan {
		return nil, fmt.Errorf("%w: time range cannot exceed 2 weeks", ErrInvalidRange)
	}
	return &r, nil
}

// ParseDuration parses a relative token such as "30min", "12hr", "1day" or "7 days".
// Matching is case-insensitive and ignores spaces.
func ParseDuration(token string) (time.Duration, error) {
	s := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(token), " ", ""))

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("%w: %q must start with a number", ErrInvalidRange, token)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q must start with a positive number", ErrInvalidRange, token)
	}

	unit, err := parseUnit(s[end:])
	if err != nil {
		return 0, fmt.Errorf("%w: unknown unit in %q", ErrInvalidRange, token)
	}
	if int64(n) > math.MaxInt64/int64(unit) {
		return 0, fmt.Errorf("%w: %q is too long", ErrInvalidRange, token)
	}
	return time.Duration(n) * unit, nil
}

// parseUnit maps a unit suffix to its duration.
func parseUnit(u string) (time.Duration, error) {
	switch u {
	case "m", "min", "mins", "minute", "minutes":
		return time.Minute, nil
	case "h", "hr", "hrs", "hour", "hours":
		return time.Hour, nil
	case "d", "day", "days":
		return 24 * time.Hour, nil
	default:
		return 0, errors.New("unknown unit")
	}
}

// ParseTime parses an ISO-8601 timestamp. A value without a zone is taken as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q is not an ISO-8601 timestamp", ErrInvalidRange, s)
}

// Format renders t in the API's UTC layout.
func Format(t time.Time) string {
	return t.UTC().Format(APILayout)
}
