package output

import (
	"errors"
	"fmt"
	"strings"
)

// Format selects how results are written.
type Format string

// Supported formats.
const (
	FormatPlain Format = "plain"
	FormatJSON  Format = "json"
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat accepts plain, text, p, json and j, case-insensitively.
// The empty string is FormatPlain.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain", "text", "p":
		return FormatPlain, nil
	case "json", "j":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
	}
}

func (f Format) String() string {
	return string(f)
}
