package secret

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"

	"github.com/rshade/scout/internal/logging"
)

// ErrToolUnavailable means a backend's CLI tool could not be run or reported no version.
var ErrToolUnavailable = errors.New("secret backend tool unavailable")

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`) //nolint:gochecknoglobals // compiled once

// ToolVersion runs `<binary> --version` and parses the first version number it prints.
// It does not read any secret.
func ToolVersion(ctx context.Context, b Backend) (*semver.Version, error) {
	log := logging.FromContext(ctx)

	stdout, _, err := Runner.Run(ctx, nil, b.Binary(), "--version")
	if err != nil {
		log.Debug().
			Ctx(ctx).
			Str("component", "secret").
			Str("backend", string(b.Source())).
			Err(err).
			Msg("version check failed")
		return nil, fmt.Errorf("%w: %s: %v", ErrToolUnavailable, b.Binary(), err)
	}

	match := versionPattern.Find(stdout)
	if match == nil {
		return nil, fmt.Errorf("%w: %s printed no version", ErrToolUnavailable, b.Binary())
	}
	v, err := semver.NewVersion(string(match))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrToolUnavailable, b.Binary(), err)
	}
	return v, nil
}
