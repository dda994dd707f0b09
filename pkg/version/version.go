// Package version exposes the build version of the scout binary.
package version

import (
	"github.com/Masterminds/semver/v3"
)

// These are overridden at build time via -ldflags "-X".
//
//nolint:gochecknoglobals // Set by the linker.
var (
	version = "0.3.0"
	commit  = "none"
	date    = "unknown"
)

// GetVersion returns the semantic version without a leading "v".
// A version string that is not valid semver is returned unchanged.
func GetVersion() string {
	v, err := semver.NewVersion(version)
	if err != nil {
		return version
	}
	return v.String()
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string {
	return commit
}

// GetDate returns the build date.
func GetDate() string {
	return date
}

// UserAgent returns the User-Agent sent to the Scout API.
func UserAgent() string {
	return "scout-cli/" + GetVersion()
}
