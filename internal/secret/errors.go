package secret

import (
	"errors"
	"fmt"
)

// Sentinel errors for credential resolution.
var (
	// ErrBackendUnavailable means a configured backend failed (nonzero exit or empty output).
	// The resolver moves on to the next backend; it is never returned from Resolve.
	ErrBackendUnavailable = errors.New("secret backend unavailable")

	// ErrNoCredential means no configured backend produced a key.
	ErrNoCredential = errors.New(
		"API key not found. Configure a secret backend: SCOUT_OP_ENTRY_PATH (1Password), " +
			"SCOUT_BW_ITEM_ID (Bitwarden), or SCOUT_KPXC_DB+SCOUT_KPXC_ENTRY (KeePassXC). " +
			"Plain-text keys are not supported.")

	// ErrCredentialDestroyed is returned when a destroyed Credential is read.
	ErrCredentialDestroyed = errors.New("credential has been destroyed")
)

// unavailableError wraps ErrBackendUnavailable with the backend and a reason that
// never includes command output.
func unavailableError(source Source, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrBackendUnavailable, source.DisplayName(), reason)
}
