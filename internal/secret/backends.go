package secret

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/rshade/scout/internal/config"
	"github.com/rshade/scout/internal/logging"
)

// Backend binaries.
const (
	binOnePassword = "op"
	binBitwarden   = "bw"
	binKeePassXC   = "keepassxc-cli"
)

// Backend is one external secret manager.
type Backend interface {
	// Source identifies the backend.
	Source() Source
	// Binary is the name of the CLI tool the backend shells out to.
	Binary() string
	// Configured reports whether every required variable is present. It never spawns a process.
	Configured(env config.Env) bool
	// TryResolve runs the lookup. A failure wraps ErrBackendUnavailable.
	TryResolve(ctx context.Context, env config.Env) (*Credential, error)
}

// DefaultBackends returns the backends in precedence order.
func DefaultBackends() []Backend {
	return []Backend{OnePassword{}, Bitwarden{}, KeePassXC{}}
}

// OnePassword reads the key with `op read`.
type OnePassword struct{}

// Source implements Backend.
func (OnePassword) Source() Source { return SourceOnePassword }

// Binary implements Backend.
func (OnePassword) Binary() string { return binOnePassword }

// Configured implements Backend.
func (OnePassword) Configured(env config.Env) bool {
	if env.OPField == "" {
		return false
	}
	return env.OPEntryPath != "" || (env.OPVault != "" && env.OPItem != "")
}

// Reference returns the op:// reference that will be read. SCOUT_OP_ENTRY_PATH wins
// over SCOUT_OP_VAULT and SCOUT_OP_ITEM.
func (OnePassword) Reference(env config.Env) string {
	if env.OPEntryPath != "" {
		return strings.TrimRight(env.OPEntryPath, "/") + "/" + env.OPField
	}
	return fmt.Sprintf("op://%s/%s/%s", env.OPVault, env.OPItem, env.OPField)
}

// TryResolve implements Backend.
func (b OnePassword) TryResolve(ctx context.Context, env config.Env) (*Credential, error) {
	return lookup(ctx, b.Source(), nil, binOnePassword, "read", b.Reference(env))
}

// Bitwarden reads the key with `bw get password`.
type Bitwarden struct{}

// Source implements Backend.
func (Bitwarden) Source() Source { return SourceBitwarden }

// Binary implements Backend.
func (Bitwarden) Binary() string { return binBitwarden }

// Configured implements Backend.
func (Bitwarden) Configured(env config.Env) bool {
	return env.BWItemID != ""
}

// TryResolve implements Backend. SCOUT_BW_SESSION is passed to bw as BW_SESSION.
func (b Bitwarden) TryResolve(ctx context.Context, env config.Env) (*Credential, error) {
	var extra []string
	if env.BWSession != "" {
		extra = append(extra, "BW_SESSION="+string(env.BWSession))
	}
	return lookup(ctx, b.Source(), extra, binBitwarden, "get", "password", env.BWItemID)
}

// KeePassXC reads the key with `keepassxc-cli show -a`.
type KeePassXC struct{}

// Source implements Backend.
func (KeePassXC) Source() Source { return SourceKeePassXC }

// Binary implements Backend.
func (KeePassXC) Binary() string { return binKeePassXC }

// Configured implements Backend.
func (KeePassXC) Configured(env config.Env) bool {
	return env.KPXCDB != "" && env.KPXCEntry != "" && env.KPXCAttribute != ""
}

// TryResolve implements Backend.
func (b KeePassXC) TryResolve(ctx context.Context, env config.Env) (*Credential, error) {
	return lookup(ctx, b.Source(), nil, binKeePassXC, "show", "-a", env.KPXCAttribute, env.KPXCDB, env.KPXCEntry)
}

// lookup runs one backend command and turns trimmed stdout into a Credential.
// stderr is logged at debug only, with anything that looks like the key redacted.
func lookup(ctx context.Context, source Source, env []string, name string, args ...string) (*Credential, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "secret").
		Str("operation", "lookup").
		Str("backend", string(source)).
		Str("command", name).
		Msg("querying secret backend")

	stdout, stderr, err := Runner.Run(ctx, env, name, args...)
	value := bytes.TrimSpace(stdout)
	defer wipe(stdout)

	if err != nil || len(value) == 0 {
		if len(stderr) > 0 {
			log.Debug().
				Ctx(ctx).
				Str("component", "secret").
				Str("backend", string(source)).
				Str("stderr", logging.Redact(strings.TrimSpace(string(stderr)), string(value))).
				Msg("secret backend diagnostics")
		}
		if err != nil {
			return nil, unavailableError(source, fmt.Sprintf("%s failed: %v", name, err))
		}
		return nil, unavailableError(source, name+" returned an empty value")
	}

	owned := make([]byte, len(value))
	copy(owned, value)
	return NewCredential(source, owned), nil
}

// wipe zeroes a buffer that held secret material.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
