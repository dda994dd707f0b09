package secret

import (
	"context"
	"errors"

	"github.com/rshade/scout/internal/config"
	"github.com/rshade/scout/internal/logging"
)

// Resolver walks an ordered list of backends.
type Resolver struct {
	Backends []Backend
}

// NewResolver returns a Resolver over DefaultBackends.
func NewResolver() *Resolver {
	return &Resolver{Backends: DefaultBackends()}
}

// Resolve returns the credential from the first configured backend that succeeds.
// Unconfigured backends are skipped without spawning anything. Later backends are
// never consulted once one succeeds. When nothing succeeds the error is ErrNoCredential.
//
// No timeout is applied here; a backend that hangs blocks until ctx is cancelled.
func (r *Resolver) Resolve(ctx context.Context, env config.Env) (*Credential, error) {
	log := logging.FromContext(ctx)

	for _, b := range r.Backends {
		if !b.Configured(env) {
			continue
		}

		cred, err := b.TryResolve(ctx, env)
		if err == nil {
			log.Debug().
				Ctx(ctx).
				Str("component", "secret").
				Str("backend", string(b.Source())).
				Msg("credential resolved")
			return cred, nil
		}
		if !errors.Is(err, ErrBackendUnavailable) {
			return nil, err
		}
		log.Debug().
			Ctx(ctx).
			Str("component", "secret").
			Str("backend", string(b.Source())).
			Err(err).
			Msg("backend unavailable, trying next")
	}

	return nil, ErrNoCredential
}

// Status describes a backend without querying it.
type Status struct {
	Source     Source `json:"source"`
	Name       string `json:"name"`
	Binary     string `json:"binary"`
	Configured bool   `json:"configured"`
	// Active is true for the first configured backend, the one Resolve tries first.
	Active bool `json:"active"`
}

// Describe reports which backends are configured. It never spawns a process.
func (r *Resolver) Describe(env config.Env) []Status {
	out := make([]Status, 0, len(r.Backends))
	activeSeen := false
	for _, b := range r.Backends {
		st := Status{
			Source:     b.Source(),
			Name:       b.Source().DisplayName(),
			Binary:     b.Binary(),
			Configured: b.Configured(env),
		}
		if st.Configured && !activeSeen {
			st.Active = true
			activeSeen = true
		}
		out = append(out, st)
	}
	return out
}
