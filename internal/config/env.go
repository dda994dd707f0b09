package config

import (
	"strings"

	"github.com/rshade/scout/internal/logging"
)

// Environment variable names read by scout. Nothing else in the process reads SCOUT_* directly.
const (
	EnvOPEntryPath    = "SCOUT_OP_ENTRY_PATH"
	EnvOPVault        = "SCOUT_OP_VAULT"
	EnvOPItem         = "SCOUT_OP_ITEM"
	EnvOPField        = "SCOUT_OP_FIELD"
	EnvBWItemID       = "SCOUT_BW_ITEM_ID"
	EnvBWSession      = "SCOUT_BW_SESSION"
	EnvKPXCDB         = "SCOUT_KPXC_DB"
	EnvKPXCEntry      = "SCOUT_KPXC_ENTRY"
	EnvKPXCAttribute  = "SCOUT_KPXC_ATTRIBUTE"
	EnvAPIBase        = "SCOUT_API_BASE"
	EnvLogLevel       = "SCOUT_LOG_LEVEL"
	EnvConfig         = "SCOUT_CONFIG"
	envXDGConfigHome  = "XDG_CONFIG_HOME"
	envHome           = "HOME"
	defaultOPField    = "API_KEY"
	defaultKPXCAttrib = "Password"
)

// Env is an immutable snapshot of the environment taken once at startup.
// Empty (or whitespace-only) variables are treated as unset.
type Env struct {
	OPEntryPath string
	OPVault     string
	OPItem      string
	// OPField is the 1Password field name. Set explicitly to "" it disables the backend.
	OPField string

	BWItemID  string
	BWSession logging.Secret

	KPXCDB    string
	KPXCEntry string
	// KPXCAttribute is the KeePassXC attribute. Set explicitly to "" it disables the backend.
	KPXCAttribute string

	APIBase    string
	LogLevel   string
	ConfigPath string

	xdgConfigHome string
	home          string
}

// LoadEnv builds an Env using lookup (normally os.LookupEnv).
func LoadEnv(lookup func(string) (string, bool)) Env {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	withDefault := func(key, def string) string {
		v, ok := lookup(key)
		if !ok {
			return def
		}
		return strings.TrimSpace(v)
	}

	return Env{
		OPEntryPath:   get(EnvOPEntryPath),
		OPVault:       get(EnvOPVault),
		OPItem:        get(EnvOPItem),
		OPField:       withDefault(EnvOPField, defaultOPField),
		BWItemID:      get(EnvBWItemID),
		BWSession:     logging.Secret(get(EnvBWSession)),
		KPXCDB:        get(EnvKPXCDB),
		KPXCEntry:     get(EnvKPXCEntry),
		KPXCAttribute: withDefault(EnvKPXCAttribute, defaultKPXCAttrib),
		APIBase:       get(EnvAPIBase),
		LogLevel:      get(EnvLogLevel),
		ConfigPath:    get(EnvConfig),
		xdgConfigHome: get(envXDGConfigHome),
		home:          get(envHome),
	}
}

// MapEnv returns a lookup function over a fixed map. Useful in tests.
func MapEnv(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}
