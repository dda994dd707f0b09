package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/scout/internal/logging"
)

// Defaults.
const (
	DefaultAPIBase = "https://scoutapm.com/api/v0"
	DefaultTimeout = 15 * time.Second
	DefaultOutput  = "plain"
	configDirName  = "scout"
	configFileName = "config.yaml"
)

// ErrPlaintextKey is returned when a config file tries to carry an API key.
var ErrPlaintextKey = errors.New("config files may not contain API keys; configure a secret backend instead")

// plaintextKeyFields are rejected outright in the config file.
//
//nolint:gochecknoglobals // Lookup table.
var plaintextKeyFields = []string{"api_key", "apikey", "key", "token", "scout_key"}

// Config holds the non-secret settings that can come from the config file.
type Config struct {
	APIBase string        `yaml:"api_base"`
	Timeout time.Duration `yaml:"timeout"`
	Output  string        `yaml:"output"`
	UTC     bool          `yaml:"utc"`
	Log     LogConfig     `yaml:"log"`
}

// LogConfig is the log section of the config file.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		APIBase: DefaultAPIBase,
		Timeout: DefaultTimeout,
		Output:  DefaultOutput,
		Log: LogConfig{
			Level:  logging.DefaultLevel.String(),
			Format: logging.FormatConsole,
		},
	}
}

// ToLoggingConfig converts the log section into a logging.Config.
func (c *Config) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
	}
}

// Path returns the config file location: explicit, then SCOUT_CONFIG, then
// $XDG_CONFIG_HOME/scout/config.yaml, then ~/.config/scout/config.yaml.
// Returns "" when no location can be determined.
func Path(explicit string, env Env) string {
	switch {
	case explicit != "":
		return explicit
	case env.ConfigPath != "":
		return env.ConfigPath
	case env.xdgConfigHome != "":
		return filepath.Join(env.xdgConfigHome, configDirName, configFileName)
	case env.home != "":
		return filepath.Join(env.home, ".config", configDirName, configFileName)
	default:
		return ""
	}
}

// Decode reads YAML from r on top of cfg. Unknown fields are errors.
func Decode(cfg *Config, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	var raw map[string]any
	if err = yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing config YAML: %w", err)
	}
	for key := range raw {
		for _, banned := range plaintextKeyFields {
			if strings.EqualFold(key, banned) {
				return fmt.Errorf("%w (found %q)", ErrPlaintextKey, key)
			}
		}
	}
	if len(raw) == 0 {
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(cfg); err != nil {
		return fmt.Errorf("parsing config YAML: %w", err)
	}
	return cfg.Validate()
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	switch strings.ToLower(c.Output) {
	case "plain", "text", "p", "json", "j":
	default:
		return fmt.Errorf("unknown output format %q", c.Output)
	}
	if c.APIBase == "" {
		return errors.New("api_base cannot be empty")
	}
	return nil
}

// Load builds the effective Config: defaults, then the config file, then environment.
//
// A missing or unreadable file at the default location is not an error. A file
// at an explicitly requested path that cannot be opened is. A file that fails to parse is reported as a
// warning and defaults are used, except for ErrPlaintextKey which is returned.
func Load(ctx context.Context, explicitPath string, env Env) (*Config, error) {
	logger := logging.FromContext(ctx)
	cfg := New()

	path := Path(explicitPath, env)
	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			fileCfg := New()
			decodeErr := Decode(fileCfg, f)
			_ = f.Close()
			switch {
			case errors.Is(decodeErr, ErrPlaintextKey):
				return nil, fmt.Errorf("%s: %w", path, decodeErr)
			case decodeErr != nil:
				logger.Warn().
					Str("component", "config").
					Str("operation", "load_config").
					Err(decodeErr).
					Str("path", path).
					Msg("failed to load config file, using defaults")
			default:
				cfg = fileCfg
			}
		case explicitPath != "":
			return nil, fmt.Errorf("opening config %s: %w", path, err)
		case errors.Is(err, os.ErrNotExist):
			logger.Debug().Str("component", "config").Str("path", path).Msg("no config file")
		default:
			logger.Warn().
				Str("component", "config").
				Str("operation", "load_config").
				Err(err).
				Str("path", path).
				Msg("cannot open config file, using defaults")
		}
	}

	if env.APIBase != "" {
		cfg.APIBase = env.APIBase
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	return cfg, nil
}
