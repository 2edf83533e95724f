// Package config loads the managed tool definitions. Configuration is
// layered: embedded defaults, then an optional aidots.toml in the
// install root, then AIDOTS_* environment variables.
package config

import (
	_ "embed"
	"errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	aerr "github.com/aidots/aidots/pkg/errors"
	"github.com/aidots/aidots/pkg/types"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "AIDOTS_"

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Config holds the managed tool set and session settings for one run
type Config struct {
	SessionsDir string                 `koanf:"sessions_dir"`
	Tools       []types.ToolDefinition `koanf:"tools"`
}

// Load builds the configuration from embedded defaults, the optional
// override file at overridePath, and AIDOTS_* environment variables.
// An empty overridePath or a missing file skips that layer.
func Load(overridePath string) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, aerr.Wrap(err, aerr.ErrConfigLoad, "failed to load default config")
	}

	// 2. Install-root override file, if present
	if overridePath != "" {
		if _, err := os.Stat(overridePath); err == nil {
			if err := k.Load(file.Provider(overridePath), toml.Parser()); err != nil {
				return nil, aerr.Wrapf(err, aerr.ErrConfigLoad, "failed to load config from %s", overridePath)
			}
		}
	}

	// 3. Environment variables. Keys are flat (sessions_dir), so the
	// underscore is kept as-is rather than mapped to the delimiter.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, aerr.Wrap(err, aerr.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
		},
	}); err != nil {
		return nil, aerr.Wrap(err, aerr.ErrConfigLoad, "failed to decode configuration")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Tool returns the definition with the given name
func (c *Config) Tool(name string) (types.ToolDefinition, bool) {
	for _, tool := range c.Tools {
		if tool.Name == name {
			return tool, true
		}
	}
	return types.ToolDefinition{}, false
}

// ToolNames returns the names of all configured tools, in order
func (c *Config) ToolNames() []string {
	names := make([]string, len(c.Tools))
	for i, tool := range c.Tools {
		names[i] = tool.Name
	}
	return names
}

func (c *Config) validate() error {
	if c.SessionsDir == "" {
		return aerr.New(aerr.ErrConfigValid, "sessions_dir must not be empty")
	}
	if len(c.Tools) == 0 {
		return aerr.New(aerr.ErrConfigValid, "no tools configured")
	}

	seen := make(map[string]bool, len(c.Tools))
	for _, tool := range c.Tools {
		if tool.Name == "" {
			return aerr.New(aerr.ErrConfigValid, "tool with empty name")
		}
		if seen[tool.Name] {
			return aerr.Newf(aerr.ErrConfigValid, "duplicate tool %q", tool.Name)
		}
		seen[tool.Name] = true

		if tool.Source == "" || tool.Target == "" {
			return aerr.Newf(aerr.ErrConfigValid, "tool %q must define source and target", tool.Name)
		}

		switch tool.Kind {
		case types.KindSymlink:
		case types.KindMergeFile:
			if tool.RefMarker == "" {
				return aerr.Newf(aerr.ErrConfigValid, "merge-file tool %q must define ref_marker", tool.Name)
			}
		default:
			return aerr.Newf(aerr.ErrConfigValid, "tool %q has unknown kind %q", tool.Name, tool.Kind)
		}
	}

	return nil
}
