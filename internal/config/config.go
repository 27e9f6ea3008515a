// Package config loads dotgraph's configuration: layer definitions,
// container names, the include-external/exclude-type-checking
// extraction flags, and cache directory overrides, from a standalone
// `dotgraph.toml` or a `[tool.dotgraph]` table embedded in
// `pyproject.toml`.
//
// Loading goes through github.com/spf13/viper, with
// github.com/pelletier/go-toml/v2 doing the low-level TOML decode that
// feeds viper, split between a standalone-file shape and a
// pyproject-embedded section, narrowed to the sections this tool
// actually has.
package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// LayerConfig is the TOML shape of one architecture Layer record.
type LayerConfig struct {
	Tails       []string `toml:"tails" mapstructure:"tails"`
	Independent bool     `toml:"independent" mapstructure:"independent"`
	Closed      bool     `toml:"closed" mapstructure:"closed"`
}

// Config is dotgraph's full configuration surface.
type Config struct {
	IncludeExternal     bool          `toml:"include_external" mapstructure:"include_external"`
	ExcludeTypeChecking bool          `toml:"exclude_type_checking" mapstructure:"exclude_type_checking"`
	NoCache             bool          `toml:"no_cache" mapstructure:"no_cache"`
	CacheDir            string        `toml:"cache_dir" mapstructure:"cache_dir"`
	IncludePatterns     []string      `toml:"include_patterns" mapstructure:"include_patterns"`
	ExcludePatterns     []string      `toml:"exclude_patterns" mapstructure:"exclude_patterns"`
	Containers          []string      `toml:"containers" mapstructure:"containers"`
	Layers              []LayerConfig `toml:"layers" mapstructure:"layers"`
}

// Default returns dotgraph's baked-in defaults.
func Default() *Config {
	return &Config{
		ExcludePatterns: []string{"**/tests/**", "test_*.py", "*_test.py", "**/__pycache__/**"},
		CacheDir:        "",
	}
}

// pyprojectShape mirrors the relevant slice of pyproject.toml: only the
// [tool.dotgraph] table matters here.
type pyprojectShape struct {
	Tool struct {
		Dotgraph Config `toml:"dotgraph"`
	} `toml:"tool"`
}

// Load resolves configuration for a build rooted at searchDir.
// explicitPath, if non-empty, names a specific config file (either a
// standalone dotgraph.toml or a pyproject.toml) and skips the upward
// search. Returns Default() unmodified if no config file is found.
func Load(explicitPath, searchDir string) (*Config, error) {
	path := explicitPath
	if path == "" {
		path = findConfigFile(searchDir)
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if filepath.Base(path) == "pyproject.toml" {
		var parsed pyprojectShape
		if err := toml.Unmarshal(data, &parsed); err != nil {
			return nil, err
		}
		if err := decodeViaViper(mustEncodeTOML(parsed.Tool.Dotgraph), cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if err := decodeViaViper(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeViaViper(data []byte, cfg *Config) error {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}

func mustEncodeTOML(c Config) []byte {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil
	}
	return data
}

func findConfigFile(startDir string) string {
	dir := startDir
	for {
		for _, name := range []string{"dotgraph.toml", "pyproject.toml"} {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				if name == "pyproject.toml" && !containsDotgraphTable(candidate) {
					continue
				}
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func containsDotgraphTable(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var parsed pyprojectShape
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return false
	}
	return len(parsed.Tool.Dotgraph.Layers) > 0 || len(parsed.Tool.Dotgraph.Containers) > 0 ||
		parsed.Tool.Dotgraph.CacheDir != "" || parsed.Tool.Dotgraph.IncludeExternal || parsed.Tool.Dotgraph.ExcludeTypeChecking ||
		len(parsed.Tool.Dotgraph.IncludePatterns) > 0 || len(parsed.Tool.Dotgraph.ExcludePatterns) > 0 || parsed.Tool.Dotgraph.NoCache
}
