package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/derive/errors"
)

// EnvPrefix prefixes environment overrides: debug.bound is DERIVE_DEBUG_BOUND.
const EnvPrefix = "DERIVE"

// Load reads the configuration. With an empty path the nearest derive.toml
// above the working directory is used, if any. Environment variables
// override file values. The result is validated.
func Load(path string) (*Config, error) {
	if path == "" {
		path = findProjectConfig()
	}

	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	cfg.Source = path
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithHintf(err, "check %s", describeSource(path))
	}
	return cfg, nil
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path, without
// environment overrides.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "config from %s", configPath)
	}
	config.Source = configPath
	return config, nil
}

// newViper returns a Viper with defaults and environment binding.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// findProjectConfig searches for derive.toml by walking up the directory tree
// from the working directory. Returns "" if none is found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigFrom(dir)
}

func findConfigFrom(dir string) string {
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}

func describeSource(path string) string {
	if path == "" {
		return "the DERIVE_* environment variables"
	}
	return path + " and the DERIVE_* environment variables"
}
