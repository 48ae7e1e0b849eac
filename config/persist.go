package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/derive/errors"
)

// Marshal renders cfg as TOML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config")
	}
	return data, nil
}

// Write saves cfg to path. An existing file is only replaced when force is
// set.
func Write(path string, cfg *Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.WithHint(
				errors.Newf("%s already exists", path),
				"use --force to overwrite it")
		}
	}
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
