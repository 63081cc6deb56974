package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	dc "room-stats/domain/config"

	"gopkg.in/yaml.v3"
)

// Config is the parsed config.yml.
type Config = dc.Config

// Load parses the YAML configuration file at path on top of the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := dc.Defaults()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	slog.Info(fmt.Sprintf("Loaded config: %s", path))
	return &c, nil
}

// Path returns CONFIG_PATH or ./config.yml.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "./config.yml"
}

// Resolve loads the config at Path. A missing file yields the defaults.
func Resolve() (*Config, error) {
	path := Path()
	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("config.default", "path", path)
		d := dc.Defaults()
		return &d, nil
	}
	return c, err
}
