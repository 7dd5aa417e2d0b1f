package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configRelPath is where a project keeps its proplens configuration,
// relative to the directory the command runs in.
const configRelPath = ".proplens/config.yaml"

// Config is the on-disk project configuration. Command-line flags override
// it; it overrides built-in defaults.
type Config struct {
	Version   int    `yaml:"version"`
	Workspace string `yaml:"workspace"`
	LogFile   string `yaml:"log_file"`
	LogLevel  string `yaml:"log_level"`
}

// loadConfig reads the project config under dir. A missing file is not an
// error; defaults apply.
func loadConfig(dir string) (*Config, error) {
	cfg := &Config{Version: 1}

	path := filepath.Join(dir, configRelPath)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// firstNonEmpty returns the first non-empty value, for flag > config >
// default precedence chains.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
