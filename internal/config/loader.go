package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultCheckName is the check-run name used when neither the config
// file nor a flag names one.
const DefaultCheckName = "octocheck"

// DefaultTitle is the check-run output title used when none is set.
const DefaultTitle = "OctoCheck reporter"

// Load reads and parses an octocheck configuration from the given YAML
// file path, then applies defaults for unset fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault searches for a config in standard locations and loads the
// first one found. Search order: ./octocheck.yaml,
// ~/.config/octocheck/config.yaml. A missing config file is not an
// error: the tool runs on flags alone, so an empty config with defaults
// applied is returned instead.
func LoadDefault() (*Config, error) {
	candidates := []string{"octocheck.yaml"}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "octocheck", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	var cfg Config
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills check identity fields that the file leaves unset.
func applyDefaults(cfg *Config) {
	if cfg.Check.Name == "" {
		cfg.Check.Name = DefaultCheckName
	}
	if cfg.Check.Title == "" {
		cfg.Check.Title = DefaultTitle
	}
}
