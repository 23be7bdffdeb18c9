package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration the CLI commands read
type Config struct {
	Compendium CompendiumConfig `yaml:"compendium"`
	Redis      RedisConfig      `yaml:"redis"`
}

// CompendiumConfig points the client at the page source
type CompendiumConfig struct {
	BaseURL         string        `yaml:"baseUrl"`
	PreferredBookID string        `yaml:"preferredBookId"`
	HTTPTimeout     time.Duration `yaml:"httpTimeout"`
}

// RedisConfig selects the Redis-backed roster store when an endpoint is set;
// otherwise the roster stays in memory
type RedisConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	RosterTTL time.Duration `yaml:"rosterTtl"`
}

func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the --config flag
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
