package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines configuration for the texfetch CLI.
type Config struct {
	DestDir      string        `yaml:"dest_dir"`
	ManifestPath string        `yaml:"manifest"`
	BaseURL      string        `yaml:"base_url"`
	Workers      int           `yaml:"workers"`
	Timeout      time.Duration `yaml:"-"`
	Progress     bool          `yaml:"progress"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		DestDir: "textures",
		Workers: 10,
		Timeout: 10 * time.Second,
	}
}

// yamlConfig is used for YAML unmarshaling with a string timeout.
type yamlConfig struct {
	DestDir      string `yaml:"dest_dir"`
	ManifestPath string `yaml:"manifest"`
	BaseURL      string `yaml:"base_url"`
	Workers      int    `yaml:"workers"`
	Timeout      string `yaml:"timeout"`
	Progress     bool   `yaml:"progress"`
}

// LoadFromFile loads configuration from a YAML file, applying defaults for
// unset fields.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.DestDir != "" {
		cfg.DestDir = yc.DestDir
	}
	if yc.ManifestPath != "" {
		cfg.ManifestPath = yc.ManifestPath
	}
	if yc.BaseURL != "" {
		cfg.BaseURL = yc.BaseURL
	}
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	cfg.Progress = yc.Progress

	return cfg, nil
}

// LoadFromEnv overrides configuration from environment variables.
// Environment variables use the TEXFETCH_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("TEXFETCH_DEST_DIR"); v != "" {
		c.DestDir = v
	}
	if v := os.Getenv("TEXFETCH_MANIFEST"); v != "" {
		c.ManifestPath = v
	}
	if v := os.Getenv("TEXFETCH_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("TEXFETCH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse TEXFETCH_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("TEXFETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse TEXFETCH_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("TEXFETCH_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DestDir == "" {
		return errors.New("config: destination directory is required")
	}
	if c.Workers <= 0 {
		return errors.New("config: workers must be positive")
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.DestDir != "" {
		c.DestDir = override.DestDir
	}
	if override.ManifestPath != "" {
		c.ManifestPath = override.ManifestPath
	}
	if override.BaseURL != "" {
		c.BaseURL = override.BaseURL
	}
	if override.Workers != 0 {
		c.Workers = override.Workers
	}
	if override.Timeout != 0 {
		c.Timeout = override.Timeout
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	return c
}
