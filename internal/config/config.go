package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path of the example daemon configuration.
const DefaultConfigPath = "config/geoidd.example.json"

// Config is the configuration of the geoid tools. Fields left out of the
// JSON file fall back to the defaults of the Get* methods.
type Config struct {
	Listen   *string `json:"listen,omitempty"`
	ModelDir *string `json:"model_dir,omitempty"`

	// Models are loaded in order; earlier models take precedence where
	// their domains overlap.
	Models       []string `json:"models,omitempty"`
	DefaultModel *string  `json:"default_model,omitempty"`

	ReadTimeout     *string `json:"read_timeout,omitempty"`     // duration string like "10s"
	ShutdownTimeout *string `json:"shutdown_timeout,omitempty"` // duration string like "5s"

	MaxBatch *int  `json:"max_batch,omitempty"`
	Debug    *bool `json:"debug,omitempty"`
}

// EmptyConfig returns a Config with all fields unset.
func EmptyConfig() *Config {
	return &Config{}
}

// LoadConfig loads a Config from a JSON file.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.MaxBatch != nil && *c.MaxBatch <= 0 {
		return fmt.Errorf("max_batch must be positive, got %d", *c.MaxBatch)
	}

	for name, value := range map[string]*string{
		"read_timeout":     c.ReadTimeout,
		"shutdown_timeout": c.ShutdownTimeout,
	} {
		if value == nil || *value == "" {
			continue
		}
		d, err := time.ParseDuration(*value)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", name, *value, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, d)
		}
	}

	seen := make(map[string]bool, len(c.Models))
	for _, m := range c.Models {
		if m == "" {
			return fmt.Errorf("models must not contain empty names")
		}
		if seen[m] {
			return fmt.Errorf("model %q listed twice", m)
		}
		seen[m] = true
	}

	if c.DefaultModel != nil && *c.DefaultModel != "" && len(c.Models) > 0 && !seen[*c.DefaultModel] {
		return fmt.Errorf("default_model %q is not one of the configured models", *c.DefaultModel)
	}

	return nil
}

// GetListen returns the listen address or the default.
func (c *Config) GetListen() string {
	if c.Listen == nil || *c.Listen == "" {
		return ":8080" // default
	}
	return *c.Listen
}

// GetModelDir returns the model directory or the default.
func (c *Config) GetModelDir() string {
	if c.ModelDir == nil || *c.ModelDir == "" {
		return "." // default
	}
	return *c.ModelDir
}

// GetModels returns the configured models or the default.
func (c *Config) GetModels() []string {
	if len(c.Models) == 0 {
		return []string{"GSIGEO2011"} // default
	}
	return c.Models
}

// GetDefaultModel returns the model used when a request names none. An
// empty result means every loaded model is consulted by priority.
func (c *Config) GetDefaultModel() string {
	if c.DefaultModel == nil {
		return ""
	}
	return *c.DefaultModel
}

// GetReadTimeout parses and returns ReadTimeout as a time.Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return parseDurationOr(c.ReadTimeout, 10*time.Second)
}

// GetShutdownTimeout parses and returns ShutdownTimeout as a time.Duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	return parseDurationOr(c.ShutdownTimeout, 5*time.Second)
}

// GetMaxBatch returns the largest accepted batch query or the default.
func (c *Config) GetMaxBatch() int {
	if c.MaxBatch == nil {
		return 10000 // default
	}
	return *c.MaxBatch
}

// GetDebug returns the debug flag or the default.
func (c *Config) GetDebug() bool {
	if c.Debug == nil {
		return false
	}
	return *c.Debug
}

func parseDurationOr(value *string, def time.Duration) time.Duration {
	if value == nil || *value == "" {
		return def
	}
	d, err := time.ParseDuration(*value)
	if err != nil {
		return def // default on parse error
	}
	return d
}
