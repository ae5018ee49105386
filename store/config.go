package store

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds store initialization parameters.
//
// Example JSON:
//
//	{"name": "demo", "observer": "slog"}
type Config struct {
	// Name identifies the store in events.
	Name string `json:"name"`

	// Observer names a registered observability.Observer ("noop", "slog",
	// "trace", or any name added with observability.RegisterObserver).
	Observer string `json:"observer"`
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		Name:     "default",
		Observer: "noop",
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Name != "" {
		c.Name = source.Name
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
