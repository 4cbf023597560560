package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all diseasemcp configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Disease catalog (JSON array of names)
	Catalog CatalogConfig `yaml:"catalog"`

	// Submission storage
	Data DataConfig `yaml:"data"`

	// Instructions served by get_instructions
	Instructions InstructionsConfig `yaml:"instructions"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// CatalogConfig locates the disease catalog.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// DataConfig configures where submissions are written and how ids are allocated.
type DataConfig struct {
	Dir string `yaml:"dir"`

	// Allocator is "scan" (derive the next id from existing files) or
	// "sequence" (SQLite-backed counter, safe across processes).
	Allocator string `yaml:"allocator"`

	// SequenceDB is the SQLite file used by the sequence allocator.
	// Empty means <dir>/.sequence.db.
	SequenceDB string `yaml:"sequence_db"`
}

// InstructionsConfig locates the instructions document.
type InstructionsConfig struct {
	Path string `yaml:"path"`
}

// Allocator names.
const (
	AllocatorScan     = "scan"
	AllocatorSequence = "sequence"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "disease-description-server",
		Version: "1.0.0",

		Catalog: CatalogConfig{
			Path: filepath.Join("catalog", "diseases.json"),
		},

		Data: DataConfig{
			Dir:       "data",
			Allocator: AllocatorScan,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults (plus environment overrides).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
			// Defaults
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("DISEASEMCP_CATALOG"); path != "" {
		c.Catalog.Path = path
	}
	if dir := os.Getenv("DISEASEMCP_DATA_DIR"); dir != "" {
		c.Data.Dir = dir
	}
	if alloc := os.Getenv("DISEASEMCP_ALLOCATOR"); alloc != "" {
		c.Data.Allocator = alloc
	}
	if path := os.Getenv("DISEASEMCP_INSTRUCTIONS"); path != "" {
		c.Instructions.Path = path
	}
	if level := os.Getenv("DISEASEMCP_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// SequenceDBPath returns the sequence database path, defaulting into the data dir.
func (c *Config) SequenceDBPath() string {
	if c.Data.SequenceDB != "" {
		return c.Data.SequenceDB
	}
	return filepath.Join(c.Data.Dir, ".sequence.db")
}

// ValidAllocators lists the supported id allocators.
var ValidAllocators = []string{AllocatorScan, AllocatorSequence}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog path not configured (set catalog.path or DISEASEMCP_CATALOG)")
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data directory not configured (set data.dir or DISEASEMCP_DATA_DIR)")
	}

	validAllocator := false
	for _, a := range ValidAllocators {
		if c.Data.Allocator == a {
			validAllocator = true
			break
		}
	}
	if !validAllocator {
		return fmt.Errorf("invalid allocator: %s (valid: %v)", c.Data.Allocator, ValidAllocators)
	}

	return c.Logging.Validate()
}
