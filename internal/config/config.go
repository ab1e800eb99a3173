// Package config loads docaudit configuration from YAML.
package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the scan root.
const FileName = "docaudit.yaml"

// Config holds all configuration for docaudit.
type Config struct {
	Scan     ScanConfig     `yaml:"scan"`
	Generate GenerateConfig `yaml:"generate"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ScanConfig controls file discovery.
type ScanConfig struct {
	Recursive    bool     `yaml:"recursive"`
	SkipDirs     []string `yaml:"skip_dirs"` // nil means the built-in skip list
	Excludes     []string `yaml:"excludes"`  // doublestar patterns
	UseGitignore bool     `yaml:"use_gitignore"`
	// IncludeNested keeps nested def/class bodies in the complexity,
	// nesting, and raises walks (the historical heuristic).
	IncludeNested bool `yaml:"include_nested"`
}

// GenerateConfig controls docstring suggestion generation.
type GenerateConfig struct {
	Style  string `yaml:"style"` // "google", "numpy", or "rest"
	DBPath string `yaml:"db_path"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Recursive:     true,
			UseGitignore:  false,
			IncludeNested: true,
		},
		Generate: GenerateConfig{
			Style:  "google",
			DBPath: filepath.Join(".docaudit", "session.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file, returning defaults when the
// file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}

// LoadFromDir loads docaudit.yaml from dir, or defaults if absent.
func LoadFromDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, FileName))
}
