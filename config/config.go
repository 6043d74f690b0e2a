// Package config loads the optional .headerstamp.yaml run configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lexandro/headerstamp/filter"
	"github.com/lexandro/headerstamp/ignore"
)

// FileName is the config file looked up in the root directory.
const FileName = ".headerstamp.yaml"

// Config represents headerstamp run options
type Config struct {
	// Filter is the comma list of extensions and group names
	Filter string `yaml:"filter"`

	// Version is stamped into @version lines
	Version string `yaml:"version"`

	// Author fills @author placeholders
	Author string `yaml:"author"`

	// Recursive descends into subdirectories
	Recursive bool `yaml:"recursive"`

	// IgnoreDirs and IgnoreFiles are base names added to the built-in exclusions
	IgnoreDirs  []string `yaml:"ignore_dirs"`
	IgnoreFiles []string `yaml:"ignore_files"`

	// Exclude holds doublestar globs matched against root-relative paths and base names
	Exclude []string `yaml:"exclude"`

	// Gitignore honors the root .gitignore
	Gitignore bool `yaml:"gitignore"`

	// Groups adds or replaces named extension groups usable in Filter
	Groups map[string][]string `yaml:"groups"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a Config with the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Filter:    filter.DefaultExpression,
		Recursive: true,
		LogLevel:  "info",
	}
}

// LoadConfig reads path over the defaults. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Pointers tell an absent key from an explicit zero value
	type yamlConfig struct {
		Filter      *string             `yaml:"filter"`
		Version     *string             `yaml:"version"`
		Author      *string             `yaml:"author"`
		Recursive   *bool               `yaml:"recursive"`
		IgnoreDirs  []string            `yaml:"ignore_dirs"`
		IgnoreFiles []string            `yaml:"ignore_files"`
		Exclude     []string            `yaml:"exclude"`
		Gitignore   *bool               `yaml:"gitignore"`
		Groups      map[string][]string `yaml:"groups"`
		LogLevel    *string             `yaml:"log_level"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.Filter != nil {
		cfg.Filter = *yamlCfg.Filter
	}
	if yamlCfg.Version != nil {
		cfg.Version = *yamlCfg.Version
	}
	if yamlCfg.Author != nil {
		cfg.Author = *yamlCfg.Author
	}
	if yamlCfg.Recursive != nil {
		cfg.Recursive = *yamlCfg.Recursive
	}
	if yamlCfg.Gitignore != nil {
		cfg.Gitignore = *yamlCfg.Gitignore
	}
	if yamlCfg.LogLevel != nil {
		cfg.LogLevel = *yamlCfg.LogLevel
	}
	cfg.IgnoreDirs = yamlCfg.IgnoreDirs
	cfg.IgnoreFiles = yamlCfg.IgnoreFiles
	cfg.Exclude = yamlCfg.Exclude
	cfg.Groups = yamlCfg.Groups

	return cfg, nil
}

// LoadConfigFromDir loads FileName from dir.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, FileName))
}

// MergeWithFlags overrides config values with command-line flags.
// A nil pointer means the flag was not set. Exclude patterns are appended.
func (c *Config) MergeWithFlags(filterExpr, version, author *string, recursive, gitignore *bool, exclude []string) {
	if filterExpr != nil {
		c.Filter = *filterExpr
	}
	if version != nil {
		c.Version = *version
	}
	if author != nil {
		c.Author = *author
	}
	if recursive != nil {
		c.Recursive = *recursive
	}
	if gitignore != nil {
		c.Gitignore = *gitignore
	}
	c.Exclude = append(c.Exclude, exclude...)
}

// Validate checks the configuration for malformed values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q: must be debug, info, warn or error", c.LogLevel)
	}

	for name, exts := range c.Groups {
		if name == "" || strings.HasPrefix(name, ".") {
			return fmt.Errorf("invalid group name %q", name)
		}
		for _, ext := range exts {
			if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
				return fmt.Errorf("group %q: extension %q must start with a dot", name, ext)
			}
		}
	}

	if err := ignore.ValidatePatterns(c.Exclude); err != nil {
		return err
	}
	return nil
}
