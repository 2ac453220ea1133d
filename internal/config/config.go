// Package config implements the recognized configuration keys, defaults,
// and yaml loading for a hakana.yaml file.
//
// The shape (LoadConfig/ParseConfig/FindConfig, validate-then-setDefaults,
// os.ReadFile + gopkg.in/yaml.v3.Unmarshal) is funxy's internal/ext
// Config/LoadConfig/ParseConfig/FindConfig.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GraphKind selects the data-flow graph's lifetime and purpose.
type GraphKind string

const (
	GraphFunctionBody   GraphKind = "function_body"
	GraphWholeProgram   GraphKind = "whole_program_query"
	GraphWholeProgramTaint GraphKind = "whole_program_taint"
)

// MigrationSymbol pairs a named migration with the symbol it rewrites
// references to, driving an auto-fix pass.
type MigrationSymbol struct {
	Name         string `yaml:"migration_name"`
	TargetSymbol string `yaml:"target_symbol"`
}

// SecurityConfig configures the taint traversal.
type SecurityConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// Config is the full set of recognized hakana.yaml keys.
type Config struct {
	Paths                  []string           `yaml:"paths"`
	IgnoreFiles            []string           `yaml:"ignore_files"`
	FindUnusedExpressions  bool               `yaml:"find_unused_expressions"`
	FindUnusedDefinitions  bool               `yaml:"find_unused_definitions"`
	GraphKind              GraphKind          `yaml:"graph_kind"`
	IssuesToFix            []string           `yaml:"issues_to_fix"`
	MigrationSymbols       []MigrationSymbol  `yaml:"migration_symbols"`
	Security               SecurityConfig     `yaml:"security_config"`
	Threads                int                `yaml:"threads"`
	AllowedIssues          []string           `yaml:"allowed_issues"`
}

// Default returns the configuration used when no hakana.yaml is found:
// scan the current directory, no auto-fix, function-body graphs only,
// one worker per CPU (resolved by the caller, since config itself does
// not import runtime), and a 40-level default taint traversal bound.
func Default() *Config {
	return &Config{
		Paths:     []string{"."},
		GraphKind: GraphFunctionBody,
		Security:  SecurityConfig{MaxDepth: 40},
	}
}

// LoadConfig reads and parses a hakana.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses hakana.yaml content from bytes. path is used only
// for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return cfg, nil
}

// FindConfig searches for hakana.yaml (or hakana.yml) starting from dir and
// walking up to parent directories. Returns "" with a nil error if none is
// found anywhere up to the filesystem root.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range []string{"hakana.yaml", "hakana.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) validate(path string) error {
	switch c.GraphKind {
	case "", GraphFunctionBody, GraphWholeProgram, GraphWholeProgramTaint:
	default:
		return fmt.Errorf("%s: graph_kind %q is not recognized", path, c.GraphKind)
	}
	if c.Security.MaxDepth < 0 {
		return fmt.Errorf("%s: security_config.max_depth must be non-negative", path)
	}
	for i, m := range c.MigrationSymbols {
		if m.Name == "" || m.TargetSymbol == "" {
			return fmt.Errorf("%s: migration_symbols[%d]: both migration_name and target_symbol are required", path, i)
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if len(c.Paths) == 0 {
		c.Paths = []string{"."}
	}
	if c.GraphKind == "" {
		c.GraphKind = GraphFunctionBody
	}
	if c.Security.MaxDepth == 0 {
		c.Security.MaxDepth = 40
	}
}

// ShouldFix reports whether kind is in the configured auto-fix set.
func (c *Config) ShouldFix(kind string) bool {
	for _, k := range c.IssuesToFix {
		if k == kind {
			return true
		}
	}
	return false
}

// IsAllowed reports whether kind should be emitted: true when AllowedIssues
// is empty (no filter configured) or kind appears in it.
func (c *Config) IsAllowed(kind string) bool {
	if len(c.AllowedIssues) == 0 {
		return true
	}
	for _, k := range c.AllowedIssues {
		if k == kind {
			return true
		}
	}
	return false
}
