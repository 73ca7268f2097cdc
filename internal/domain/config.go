package domain

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// ProjectConfig is the user-facing configuration loaded from .contractor.yaml.
type ProjectConfig struct {
	// Extensions lists the file extensions to scan. Defaults to the
	// TypeScript family.
	Extensions []string `yaml:"extensions" json:"extensions,omitempty"`

	// ExcludePatterns are doublestar globs matched against paths relative
	// to the project root. Matching files and directories are skipped in
	// addition to the built-in ignore set.
	ExcludePatterns []string `yaml:"exclude" json:"exclude,omitempty"`

	// MinCompliance is the compliance floor for CI mode (0 disables).
	MinCompliance float64 `yaml:"min_compliance" json:"min_compliance,omitempty"`

	// FailOn escalates the CI gate: "critical" (default) or "high".
	FailOn string `yaml:"fail_on" json:"fail_on,omitempty"`
}

// DefaultConfig returns the configuration used when no .contractor.yaml exists.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		Extensions: []string{".ts", ".tsx", ".mts", ".cts"},
		FailOn:     SeverityCritical,
	}
}

// Validate catches malformed user input before the pipeline runs.
func (c ProjectConfig) Validate() error {
	for _, ext := range c.Extensions {
		if len(ext) < 2 || ext[0] != '.' {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	for _, pattern := range c.ExcludePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	if c.MinCompliance < 0 || c.MinCompliance > 100 {
		return fmt.Errorf("min_compliance %v out of range 0-100", c.MinCompliance)
	}
	switch c.FailOn {
	case "", SeverityCritical, SeverityHigh:
	default:
		return fmt.Errorf("fail_on must be %q or %q, got %q", SeverityCritical, SeverityHigh, c.FailOn)
	}
	return nil
}

// MatchesExtension reports whether path has one of the configured extensions.
func (c ProjectConfig) MatchesExtension(path string) bool {
	for _, ext := range c.Extensions {
		if len(path) > len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsExcluded reports whether relPath matches any exclude pattern.
func (c ProjectConfig) IsExcluded(relPath string) bool {
	for _, pattern := range c.ExcludePatterns {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}
