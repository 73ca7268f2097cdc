package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/contractor-dev/contractor/internal/domain"
)

const fileName = ".contractor.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .contractor.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .contractor.yaml from rootPath. Returns the default config
// when the file does not exist.
func (l *YAMLLoader) Load(rootPath string) (domain.ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(rootPath, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.ProjectConfig{}, err
	}

	cfg := domain.DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = domain.DefaultConfig().Extensions
	}
	if cfg.FailOn == "" {
		cfg.FailOn = domain.SeverityCritical
	}

	return cfg, nil
}
