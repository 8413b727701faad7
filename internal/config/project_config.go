package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/amrgaberM/codesense/internal/core"
)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParsing  = errors.New("config parsing failed")
)

// LoadProjectConfig loads and parses the .codesense.yml file from a directory.
// When the file does not exist the defaults are returned together with
// ErrConfigNotFound so callers can tell the two cases apart.
func LoadProjectConfig(dir string) (*core.ProjectConfig, error) {
	configPath := filepath.Join(dir, ".codesense.yml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return core.DefaultProjectConfig(), ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read .codesense.yml: %w", err)
	}

	config := core.DefaultProjectConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParsing, err)
	}
	if config.MaxFileBytes <= 0 {
		config.MaxFileBytes = core.DefaultProjectConfig().MaxFileBytes
	}
	return config, nil
}
