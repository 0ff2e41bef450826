package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// PyprojectToml represents the structure of pyproject.toml
type PyprojectToml struct {
	Tool ToolConfig `toml:"tool"`
}

// ToolConfig represents the [tool] section
type ToolConfig struct {
	Pyplag *PyplagTomlConfig `toml:"pyplag"`
}

// LoadPyprojectConfig loads configuration from the nearest pyproject.toml.
// Defaults are returned when there is none or it has no [tool.pyplag].
func LoadPyprojectConfig(startDir string) (*Config, error) {
	configPath, err := findPyprojectToml(startDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	config, _, err := loadPyprojectConfig(configPath)
	return config, err
}

// loadPyprojectConfig parses configPath and reports whether it carries a
// [tool.pyplag] table
func loadPyprojectConfig(configPath string) (*Config, bool, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, false, err
	}

	var pyproject PyprojectToml
	if err := toml.Unmarshal(data, &pyproject); err != nil {
		return nil, false, err
	}

	config := DefaultConfig()
	if pyproject.Tool.Pyplag == nil {
		return config, false, nil
	}

	mergeTomlConfig(config, pyproject.Tool.Pyplag)
	if err := config.Validate(); err != nil {
		return nil, true, err
	}
	return config, true, nil
}

// findPyprojectToml walks up the directory tree to find pyproject.toml
func findPyprojectToml(startDir string) (string, error) {
	return findUpwards(startDir, "pyproject.toml")
}
