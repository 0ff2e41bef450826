package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the dedicated configuration file
const ConfigFileName = ".pyplag.toml"

// PyplagTomlConfig represents the structure of .pyplag.toml and of the
// [tool.pyplag] table of pyproject.toml. Pointers detect unset keys.
type PyplagTomlConfig struct {
	Scoring PyplagTomlScoringConfig `toml:"scoring"`
	Batch   PyplagTomlBatchConfig   `toml:"batch"`
	Output  PyplagTomlOutputConfig  `toml:"output"`
}

type PyplagTomlScoringConfig struct {
	Precision *int     `toml:"precision"`
	Threshold *float64 `toml:"threshold"`
	MinScore  *float64 `toml:"min_score"`
}

type PyplagTomlBatchConfig struct {
	Workers            *int   `toml:"workers"`
	PairTimeoutSeconds *int   `toml:"pair_timeout_seconds"`
	OnError            string `toml:"on_error"`
}

type PyplagTomlOutputConfig struct {
	Format       string `toml:"format"`
	ShowProgress *bool  `toml:"show_progress"`
	SQLitePath   string `toml:"sqlite_path"`
}

// TomlConfigLoader handles TOML-only configuration loading
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads configuration from TOML files with ruff-like priority:
// 1. .pyplag.toml (dedicated config file)
// 2. pyproject.toml (with [tool.pyplag] section)
// 3. defaults
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, error) {
	config, _, err := l.LoadConfigWithSource(startDir)
	return config, err
}

// LoadConfigWithSource is LoadConfig that also returns the file the
// configuration came from ("" for defaults)
func (l *TomlConfigLoader) LoadConfigWithSource(startDir string) (*Config, string, error) {
	if configPath, err := l.findPyplagToml(startDir); err == nil {
		config, err := l.loadFromPyplagToml(configPath)
		if err != nil {
			return nil, configPath, err
		}
		return config, configPath, nil
	}

	if configPath, err := findPyprojectToml(startDir); err == nil {
		config, found, err := loadPyprojectConfig(configPath)
		if err != nil {
			return nil, configPath, err
		}
		if found {
			return config, configPath, nil
		}
	}

	return DefaultConfig(), "", nil
}

// loadFromPyplagToml loads config from .pyplag.toml
func (l *TomlConfigLoader) loadFromPyplagToml(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var tomlConfig PyplagTomlConfig
	if err := toml.Unmarshal(data, &tomlConfig); err != nil {
		return nil, err
	}

	defaults := DefaultConfig()
	mergeTomlConfig(defaults, &tomlConfig)

	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	return defaults, nil
}

// findPyplagToml walks up the directory tree to find .pyplag.toml
func (l *TomlConfigLoader) findPyplagToml(startDir string) (string, error) {
	return findUpwards(startDir, ConfigFileName)
}

// findUpwards walks up from startDir looking for name
func findUpwards(startDir, name string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		dir = startDir
	}
	for {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}

// mergeTomlConfig merges set TOML values into defaults
func mergeTomlConfig(defaults *Config, tomlConfig *PyplagTomlConfig) {
	scoring := tomlConfig.Scoring
	if scoring.Precision != nil {
		defaults.Scoring.Precision = *scoring.Precision
	}
	if scoring.Threshold != nil {
		defaults.Scoring.Threshold = *scoring.Threshold
	}
	if scoring.MinScore != nil {
		defaults.Scoring.MinScore = *scoring.MinScore
	}

	batch := tomlConfig.Batch
	if batch.Workers != nil {
		defaults.Batch.Workers = *batch.Workers
	}
	if batch.PairTimeoutSeconds != nil {
		defaults.Batch.PairTimeoutSeconds = *batch.PairTimeoutSeconds
	}
	if batch.OnError != "" {
		defaults.Batch.OnError = batch.OnError
	}

	output := tomlConfig.Output
	if output.Format != "" {
		defaults.Output.Format = output.Format
	}
	if output.ShowProgress != nil {
		defaults.Output.ShowProgress = *output.ShowProgress
	}
	if output.SQLitePath != "" {
		defaults.Output.SQLitePath = output.SQLitePath
	}
}
