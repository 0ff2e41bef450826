package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Default scoring and batch settings
const (
	// DefaultPrecision is the number of decimal digits kept in a score
	DefaultPrecision = 3

	// DefaultThreshold is the score at or above which a pair is flagged
	DefaultThreshold = 0.8

	// DefaultWorkers of 0 means one worker per CPU
	DefaultWorkers = 0

	// DefaultPairTimeoutSeconds of 0 disables the per-pair timeout
	DefaultPairTimeoutSeconds = 0

	// DefaultOnError aborts a batch at the first failing pair
	DefaultOnError = "abort"

	// DefaultOutputFormat is the plain one-score-per-line format
	DefaultOutputFormat = "text"
)

// Config represents the main configuration structure
type Config struct {
	// Scoring holds score rounding and flagging configuration
	Scoring ScoringConfig `mapstructure:"scoring" yaml:"scoring" toml:"scoring"`

	// Batch holds batch execution configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" toml:"batch"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" toml:"output"`
}

// ScoringConfig holds configuration for similarity scoring
type ScoringConfig struct {
	// Precision is the number of decimal digits kept in a score
	Precision int `mapstructure:"precision" yaml:"precision" toml:"precision"`

	// Threshold flags pairs scoring at or above it
	Threshold float64 `mapstructure:"threshold" yaml:"threshold" toml:"threshold"`

	// MinScore hides pairs below it in cross comparison reports
	MinScore float64 `mapstructure:"min_score" yaml:"min_score" toml:"min_score"`
}

// BatchConfig holds configuration for batch execution
type BatchConfig struct {
	// Workers bounds concurrent pair scoring; 0 uses GOMAXPROCS
	Workers int `mapstructure:"workers" yaml:"workers" toml:"workers"`

	// PairTimeoutSeconds bounds one pair comparison; 0 disables it
	PairTimeoutSeconds int `mapstructure:"pair_timeout_seconds" yaml:"pair_timeout_seconds" toml:"pair_timeout_seconds"`

	// OnError is "abort" or "sentinel"
	OnError string `mapstructure:"on_error" yaml:"on_error" toml:"on_error"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format is one of text, json, yaml, csv, html
	Format string `mapstructure:"format" yaml:"format" toml:"format"`

	// ShowProgress shows a progress bar on interactive terminals
	ShowProgress bool `mapstructure:"show_progress" yaml:"show_progress" toml:"show_progress"`

	// SQLitePath persists every run to a SQLite database when set
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path" toml:"sqlite_path"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			Precision: DefaultPrecision,
			Threshold: DefaultThreshold,
		},
		Batch: BatchConfig{
			Workers:            DefaultWorkers,
			PairTimeoutSeconds: DefaultPairTimeoutSeconds,
			OnError:            DefaultOnError,
		},
		Output: OutputConfig{
			Format:       DefaultOutputFormat,
			ShowProgress: true,
		},
	}
}

// LoadConfigFile loads configuration from an explicit file of any format
// viper understands (toml, yaml, json). Missing keys keep their defaults.
func LoadConfigFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetConfigFile(configPath)
	if isPyprojectFile(configPath) {
		v.SetConfigType("toml")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isPyprojectFile(configPath) {
		sub := v.Sub("tool.pyplag")
		if sub == nil {
			return DefaultConfig(), nil
		}
		setDefaults(sub, DefaultConfig())
		v = sub
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults registers defaults so Unmarshal fills keys missing from file
func setDefaults(v *viper.Viper, defaults *Config) {
	v.SetDefault("scoring.precision", defaults.Scoring.Precision)
	v.SetDefault("scoring.threshold", defaults.Scoring.Threshold)
	v.SetDefault("scoring.min_score", defaults.Scoring.MinScore)
	v.SetDefault("batch.workers", defaults.Batch.Workers)
	v.SetDefault("batch.pair_timeout_seconds", defaults.Batch.PairTimeoutSeconds)
	v.SetDefault("batch.on_error", defaults.Batch.OnError)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.show_progress", defaults.Output.ShowProgress)
	v.SetDefault("output.sqlite_path", defaults.Output.SQLitePath)
}

func isPyprojectFile(path string) bool {
	return filepath.Base(path) == "pyproject.toml"
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Scoring.Precision < 1 || c.Scoring.Precision > 10 {
		return fmt.Errorf("scoring.precision must be between 1 and 10, got %d", c.Scoring.Precision)
	}

	if c.Scoring.Threshold < 0.0 || c.Scoring.Threshold > 1.0 {
		return fmt.Errorf("scoring.threshold must be between 0.0 and 1.0, got %v", c.Scoring.Threshold)
	}

	if c.Scoring.MinScore < 0.0 || c.Scoring.MinScore > 1.0 {
		return fmt.Errorf("scoring.min_score must be between 0.0 and 1.0, got %v", c.Scoring.MinScore)
	}

	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must be >= 0, got %d", c.Batch.Workers)
	}

	if c.Batch.PairTimeoutSeconds < 0 {
		return fmt.Errorf("batch.pair_timeout_seconds must be >= 0, got %d", c.Batch.PairTimeoutSeconds)
	}

	switch strings.ToLower(c.Batch.OnError) {
	case "abort", "sentinel":
	default:
		return fmt.Errorf("batch.on_error must be abort or sentinel, got %q", c.Batch.OnError)
	}

	switch c.Output.Format {
	case "text", "json", "yaml", "csv", "html":
	default:
		return fmt.Errorf("output.format must be one of text, json, yaml, csv, html, got %q", c.Output.Format)
	}

	return nil
}
