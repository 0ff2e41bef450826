package service

import (
	"os"
	"strings"
	"time"

	"github.com/ludo-technologies/pyplag/domain"
	"github.com/ludo-technologies/pyplag/internal/config"
)

// PlagiarismConfigurationLoaderImpl turns configuration files into batch
// requests
type PlagiarismConfigurationLoaderImpl struct {
	startDir string
}

// NewPlagiarismConfigurationLoader creates a loader that discovers
// configuration from the working directory
func NewPlagiarismConfigurationLoader() *PlagiarismConfigurationLoaderImpl {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	return &PlagiarismConfigurationLoaderImpl{startDir: dir}
}

// NewPlagiarismConfigurationLoaderFrom creates a loader that discovers
// configuration from startDir
func NewPlagiarismConfigurationLoaderFrom(startDir string) *PlagiarismConfigurationLoaderImpl {
	return &PlagiarismConfigurationLoaderImpl{startDir: startDir}
}

// LoadConfig loads an explicit file when path is set, and otherwise
// discovers .pyplag.toml or pyproject.toml upwards from the start directory
func (l *PlagiarismConfigurationLoaderImpl) LoadConfig(path string) (*domain.PlagiarismRequest, error) {
	cfg, err := l.loadConfig(path)
	if err != nil {
		return nil, err
	}
	return ConfigToRequest(cfg), nil
}

// LoadConfigWithFlags loads configuration and applies explicitly set flags
func (l *PlagiarismConfigurationLoaderImpl) LoadConfigWithFlags(path string, tracker *config.FlagTracker, overrides config.Overrides) (*domain.PlagiarismRequest, error) {
	cfg, err := l.loadConfig(path)
	if err != nil {
		return nil, err
	}

	merged := tracker.Apply(cfg, overrides)
	if err := merged.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid command line option", err)
	}
	return ConfigToRequest(merged), nil
}

// LoadDefaultConfig returns built-in defaults
func (l *PlagiarismConfigurationLoaderImpl) LoadDefaultConfig() *domain.PlagiarismRequest {
	return ConfigToRequest(config.DefaultConfig())
}

func (l *PlagiarismConfigurationLoaderImpl) loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, domain.NewConfigError("failed to load configuration file", err)
		}
		return cfg, nil
	}

	cfg, err := config.NewTomlConfigLoader().LoadConfig(l.startDir)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}
	return cfg, nil
}

// ConfigToRequest converts configuration into a request without pairs
func ConfigToRequest(cfg *config.Config) *domain.PlagiarismRequest {
	req := domain.DefaultPlagiarismRequest()

	req.Precision = cfg.Scoring.Precision
	req.Threshold = cfg.Scoring.Threshold
	req.MinScore = cfg.Scoring.MinScore

	req.Workers = cfg.Batch.Workers
	req.PairTimeout = time.Duration(cfg.Batch.PairTimeoutSeconds) * time.Second
	req.OnError = domain.ErrorPolicy(strings.ToLower(cfg.Batch.OnError))

	req.OutputFormat = domain.OutputFormat(cfg.Output.Format)
	req.ShowProgress = cfg.Output.ShowProgress
	req.SQLitePath = cfg.Output.SQLitePath

	return req
}
