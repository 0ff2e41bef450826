package service

import (
	"testing"
	"time"

	"github.com/ludo-technologies/pyplag/domain"
	"github.com/ludo-technologies/pyplag/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationLoader_Discovery(t *testing.T) {
	dir, _ := writeSources(t, map[string]string{
		".pyplag.toml": "[scoring]\nthreshold = 0.9\nprecision = 4\n\n[batch]\npair_timeout_seconds = 5\non_error = \"sentinel\"\n",
	})

	req, err := NewPlagiarismConfigurationLoaderFrom(dir).LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 0.9, req.Threshold)
	assert.Equal(t, 4, req.Precision)
	assert.Equal(t, 5*time.Second, req.PairTimeout)
	assert.Equal(t, domain.ErrorPolicySentinel, req.OnError)
	assert.Equal(t, domain.OutputFormatText, req.OutputFormat)
}

func TestConfigurationLoader_ExplicitFile(t *testing.T) {
	_, paths := writeSources(t, map[string]string{
		"ci.yaml": "output:\n  format: json\n  sqlite_path: runs.db\n",
	})

	req, err := NewPlagiarismConfigurationLoaderFrom(t.TempDir()).LoadConfig(paths["ci.yaml"])
	require.NoError(t, err)
	assert.Equal(t, domain.OutputFormatJSON, req.OutputFormat)
	assert.Equal(t, "runs.db", req.SQLitePath)
}

func TestConfigurationLoader_Errors(t *testing.T) {
	dir, paths := writeSources(t, map[string]string{
		"bad.toml": "[scoring]\nthreshold = 2.0\n",
	})
	loader := NewPlagiarismConfigurationLoaderFrom(dir)

	_, err := loader.LoadConfig(paths["bad.toml"])
	assert.Equal(t, domain.ErrCodeConfigError, domain.ErrorCode(err))

	_, err = loader.LoadConfig(dir + "/missing.toml")
	assert.Equal(t, domain.ErrCodeConfigError, domain.ErrorCode(err))
}

func TestConfigurationLoader_WithFlags(t *testing.T) {
	dir, _ := writeSources(t, map[string]string{
		".pyplag.toml": "[scoring]\nthreshold = 0.9\n\n[batch]\nworkers = 2\n",
	})
	loader := NewPlagiarismConfigurationLoaderFrom(dir)

	tracker := config.NewFlagTrackerWithFlags(map[string]bool{config.FlagWorkers: true})
	req, err := loader.LoadConfigWithFlags("", tracker, config.Overrides{Workers: 8, Threshold: 0.1})
	require.NoError(t, err)
	assert.Equal(t, 8, req.Workers)
	assert.Equal(t, 0.9, req.Threshold)

	bad := config.NewFlagTrackerWithFlags(map[string]bool{config.FlagOnError: true})
	_, err = loader.LoadConfigWithFlags("", bad, config.Overrides{OnError: "retry"})
	assert.Equal(t, domain.ErrCodeConfigError, domain.ErrorCode(err))
}

func TestConfigurationLoader_Defaults(t *testing.T) {
	req := NewPlagiarismConfigurationLoader().LoadDefaultConfig()
	assert.Equal(t, domain.DefaultPlagiarismRequest(), req)
}
