package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 3, cfg.Scoring.Precision)
	assert.Equal(t, 0.8, cfg.Scoring.Threshold)
	assert.Equal(t, "abort", cfg.Batch.OnError)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.True(t, cfg.Output.ShowProgress)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"precision too small", func(c *Config) { c.Scoring.Precision = 0 }, "scoring.precision"},
		{"precision too large", func(c *Config) { c.Scoring.Precision = 11 }, "scoring.precision"},
		{"threshold above one", func(c *Config) { c.Scoring.Threshold = 1.01 }, "scoring.threshold"},
		{"negative min score", func(c *Config) { c.Scoring.MinScore = -1 }, "scoring.min_score"},
		{"negative workers", func(c *Config) { c.Batch.Workers = -2 }, "batch.workers"},
		{"negative timeout", func(c *Config) { c.Batch.PairTimeoutSeconds = -1 }, "batch.pair_timeout_seconds"},
		{"bad policy", func(c *Config) { c.Batch.OnError = "ignore" }, "batch.on_error"},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"sentinel policy", func(c *Config) { c.Batch.OnError = "sentinel" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultConfigTOMLMatchesDefaults(t *testing.T) {
	var parsed PyplagTomlConfig
	require.NoError(t, toml.Unmarshal([]byte(DefaultConfigTOML), &parsed))

	cfg := DefaultConfig()
	mergeTomlConfig(cfg, &parsed)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("toml", func(t *testing.T) {
		path := writeFile(t, dir, "custom.toml", "[scoring]\nthreshold = 0.9\n\n[batch]\nworkers = 4\n")
		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, 0.9, cfg.Scoring.Threshold)
		assert.Equal(t, 4, cfg.Batch.Workers)
		assert.Equal(t, 3, cfg.Scoring.Precision, "missing key keeps default")
		assert.True(t, cfg.Output.ShowProgress)
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, dir, "custom.yaml", "batch:\n  on_error: sentinel\noutput:\n  format: csv\n")
		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, "sentinel", cfg.Batch.OnError)
		assert.Equal(t, "csv", cfg.Output.Format)
	})

	t.Run("pyproject", func(t *testing.T) {
		sub := filepath.Join(dir, "proj")
		path := writeFile(t, sub, "pyproject.toml", "[project]\nname = \"x\"\n\n[tool.pyplag.scoring]\nprecision = 4\n")
		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Scoring.Precision)
	})

	t.Run("invalid value", func(t *testing.T) {
		path := writeFile(t, dir, "bad.toml", "[output]\nformat = \"xml\"\n")
		_, err := LoadConfigFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("missing", func(t *testing.T) {
		_, err := LoadConfigFile(filepath.Join(dir, "nope.toml"))
		assert.Error(t, err)
	})
}

func TestTomlConfigLoader(t *testing.T) {
	loader := NewTomlConfigLoader()

	t.Run("dedicated file wins over pyproject", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, ConfigFileName, "[scoring]\nthreshold = 0.7\n")
		writeFile(t, root, "pyproject.toml", "[tool.pyplag.scoring]\nthreshold = 0.6\n")
		nested := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0755))

		cfg, source, err := loader.LoadConfigWithSource(nested)
		require.NoError(t, err)
		assert.Equal(t, 0.7, cfg.Scoring.Threshold)
		assert.Equal(t, ConfigFileName, filepath.Base(source))
	})

	t.Run("pyproject section", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "pyproject.toml", "[tool.pyplag.output]\nshow_progress = false\n")

		cfg, err := loader.LoadConfig(root)
		require.NoError(t, err)
		assert.False(t, cfg.Output.ShowProgress)
	})

	t.Run("pyproject without section uses defaults", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "pyproject.toml", "[tool.black]\nline-length = 88\n")

		cfg, source, err := loader.LoadConfigWithSource(root)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
		assert.Empty(t, source)

		fromPyproject, err := LoadPyprojectConfig(root)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), fromPyproject)
	})

	t.Run("invalid dedicated file", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, ConfigFileName, "[scoring]\nprecision = 0\n")

		_, err := loader.LoadConfig(root)
		assert.Error(t, err)
	})

	t.Run("malformed toml", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, ConfigFileName, "[scoring\n")

		_, err := loader.LoadConfig(root)
		assert.Error(t, err)
	})
}
