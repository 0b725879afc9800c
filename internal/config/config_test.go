package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Database.URI = "/tmp/geolens-test.db"
	cfg.Engine.ExtraStopwords = []string{"Pro", "Max"}
	require.NoError(t, cfg.Save(path))
	assert.True(t, Exists(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  min_occurrences: 3\nlog_level: debug\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Engine.MinOccurrences)
	assert.Equal(t, 0.1, cfg.Engine.SampleFraction)
	assert.Equal(t, "sqlite", cfg.Database.Provider)
	assert.Equal(t, "debug", cfg.LogLevel)

	mc := cfg.MetricsConfig()
	assert.Equal(t, 3, mc.Discovery.MinOccurrences)
	assert.Equal(t, 0.1, mc.Discovery.SampleFraction)
	assert.Equal(t, 5, mc.MaxInsights)
	assert.True(t, mc.FoldDiscovered)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"provider": "database:\n  provider: cassandra\n",
		"fraction": "engine:\n  sample_fraction: 2\n",
		"yaml":     "engine: [",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestGetConfigPathEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/geolens/config.yaml")
	assert.Equal(t, "/etc/geolens/config.yaml", GetConfigPath())

	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, "config.yaml", filepath.Base(GetConfigPath()))
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "g-key")

	c := CurationConfig{Provider: "google"}
	assert.Equal(t, "g-key", c.ResolveAPIKey())

	c.APIKey = "explicit"
	assert.Equal(t, "explicit", c.ResolveAPIKey())

	assert.Empty(t, (&CurationConfig{Provider: "ollama"}).ResolveAPIKey())
}

func TestCurationSettings(t *testing.T) {
	cfg := DefaultConfig()
	cs := cfg.CurationSettings()
	assert.Equal(t, "gpt-4o-mini", cs.Model)
	assert.Equal(t, 20, cs.RequestsPerMinute)
	assert.Equal(t, 3, cs.MaxQuotes)
}
