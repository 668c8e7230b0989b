package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
storage:
  type: local
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", cfg.Analysis.Version)
	assert.Equal(t, 4, cfg.Analysis.MaxWorkers)
	assert.Equal(t, 10000, cfg.Analysis.MaxChainLength)
	assert.Equal(t, []string{"java"}, cfg.Classify.JREPrefixes)
	assert.Equal(t, []string{"_FieldSerializer", "_Proxy", "_TypeSerializer"}, cfg.Classify.GeneratedSuffixes)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "./storage", cfg.Storage.LocalPath)
}

func TestLoad_CustomValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
analysis:
  version: "2.0.0"
  max_workers: 8
  max_chain_length: 50
classify:
  jre_prefixes: ["java", "javax"]
  widget_prefixes: ["com.example.ui"]
  cache_size: 500
database:
  enabled: true
  type: postgres
  host: db.example.com
  port: 5433
  database: soyc
storage:
  type: cos
  bucket: reports-1250000000
  region: ap-guangzhou
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "2.0.0", cfg.Analysis.Version)
	assert.Equal(t, 8, cfg.Analysis.MaxWorkers)
	assert.Equal(t, 50, cfg.Analysis.MaxChainLength)
	assert.Equal(t, []string{"java", "javax"}, cfg.Classify.JREPrefixes)
	assert.Equal(t, []string{"com.example.ui"}, cfg.Classify.WidgetPrefixes)
	assert.Equal(t, []string{"com.google.gwt.lang"}, cfg.Classify.RuntimePrefixes)
	assert.Equal(t, 500, cfg.Classify.CacheSize)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "cos", cfg.Storage.Type)
}

func TestLoadFromReader_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "unsupported database",
			content: "database:\n  enabled: true\n  type: oracle\n",
			errMsg:  "unsupported database type",
		},
		{
			name:    "sqlite without path",
			content: "database:\n  enabled: true\n  type: sqlite\n  path: \"\"\n",
			errMsg:  "database path is required",
		},
		{
			name:    "cos without bucket",
			content: "storage:\n  type: cos\n",
			errMsg:  "bucket and region",
		},
		{
			name:    "unknown storage",
			content: "storage:\n  type: s3\n",
			errMsg:  "unsupported storage type",
		},
		{
			name:    "zero workers",
			content: "analysis:\n  max_workers: 0\n",
			errMsg:  "max workers",
		},
		{
			name:    "zero chain length",
			content: "analysis:\n  max_chain_length: 0\n",
			errMsg:  "max chain length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromReader("yaml", []byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFromReader_DisabledDatabaseSkipsValidation(t *testing.T) {
	cfg, err := LoadFromReader("yaml", []byte("database:\n  type: oracle\n"))
	require.NoError(t, err)
	assert.Equal(t, "oracle", cfg.Database.Type)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, []string{"_CustomFieldSerializer"}, cfg.Classify.CustomSerializerMarkers)
}
