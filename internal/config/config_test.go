package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "traj.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, "data.npy", cfg.Source)
	assert.Equal(t, "plot.png", cfg.Plot.Output)
	assert.Equal(t, 2, cfg.Threshold)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "info", cfg.Logging.ConsoleLevel)
	assert.Empty(t, cfg.Logging.File)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
source: ./vehicles.csv
threshold: 3
plot:
  output: ./out/track.svg
logging:
  file: ./process.log
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./vehicles.csv", cfg.Source)
	assert.Equal(t, 3, cfg.Threshold)
	assert.Equal(t, "./out/track.svg", cfg.Plot.Output)
	assert.Equal(t, 6.4, cfg.Plot.Width, "unset keys keep their default")
	assert.Equal(t, "./process.log", cfg.Logging.File)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.ConsoleLevel)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_Rejects(t *testing.T) {
	tests := map[string]string{
		"invalid yaml":     "invalid: yaml: content: [[[",
		"unknown key":      "sorce: ./data.npy\n",
		"zero threshold":   "threshold: 0\n",
		"bad level":        "logging:\n  level: verbose\n",
		"bad format":       "logging:\n  format: xml\n",
		"negative width":   "plot:\n  width: -1\n",
		"empty source":     "source: \"\"\n",
		"empty plot path":  "plot:\n  output: \"\"\n",
		"wrong value type": "threshold: two\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "traj.example.yml"))
	require.NoError(t, err)
	assert.Equal(t, "./process.log", cfg.Logging.File)
	assert.Equal(t, "./data.npy", cfg.Source)
}
