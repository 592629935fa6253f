package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
offpeak:
  start: "23:00"
  end: "06:00"
carbon:
  source: file
  path: feed.json
metrics:
  prometheus_enabled: true
  prometheus_port: "9100"
api:
  addr: ":8081"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "23:00", cfg.OffPeak.Start)
	require.Equal(t, "06:00", cfg.OffPeak.End)
	require.Equal(t, "file", cfg.Carbon.Source)
	require.Equal(t, 7, cfg.Carbon.PeriodDays)
	require.True(t, cfg.Metrics.PrometheusEnabled)
	require.Equal(t, "9100", cfg.Metrics.PrometheusPort)
	require.Equal(t, ":8081", cfg.API.Addr)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "config.json", `{"carbon":{"source":"file","path":"feed.json"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "00:30", cfg.OffPeak.Start)
	require.Equal(t, "07:30", cfg.OffPeak.End)
	require.Equal(t, ":8080", cfg.API.Addr)
	require.Equal(t, 1800, cfg.Carbon.PollIntervalSeconds)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
carbon:
  source: file
  path: feed.json
`)
	t.Setenv("GC_OFFPEAK__START", "22:00")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "22:00", cfg.OffPeak.Start)
}

func TestLoadRejectsBadOffPeak(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
offpeak:
  start: "25:00"
carbon:
  source: file
  path: feed.json
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBadCarbonSource(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
carbon:
  source: carrier-pigeon
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "config.toml", "x = 1")
	_, err := Load(path)
	require.Error(t, err)
}

func TestCarbonValidate(t *testing.T) {
	c := CarbonConfig{Source: "api"}
	c.SetDefaults()
	require.Error(t, c.Validate())
	c.URL = "https://example.org/intensity"
	require.Error(t, c.Validate())
	c.Path = "cache.db"
	require.NoError(t, c.Validate())
}

func TestOffPeakWindow(t *testing.T) {
	c := OffPeakConfig{Start: "23:00", End: "06:00"}
	require.NoError(t, c.Validate())
	start, end := c.Window()
	require.Equal(t, 23, start.Hour)
	require.Equal(t, 6, end.Hour)
}
