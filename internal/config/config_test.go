package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Debug())
	assert.Equal(t, 16, cfg.Server.CacheSize)

	p := cfg.Pipeline
	assert.Equal(t, 10, p.HueRange)
	assert.Equal(t, 15, p.MorphSize)
	assert.Equal(t, 1.0, p.CannyLow)
	assert.Equal(t, 150.0, p.CannyHigh)
	assert.Equal(t, 150, p.Hough.Threshold)
	assert.Equal(t, 50.0, p.Hough.MinLineLength)
	assert.Equal(t, 50, p.Hough.MaxLineGap)
	assert.InDelta(t, 0.0174533, p.Hough.ThetaRadians(), 1e-6)
	assert.Equal(t, 5.0, p.DBSCAN.Eps)
	assert.Equal(t, 3, p.DBSCAN.MinPts)
	assert.Equal(t, PlausibleAboveHorizon, p.Plausibility)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Pipeline, cfg.Pipeline)
}

func TestLoad_PartialYAML(t *testing.T) {
	path := writeConfig(t, "vpoint.yaml", `
log_level: debug
http:
  addr: "127.0.0.1:9000"
  read_timeout: 5s
  allowed_origins: ["https://example.com", "https://app.example.com"]
pipeline:
  morph_size: 9
  dbscan:
    eps: 7.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug())
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.HTTP.WriteTimeout, "unset field keeps its default")
	assert.Equal(t, []string{"https://example.com", "https://app.example.com"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 9, cfg.Pipeline.MorphSize)
	assert.Equal(t, 7.5, cfg.Pipeline.DBSCAN.Eps)
	assert.Equal(t, 3, cfg.Pipeline.DBSCAN.MinPts, "sibling of a set field keeps its default")
	assert.Equal(t, 10, cfg.Pipeline.HueRange)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"wrong extension", "cfg.json", `{}`},
		{"bad yaml", "cfg.yaml", "pipeline: [unclosed"},
		{"unknown key", "cfg.yaml", "pipeline:\n  hue_rnage: 4\n"},
		{"wrong type", "cfg.yaml", "pipeline:\n  morph_size: lots\n"},
		{"invalid value", "cfg.yaml", "pipeline:\n  dbscan:\n    eps: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("VPOINT_LOG_LEVEL", "debug")
	t.Setenv("VPOINT_HTTP_ADDR", ":8080")
	t.Setenv("VPOINT_CORS_ORIGINS", "https://a.test, https://b.test,")
	t.Setenv("VPOINT_DBSCAN_EPS", "3.5")
	t.Setenv("VPOINT_DBSCAN_MIN_PTS", "4")
	t.Setenv("VPOINT_PLAUSIBILITY", PlausibleAny)
	t.Setenv("VPOINT_CACHE_SIZE", "4")

	path := writeConfig(t, "cfg.yml", "http:\n  addr: \":7000\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug())
	assert.Equal(t, ":8080", cfg.HTTP.Addr, "environment wins over the file")
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 3.5, cfg.Pipeline.DBSCAN.Eps)
	assert.Equal(t, 4, cfg.Pipeline.DBSCAN.MinPts)
	assert.Equal(t, PlausibleAny, cfg.Pipeline.Plausibility)
	assert.Equal(t, 4, cfg.Server.CacheSize)
}

func TestLoad_LegacyLogLevel(t *testing.T) {
	t.Setenv("IMAGE_MCP_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Debug())
}

func TestApplyEnv_AggregatesParseErrors(t *testing.T) {
	env := map[string]string{
		"VPOINT_HUE_RANGE":  "ten",
		"VPOINT_DBSCAN_EPS": "five",
		"VPOINT_CANNY_LOW":  "2",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	err := cfg.applyEnv(lookup)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Equal(t, 2.0, cfg.Pipeline.CannyLow, "valid variables still apply")
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "verbose"
	cfg.Pipeline.MorphSize = 0
	cfg.Pipeline.DBSCAN.MinPts = 0
	cfg.Pipeline.Plausibility = "below"
	cfg.Server.CacheSize = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 5)
	assert.Contains(t, err.Error(), "cache_size")
	assert.Contains(t, err.Error(), "morph_size")
	assert.Contains(t, err.Error(), "plausibility")
}

func TestPipelineValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Pipeline)
		ok     bool
	}{
		{"defaults", func(*Pipeline) {}, true},
		{"any plausibility", func(p *Pipeline) { p.Plausibility = PlausibleAny }, true},
		{"zero rho", func(p *Pipeline) { p.Hough.Rho = 0 }, false},
		{"theta too large", func(p *Pipeline) { p.Hough.ThetaDegrees = 270 }, false},
		{"zero threshold", func(p *Pipeline) { p.Hough.Threshold = 0 }, false},
		{"negative gap", func(p *Pipeline) { p.Hough.MaxLineGap = -1 }, false},
		{"hue range too wide", func(p *Pipeline) { p.HueRange = 120 }, false},
		{"negative canny", func(p *Pipeline) { p.CannyLow = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPipeline()
			tt.mutate(&p)
			if tt.ok {
				assert.NoError(t, p.Validate())
			} else {
				assert.Error(t, p.Validate())
			}
		})
	}
}
