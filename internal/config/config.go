// Package config holds the runtime configuration of the vanishing point
// server: pipeline tuning, MCP server identity, HTTP listener settings and
// log level.
//
// Configuration is layered. Defaults come first, then an optional YAML
// file, then VPOINT_* environment variables. Fields a file omits keep
// their defaults, so partial files are safe.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Plausibility predicate names.
const (
	PlausibleAboveHorizon = "above_horizon"
	PlausibleAny          = "any"
)

// maxFileSize bounds config files read from disk.
const maxFileSize = 1 * 1024 * 1024

// Config is the root configuration.
type Config struct {
	// LogLevel is "info" or "debug".
	LogLevel string `mapstructure:"log_level"`

	Server   Server   `mapstructure:"server"`
	HTTP     HTTP     `mapstructure:"http"`
	Pipeline Pipeline `mapstructure:"pipeline"`
}

// Server configures the MCP stdio server.
type Server struct {
	// Name is reported to MCP clients during initialize.
	Name string `mapstructure:"name"`

	// CacheSize caps how many decoded images the server keeps.
	CacheSize int `mapstructure:"cache_size"`
}

// HTTP configures the optional HTTP API.
type HTTP struct {
	Addr           string        `mapstructure:"addr"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

// Pipeline tunes automated vanishing point estimation.
type Pipeline struct {
	HueRange     int     `mapstructure:"hue_range"`
	MorphSize    int     `mapstructure:"morph_size"`
	CannyLow     float64 `mapstructure:"canny_low"`
	CannyHigh    float64 `mapstructure:"canny_high"`
	Hough        Hough   `mapstructure:"hough"`
	DBSCAN       DBSCAN  `mapstructure:"dbscan"`
	Plausibility string  `mapstructure:"plausibility"`
}

// Hough tunes probabilistic Hough segment detection.
type Hough struct {
	Rho           float64 `mapstructure:"rho"`
	ThetaDegrees  float64 `mapstructure:"theta_degrees"`
	Threshold     int     `mapstructure:"threshold"`
	MinLineLength float64 `mapstructure:"min_line_length"`
	MaxLineGap    int     `mapstructure:"max_line_gap"`
}

// ThetaRadians returns the angular resolution in radians.
func (h Hough) ThetaRadians() float64 {
	return h.ThetaDegrees * math.Pi / 180
}

// DBSCAN tunes intersection clustering.
type DBSCAN struct {
	Eps    float64 `mapstructure:"eps"`
	MinPts int     `mapstructure:"min_pts"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Server: Server{
			Name:      "vanishing-point-mcp",
			CacheSize: 16,
		},
		HTTP: HTTP{
			Addr:           ":8000",
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   60 * time.Second,
			AllowedOrigins: []string{"*"},
			MaxUploadBytes: 32 << 20,
		},
		Pipeline: DefaultPipeline(),
	}
}

// DefaultPipeline returns the pipeline defaults on their own.
func DefaultPipeline() Pipeline {
	return Pipeline{
		HueRange:  10,
		MorphSize: 15,
		CannyLow:  1,
		CannyHigh: 150,
		Hough: Hough{
			Rho:           1,
			ThetaDegrees:  1,
			Threshold:     150,
			MinLineLength: 50,
			MaxLineGap:    50,
		},
		DBSCAN: DBSCAN{
			Eps:    5,
			MinPts: 3,
		},
		Plausibility: PlausibleAboveHorizon,
	}
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is not empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return c.decode(raw)
}

// decode merges a generic map into c. Unknown keys are rejected.
func (c *Config) decode(raw map[string]interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           c,
	})
	if err != nil {
		return fmt.Errorf("failed to create config decoder: %w", err)
	}

	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// applyEnv overrides fields from VPOINT_* variables. IMAGE_MCP_LOG_LEVEL
// is honoured when VPOINT_LOG_LEVEL is unset.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs error

	if v, ok := lookup("VPOINT_LOG_LEVEL"); ok {
		c.LogLevel = v
	} else if v, ok := lookup("IMAGE_MCP_LOG_LEVEL"); ok {
		c.LogLevel = v
	}

	if v, ok := lookup("VPOINT_HTTP_ADDR"); ok {
		c.HTTP.Addr = v
	}
	if v, ok := lookup("VPOINT_CORS_ORIGINS"); ok {
		c.HTTP.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup("VPOINT_PLAUSIBILITY"); ok {
		c.Pipeline.Plausibility = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"VPOINT_CACHE_SIZE", &c.Server.CacheSize},
		{"VPOINT_HUE_RANGE", &c.Pipeline.HueRange},
		{"VPOINT_MORPH_SIZE", &c.Pipeline.MorphSize},
		{"VPOINT_HOUGH_THRESHOLD", &c.Pipeline.Hough.Threshold},
		{"VPOINT_DBSCAN_MIN_PTS", &c.Pipeline.DBSCAN.MinPts},
	}
	for _, e := range ints {
		if v, ok := lookup(e.name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", e.name, err))
				continue
			}
			*e.dst = n
		}
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"VPOINT_CANNY_LOW", &c.Pipeline.CannyLow},
		{"VPOINT_CANNY_HIGH", &c.Pipeline.CannyHigh},
		{"VPOINT_DBSCAN_EPS", &c.Pipeline.DBSCAN.Eps},
	}
	for _, e := range floats {
		if v, ok := lookup(e.name); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", e.name, err))
				continue
			}
			*e.dst = f
		}
	}

	return errs
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs error

	switch strings.ToLower(c.LogLevel) {
	case "info", "debug":
	default:
		errs = multierr.Append(errs, fmt.Errorf("log_level must be info or debug, got %q", c.LogLevel))
	}

	if c.Server.Name == "" {
		errs = multierr.Append(errs, errors.New("server.name must not be empty"))
	}
	if c.Server.CacheSize < 1 {
		errs = multierr.Append(errs, fmt.Errorf("server.cache_size must be at least 1, got %d", c.Server.CacheSize))
	}

	if c.HTTP.ReadTimeout < 0 || c.HTTP.WriteTimeout < 0 {
		errs = multierr.Append(errs, errors.New("http timeouts must be non-negative"))
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("http.max_upload_bytes must be positive, got %d", c.HTTP.MaxUploadBytes))
	}

	return multierr.Append(errs, c.Pipeline.Validate())
}

// Validate checks pipeline parameters.
func (p Pipeline) Validate() error {
	var errs error

	if p.HueRange < 0 || p.HueRange > 90 {
		errs = multierr.Append(errs, fmt.Errorf("pipeline.hue_range must be between 0 and 90, got %d", p.HueRange))
	}
	if p.MorphSize < 1 {
		errs = multierr.Append(errs, fmt.Errorf("pipeline.morph_size must be at least 1, got %d", p.MorphSize))
	}
	if p.CannyLow < 0 || p.CannyHigh < 0 {
		errs = multierr.Append(errs, errors.New("pipeline canny thresholds must be non-negative"))
	}
	if p.Hough.Rho <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("pipeline.hough.rho must be positive, got %g", p.Hough.Rho))
	}
	if p.Hough.ThetaDegrees <= 0 || p.Hough.ThetaDegrees > 180 {
		errs = multierr.Append(errs, fmt.Errorf("pipeline.hough.theta_degrees must be in (0, 180], got %g", p.Hough.ThetaDegrees))
	}
	if p.Hough.Threshold < 1 {
		errs = multierr.Append(errs, fmt.Errorf("pipeline.hough.threshold must be at least 1, got %d", p.Hough.Threshold))
	}
	if p.Hough.MinLineLength < 0 || p.Hough.MaxLineGap < 0 {
		errs = multierr.Append(errs, errors.New("pipeline.hough line length and gap must be non-negative"))
	}
	if !(p.DBSCAN.Eps > 0) || math.IsInf(p.DBSCAN.Eps, 0) {
		errs = multierr.Append(errs, fmt.Errorf("pipeline.dbscan.eps must be a positive finite number, got %g", p.DBSCAN.Eps))
	}
	if p.DBSCAN.MinPts < 1 {
		errs = multierr.Append(errs, fmt.Errorf("pipeline.dbscan.min_pts must be at least 1, got %d", p.DBSCAN.MinPts))
	}
	switch p.Plausibility {
	case PlausibleAboveHorizon, PlausibleAny:
	default:
		errs = multierr.Append(errs, fmt.Errorf("pipeline.plausibility must be %q or %q, got %q",
			PlausibleAboveHorizon, PlausibleAny, p.Plausibility))
	}

	return errs
}
