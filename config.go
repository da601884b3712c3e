package reactive

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigEnv names the environment variable read by LoadConfigFromEnv.
const ConfigEnv = "REACTIVE_CONFIG"

// Config is the file form of a runtime's options.
type Config struct {
	// Async defers flushes to the end of the execution window.
	Async bool `yaml:"async"`

	// MaxUpdateCount is the circular update threshold.
	MaxUpdateCount int `yaml:"max_update_count"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	Metrics MetricsConfig `yaml:"metrics"`

	// logger output, stderr when nil
	output io.Writer
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`
}

func DefaultConfig() *Config {
	return &Config{
		Async:          true,
		MaxUpdateCount: DefaultMaxUpdateCount,
		LogLevel:       "info",
		Metrics: MetricsConfig{
			Enabled:   false,
			Namespace: "reactive",
		},
	}
}

// LoadConfigFromEnv loads the file named by REACTIVE_CONFIG.
func LoadConfigFromEnv() (*Config, error) {
	path := os.Getenv(ConfigEnv)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set", ConfigEnv)
	}

	return LoadConfig(path)
}

// LoadConfig reads a yaml file over the defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.MaxUpdateCount <= 0 {
		errs = append(errs, fmt.Errorf("max_update_count must be positive, got %d", c.MaxUpdateCount))
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		errs = append(errs, errors.New("metrics.namespace is required when metrics are enabled"))
	}

	return errors.Join(errs...)
}

// SetOutput sets where the logger built by Logger writes.
func (c *Config) SetOutput(w io.Writer) {
	c.output = w
}

// Logger returns a text logger at the configured level.
func (c *Config) Logger() *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}

	w := c.output
	if w == nil {
		w = os.Stderr
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log_level: %q", s)
	}
}
