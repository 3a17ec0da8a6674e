package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is returned when a configuration value is out of range
var ErrInvalid = errors.New("invalid configuration")

// Live refresh bounds, in redraws per second
const (
	MinRefreshHz = 1
	MaxRefreshHz = 1000
)

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the application configuration
type Config struct {
	Root      string   `toml:"root"`
	Workers   int      `toml:"workers"`
	Top       int      `toml:"top"`
	Verbose   bool     `toml:"verbose"`
	Color     string   `toml:"color"`
	RefreshHz float64  `toml:"refresh_hz"`
	Exclude   []string `toml:"exclude"`
	LogFile   string   `toml:"log_file"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
	// optional files fall back to defaults when missing
	optional bool
}

// NewConfigService creates a config service reading from the user config directory
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "fuzzwalk", "config.toml"),
		optional: true,
	}
}

// NewConfigServiceAt creates a config service bound to an explicit file,
// which Load requires to exist
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

func (cs *configService) Path() string { return cs.filePath }

// Load loads the service's configuration file. The default user file falls
// back to defaults when it does not exist.
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); cs.optional && os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// LoadFromPath loads configuration from a specific path.
// Keys missing from the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration.
// An empty Root means the current working directory.
func DefaultConfig() *Config {
	return &Config{
		Workers:   runtime.NumCPU(),
		Top:       10,
		Color:     ColorAuto,
		RefreshHz: 30,
	}
}

// Validate reports the first out-of-range value
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	}
	if c.Top < 1 {
		return fmt.Errorf("%w: top must be at least 1, got %d", ErrInvalid, c.Top)
	}
	if math.IsNaN(c.RefreshHz) || c.RefreshHz < MinRefreshHz || c.RefreshHz > MaxRefreshHz {
		return fmt.Errorf("%w: refresh_hz must be between %d and %d, got %g", ErrInvalid, MinRefreshHz, MaxRefreshHz, c.RefreshHz)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: color must be auto, always or never, got %q", ErrInvalid, c.Color)
	}
	return nil
}

// ResolveRoot returns the absolute scan root, defaulting to the working directory
func (c *Config) ResolveRoot() (string, error) {
	root := c.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	return abs, nil
}
