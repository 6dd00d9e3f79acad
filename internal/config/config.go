// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"payout-calc/core/types"
	"payout-calc/internal/errors"
	"payout-calc/internal/logging"
)

// EnvPrefix prefixes every environment variable the configuration reads.
const EnvPrefix = "PAYOUT"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Rates are the marketplace deduction rates applied to every calculation
	Rates types.RateConfig `json:"rates"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format" split_words:"true" validate:"omitempty,oneof=table cli json csv"`

	// PreviewRows is how many rows a bulk run shows in the terminal
	PreviewRows int `json:"preview_rows" split_words:"true" validate:"gte=0"`

	// NoColor disables ANSI colors
	NoColor bool `json:"no_color" split_words:"true"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" split_words:"true" validate:"required"`

	// RateLimit is the allowed requests per minute per client IP, 0 disables limiting
	RateLimit int `json:"rate_limit" split_words:"true" validate:"gte=0"`

	// MaxUploadMB caps spreadsheet uploads
	MaxUploadMB int `json:"max_upload_mb" split_words:"true" validate:"gt=0"`

	// MaxBatchRows caps rows per bulk request
	MaxBatchRows int `json:"max_batch_rows" split_words:"true" validate:"gt=0"`

	// ReadTimeoutSeconds bounds reading a request
	ReadTimeoutSeconds int `json:"read_timeout_seconds" split_words:"true" validate:"gt=0"`

	// WriteTimeoutSeconds bounds writing a response
	WriteTimeoutSeconds int `json:"write_timeout_seconds" split_words:"true" validate:"gt=0"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Rates:   types.DefaultRateConfig(),
		Output: OutputConfig{
			DefaultFormat: "table",
			PreviewRows:   10,
		},
		Server: ServerConfig{
			Addr:                ":8080",
			RateLimit:           120,
			MaxUploadMB:         10,
			MaxBatchRows:        10000,
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 60,
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath is where the CLI looks for a configuration file.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".payout-calc.json"
	}
	return filepath.Join(homeDir, ".payout-calc.json")
}

// Load loads configuration from a JSON or HCL file over the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("reading "+path, err)
	}

	config := Default()
	if isHCL(path) {
		if err := decodeHCL(data, path, config); err != nil {
			return nil, err
		}
		return config, nil
	}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Config("parsing "+path, err)
	}
	return config, nil
}

// ApplyEnv overlays PAYOUT_* environment variables. Unset variables leave
// the current values in place.
func (c *Config) ApplyEnv() error {
	for prefix, spec := range map[string]any{
		EnvPrefix:             &c.Rates,
		EnvPrefix + "_OUTPUT": &c.Output,
		EnvPrefix + "_SERVER": &c.Server,
		EnvPrefix + "_LOG":    &c.Logging,
	} {
		if err := envconfig.Process(prefix, spec); err != nil {
			return errors.Config("reading environment", err)
		}
	}
	return nil
}

var validate = validator.New()

// Validate checks every section against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Config("invalid configuration", err)
	}
	if err := c.Rates.Validate(); err != nil {
		return errors.Config("invalid rates", err)
	}
	return nil
}

// Save saves configuration to a file, as HCL when the path ends in .hcl
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Config("creating "+dir, err)
	}

	var data []byte
	if isHCL(path) {
		data = encodeHCL(c)
	} else {
		var err error
		data, err = json.MarshalIndent(c, "", "  ")
		if err != nil {
			return errors.Internal("encoding configuration", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Config("writing "+path, err)
	}
	return nil
}

func isHCL(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".hcl")
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
