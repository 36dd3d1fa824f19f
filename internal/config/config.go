// Package config loads and saves the utxoctl configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/klingon-exchange/utxokit/internal/chain"
	"github.com/klingon-exchange/utxokit/pkg/logging"
)

// ConfigFileName is the default config file name.
const ConfigFileName = "config.yaml"

// DefaultDir is where the config lives unless a path is given.
const DefaultDir = "~/.utxokit"

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the tool configuration.
type Config struct {
	// Chain is the chain symbol (BTC, BCH, LTC, DOGE).
	Chain string `yaml:"chain"`

	// Network is mainnet or testnet.
	Network chain.Network `yaml:"network"`

	// DefaultFormat overrides the chain's default address format.
	// Empty means the chain default.
	DefaultFormat string `yaml:"default_format,omitempty"`

	// RBF signals replace-by-fee on built transactions.
	RBF bool `yaml:"rbf"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level"`

	// JSON switches log output to JSON lines.
	JSON bool `yaml:"json,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Chain:   "BTC",
		Network: chain.Mainnet,
		RBF:     true,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// IsTestnet returns true if the config selects testnet.
func (c *Config) IsTestnet() bool {
	return c.Network == chain.Testnet
}

// Params resolves the chain parameters the config selects.
func (c *Config) Params() (*chain.Params, error) {
	params, err := chain.Lookup(c.Chain, c.Network)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return params, nil
}

// Format resolves the address format to use by default.
func (c *Config) Format() (chain.Format, error) {
	params, err := c.Params()
	if err != nil {
		return "", err
	}
	if c.DefaultFormat == "" {
		return params.DefaultFormat, nil
	}

	format, err := chain.ParseFormat(c.DefaultFormat)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !params.Supports(format) {
		return "", fmt.Errorf("%w: %s does not support %s", ErrInvalidConfig, params, format)
	}
	return format, nil
}

// Validate checks that the chain, network, format and log level resolve.
func (c *Config) Validate() error {
	if _, err := c.Format(); err != nil {
		return err
	}
	if c.Logging.Level != "" && !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Logging.Level)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file. A missing file yields the
// defaults; it is not created.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(expandPath(path))
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	path = expandPath(path)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# utxoctl configuration\n\n")
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultPath returns the config path used when none is given.
func DefaultPath() string {
	return filepath.Join(expandPath(DefaultDir), ConfigFileName)
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
