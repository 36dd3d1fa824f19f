package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klingon-exchange/utxokit/internal/chain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Chain != "BTC" {
		t.Errorf("expected BTC, got %s", cfg.Chain)
	}
	if cfg.Network != chain.Mainnet {
		t.Errorf("expected mainnet, got %s", cfg.Network)
	}
	if cfg.IsTestnet() {
		t.Error("default config should not be testnet")
	}
	if !cfg.RBF {
		t.Error("expected RBF to be enabled")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfigFormat(t *testing.T) {
	tests := []struct {
		name    string
		chain   string
		format  string
		want    chain.Format
		wantErr bool
	}{
		{"btc default", "BTC", "", chain.FormatBech32, false},
		{"bch default", "BCH", "", chain.FormatCashAddr, false},
		{"doge default", "DOGE", "", chain.FormatP2PKH, false},
		{"btc override", "BTC", "p2sh-p2wpkh", chain.FormatP2SHP2WPKH, false},
		{"alias", "LTC", "p2wpkh", chain.FormatBech32, false},
		{"unsupported", "DOGE", "bech32", "", true},
		{"unknown format", "BTC", "p2tr", "", true},
		{"unknown chain", "XMR", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Chain = tt.chain
			cfg.DefaultFormat = tt.format

			got, err := cfg.Format()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("Format() error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Format() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidateLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Chain != "BTC" || cfg.Network != chain.Mainnet {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)

	cfg := DefaultConfig()
	cfg.Chain = "LTC"
	cfg.Network = chain.Testnet
	cfg.DefaultFormat = "p2pkh"
	cfg.RBF = false
	cfg.Logging.Level = "debug"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %o", info.Mode().Perm())
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.Chain != "LTC" {
		t.Errorf("expected LTC, got %s", loaded.Chain)
	}
	if !loaded.IsTestnet() {
		t.Error("expected testnet")
	}
	if loaded.RBF {
		t.Error("expected RBF disabled")
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("expected debug, got %s", loaded.Logging.Level)
	}

	format, err := loaded.Format()
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if format != chain.FormatP2PKH {
		t.Errorf("expected p2pkh, got %s", format)
	}

	params, err := loaded.Params()
	if err != nil {
		t.Fatalf("Params() error = %v", err)
	}
	if params != chain.MustGet("LTC", chain.Testnet) {
		t.Errorf("Params() = %s, want LTC/testnet", params)
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("chain: BCH\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Chain != "BCH" {
		t.Errorf("expected BCH, got %s", cfg.Chain)
	}
	if cfg.Network != chain.Mainnet || cfg.Logging.Level != "info" {
		t.Errorf("unset keys should keep defaults, got %+v", cfg)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()

	badYAML := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badYAML, []byte("chain: [unterminated\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(badYAML); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("LoadConfig(bad yaml) error = %v", err)
	}

	badChain := filepath.Join(dir, "chain.yaml")
	if err := os.WriteFile(badChain, []byte("chain: ETH\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(badChain); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadConfig(ETH) error = %v, want ErrInvalidConfig", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandPath("~/x"); got != filepath.Join(home, "x") {
		t.Errorf("expandPath(~/x) = %s", got)
	}
	if got := expandPath("/abs"); got != "/abs" {
		t.Errorf("expandPath(/abs) = %s", got)
	}
	if !strings.HasSuffix(DefaultPath(), filepath.Join(".utxokit", ConfigFileName)) {
		t.Errorf("DefaultPath() = %s", DefaultPath())
	}
}
