// Package main provides utxoctl - address and transaction tooling for
// Bitcoin-family chains.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/klingon-exchange/utxokit/internal/chain"
	"github.com/klingon-exchange/utxokit/internal/config"
	"github.com/klingon-exchange/utxokit/pkg/logging"
)

var (
	version = "0.1.0-dev"
	commit  = "unknown"
)

// app carries the flags and the state resolved before a command runs.
type app struct {
	configPath string
	chain      string
	testnet    bool
	logLevel   string

	cfg    *config.Config
	params *chain.Params
	log    *logging.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "utxoctl",
		Short:        "Address and transaction tooling for Bitcoin-family chains",
		Version:      fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file path (default: "+config.DefaultPath()+")")
	flags.StringVar(&a.chain, "chain", "", "Chain symbol ("+strings.Join(chain.List(), ", ")+"), overrides config")
	flags.BoolVar(&a.testnet, "testnet", false, "Use testnet parameters")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error), overrides config")

	root.AddCommand(
		a.addressCmd(),
		a.parseCmd(),
		a.scriptCmd(),
		a.decodeCmd(),
		a.signCmd(),
		a.configCmd(),
	)
	return root
}

// setup loads the config, applies flag overrides (flags take precedence over
// the config file) and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}

	if a.chain != "" {
		cfg.Chain = strings.ToUpper(a.chain)
	}
	if a.testnet {
		cfg.Network = chain.Testnet
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.log = logging.New(&logging.Config{
		Level:      cfg.Logging.Level,
		TimeFormat: time.TimeOnly,
		Output:     cmd.ErrOrStderr(),
		JSON:       cfg.Logging.JSON,
	})
	logging.SetDefault(a.log)

	params, err := cfg.Params()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.params = params

	a.log.Debug("Config loaded", "path", path, "chain", params)
	return nil
}
