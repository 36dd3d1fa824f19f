package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/klingon-exchange/utxokit/internal/address"
	"github.com/klingon-exchange/utxokit/internal/chain"
	"github.com/klingon-exchange/utxokit/internal/config"
	"github.com/klingon-exchange/utxokit/internal/crypto"
	"github.com/klingon-exchange/utxokit/internal/tx"
	"github.com/klingon-exchange/utxokit/internal/wallet"
	"github.com/klingon-exchange/utxokit/pkg/helpers"
)

var errBadArgument = errors.New("bad argument")

func (a *app) addressCmd() *cobra.Command {
	var (
		format string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "address <pubkey-hex>",
		Short: "Derive an address from a public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pubKey, err := helpers.HexToBytes(args[0])
			if err != nil {
				return fmt.Errorf("%w: public key: %w", errBadArgument, err)
			}
			out := cmd.OutOrStdout()

			if all {
				addrs, err := address.AllFormats(pubKey, a.params)
				if err != nil {
					return err
				}
				for _, f := range a.params.SupportedFormats {
					if addr, ok := addrs[f]; ok {
						fmt.Fprintf(out, "%-12s %s\n", f, addr)
					}
				}
				return nil
			}

			f, err := a.format(format)
			if err != nil {
				return err
			}
			addr, err := address.FromPublicKey(pubKey, f, a.params)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, addr)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Address format (default from config or chain)")
	cmd.Flags().BoolVar(&all, "all", false, "Print every key-derived format the chain supports")
	return cmd
}

func (a *app) parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <address>",
		Short: "Show the format, hash and script_pubkey of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := address.Parse(args[0], a.params)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "address:       %s\n", addr)
			fmt.Fprintf(out, "network:       %s\n", addr.Params())
			fmt.Fprintf(out, "format:        %s\n", addr.Format())
			fmt.Fprintf(out, "hash:          %x\n", addr.Hash())
			fmt.Fprintf(out, "script_pubkey: %x\n", addr.ScriptPubKey())
			return nil
		},
	}
}

func (a *app) scriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "script <script-hex>",
		Short: "Render a script_pubkey as an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := helpers.HexToBytes(args[0])
			if err != nil {
				return fmt.Errorf("%w: script: %w", errBadArgument, err)
			}
			addr, err := address.FromScriptPubKey(script, a.params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", addr.Format(), addr)
			return nil
		},
	}
}

func (a *app) decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <raw-tx-hex>",
		Short: "Decode a raw transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := helpers.HexToBytes(args[0])
			if err != nil {
				return fmt.Errorf("%w: transaction: %w", errBadArgument, err)
			}
			t, err := tx.Deserialize(raw)
			if err != nil {
				return err
			}
			a.printTx(cmd.OutOrStdout(), t)
			return nil
		},
	}
}

func (a *app) printTx(out io.Writer, t *tx.Transaction) {
	fmt.Fprintf(out, "txid:     %s\n", t.TxID())
	fmt.Fprintf(out, "wtxid:    %s\n", t.WitnessID())
	fmt.Fprintf(out, "version:  %d\n", t.Version)
	fmt.Fprintf(out, "locktime: %d\n", t.LockTime)
	fmt.Fprintf(out, "segwit:   %t\n", t.Segwit)
	fmt.Fprintf(out, "size:     %d\n", len(t.Serialize()))
	fmt.Fprintf(out, "vsize:    %d\n", t.VirtualSize())
	fmt.Fprintf(out, "weight:   %d\n", t.Weight())

	fmt.Fprintf(out, "inputs:   %d\n", len(t.Inputs))
	for i, in := range t.Inputs {
		fmt.Fprintf(out, "  [%d] %s sequence=%d\n", i, in.Outpoint, in.Sequence)
		if sig := in.ScriptSig(); len(sig) > 0 {
			fmt.Fprintf(out, "      script_sig: %x\n", sig)
		}
		for j, item := range in.Witness() {
			fmt.Fprintf(out, "      witness[%d]: %x\n", j, item)
		}
	}

	var total int64
	fmt.Fprintf(out, "outputs:  %d\n", len(t.Outputs))
	for i, o := range t.Outputs {
		total += o.Amount()
		dest := "nonstandard"
		if addr, err := o.Address(a.params); err == nil {
			dest = addr.String()
		}
		fmt.Fprintf(out, "  [%d] %s %s %s\n", i, helpers.FormatCoins(o.Amount()), a.params.Symbol, dest)
		fmt.Fprintf(out, "      script_pubkey: %x\n", o.ScriptPubKey())
	}
	fmt.Fprintf(out, "total out: %s %s\n", helpers.FormatCoins(total), a.params.Symbol)
}

func (a *app) signCmd() *cobra.Command {
	var (
		utxoArgs []string
		payArgs  []string
		keyHex   string
		lockTime uint32
		rbf      bool
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Build and sign a transaction spending the given UTXOs",
		Example: "  utxoctl sign --key <hex> \\\n" +
			"    --utxo <txid>,<vout>,<address>,<amount> \\\n" +
			"    --pay <address>,<amount>",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := helpers.HexToBytes(keyHex)
			if err != nil {
				return fmt.Errorf("%w: key: %w", errBadArgument, err)
			}
			signer, err := crypto.NewPrivateKeySignerFromBytes(secret)
			if err != nil {
				return err
			}

			utxos := make([]wallet.UTXO, 0, len(utxoArgs))
			for _, s := range utxoArgs {
				u, err := parseUTXO(s)
				if err != nil {
					return err
				}
				utxos = append(utxos, u)
			}
			payments := make([]wallet.Payment, 0, len(payArgs))
			for _, s := range payArgs {
				p, err := parsePayment(s)
				if err != nil {
					return err
				}
				payments = append(payments, p)
			}

			if !cmd.Flags().Changed("rbf") {
				rbf = a.cfg.RBF
			}

			rawHex, err := wallet.BuildAndSignTx(a.params, utxos, payments, signer, wallet.Options{
				LockTime: lockTime,
				RBF:      rbf,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rawHex)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&utxoArgs, "utxo", nil, "UTXO to spend as txid,vout,address,amount (repeatable)")
	cmd.Flags().StringArrayVar(&payArgs, "pay", nil, "Payment as address,amount (repeatable)")
	cmd.Flags().StringVar(&keyHex, "key", "", "Hex private key owning every UTXO")
	cmd.Flags().Uint32Var(&lockTime, "locktime", 0, "Transaction lock time")
	cmd.Flags().BoolVar(&rbf, "rbf", false, "Signal replace-by-fee (default from config)")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("utxo")
	_ = cmd.MarkFlagRequired("pay")
	return cmd
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := a.cfg.Format()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "chain:          %s\n", a.params)
			fmt.Fprintf(out, "default_format: %s\n", format)
			fmt.Fprintf(out, "rbf:            %t\n", a.cfg.RBF)
			fmt.Fprintf(out, "log level:      %s\n", a.cfg.Logging.Level)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if err := a.cfg.Save(path); err != nil {
				return err
			}
			a.log.Info("Config written", "path", path)
			return nil
		},
	})
	return cmd
}

// format resolves a --format flag, falling back to the configured default.
func (a *app) format(flag string) (chain.Format, error) {
	if flag == "" {
		return a.cfg.Format()
	}
	return chain.ParseFormat(flag)
}

// parseUTXO parses txid,vout,address,amount[,witness-script-hex].
func parseUTXO(s string) (wallet.UTXO, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 && len(parts) != 5 {
		return wallet.UTXO{}, fmt.Errorf("%w: utxo %q: want txid,vout,address,amount", errBadArgument, s)
	}

	vout, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return wallet.UTXO{}, fmt.Errorf("%w: utxo vout %q: %w", errBadArgument, parts[1], err)
	}
	amount, err := helpers.ParseCoins(parts[3])
	if err != nil {
		return wallet.UTXO{}, fmt.Errorf("%w: utxo amount: %w", errBadArgument, err)
	}

	u := wallet.UTXO{
		TxID:    parts[0],
		Vout:    uint32(vout),
		Address: parts[2],
		Amount:  amount,
	}
	if len(parts) == 5 {
		u.WitnessScript, err = hex.DecodeString(parts[4])
		if err != nil {
			return wallet.UTXO{}, fmt.Errorf("%w: witness script: %w", errBadArgument, err)
		}
	}
	return u, nil
}

// parsePayment parses address,amount.
func parsePayment(s string) (wallet.Payment, error) {
	addr, amountStr, ok := strings.Cut(s, ",")
	if !ok {
		return wallet.Payment{}, fmt.Errorf("%w: payment %q: want address,amount", errBadArgument, s)
	}
	amount, err := helpers.ParseCoins(amountStr)
	if err != nil {
		return wallet.Payment{}, fmt.Errorf("%w: payment amount: %w", errBadArgument, err)
	}
	return wallet.Payment{Address: addr, Amount: amount}, nil
}
