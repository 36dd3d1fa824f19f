// Package wallet - Transaction building and signing for wallet operations.
package wallet

import (
	"errors"
	"fmt"
	"math"

	"github.com/klingon-exchange/utxokit/internal/address"
	"github.com/klingon-exchange/utxokit/internal/chain"
	"github.com/klingon-exchange/utxokit/internal/crypto"
	"github.com/klingon-exchange/utxokit/internal/tx"
	"github.com/klingon-exchange/utxokit/pkg/logging"
)

var (
	ErrNoUTXOs           = errors.New("no UTXOs provided")
	ErrNoPayments        = errors.New("no payments provided")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("payments exceed the value of the UTXOs")
	ErrNoSigner          = errors.New("no signer for input")
	ErrAmountOverflow    = errors.New("amount total overflows int64")
)

// UTXO is an unspent output the caller wants to spend.
type UTXO struct {
	TxID    string `json:"txid"`
	Vout    uint32 `json:"vout"`
	Amount  int64  `json:"amount"`
	Address string `json:"address"`

	// WitnessScript is required for p2wsh outputs.
	WitnessScript []byte `json:"-"`
}

// Payment is one output of the transaction.
type Payment struct {
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
}

// Options tunes the transaction envelope.
type Options struct {
	Version  uint32 // 0 means tx.DefaultVersion
	LockTime uint32
	RBF      bool // signal replace-by-fee on every input
}

// SignerResolver returns the signer that owns an input address.
// It lets one transaction spend UTXOs of several keys.
type SignerResolver interface {
	SignerFor(addr *address.Address) (crypto.Signer, error)
}

// KeySet is a SignerResolver over a fixed set of signers. Each signer is
// registered under every address the network can derive from its key.
type KeySet struct {
	signers map[string]crypto.Signer
}

// NewKeySet indexes signers by their addresses on params.
func NewKeySet(params *chain.Params, signers ...crypto.Signer) (*KeySet, error) {
	ks := &KeySet{signers: make(map[string]crypto.Signer)}
	for _, signer := range signers {
		addrs, err := address.AllFormats(signer.PublicKey(), params)
		if err != nil {
			return nil, fmt.Errorf("failed to derive signer addresses: %w", err)
		}
		for _, addr := range addrs {
			ks.signers[addr.String()] = signer
		}
	}
	return ks, nil
}

// Register maps one more address to signer, e.g. a p2wsh address whose
// witness script the signer's key unlocks.
func (ks *KeySet) Register(addr *address.Address, signer crypto.Signer) {
	if ks.signers == nil {
		ks.signers = make(map[string]crypto.Signer)
	}
	ks.signers[addr.String()] = signer
}

// SignerFor implements SignerResolver.
func (ks *KeySet) SignerFor(addr *address.Address) (crypto.Signer, error) {
	signer, ok := ks.signers[addr.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSigner, addr)
	}
	return signer, nil
}

// BuildTransaction converts UTXOs and payments into an unsigned transaction.
// The segwit flag is set when any input spends a segwit format. Whatever the
// payments leave over is the fee; no change output is added.
func BuildTransaction(params *chain.Params, utxos []UTXO, payments []Payment, opts Options) (*tx.Transaction, error) {
	if len(utxos) == 0 {
		return nil, ErrNoUTXOs
	}
	if len(payments) == 0 {
		return nil, ErrNoPayments
	}

	log := logging.GetDefault().Component("wallet")

	sequence := tx.MaxSequence
	if opts.RBF {
		sequence = tx.RBFSequence
	}

	var totalIn int64
	segwit := false
	inputs := make([]*tx.Input, 0, len(utxos))
	for i, u := range utxos {
		if u.Amount <= 0 {
			return nil, fmt.Errorf("utxo %d: %w", i, ErrInvalidAmount)
		}
		outpoint, err := tx.NewOutpointFromString(u.TxID, u.Vout)
		if err != nil {
			return nil, fmt.Errorf("utxo %d: %w", i, err)
		}
		addr, err := address.Parse(u.Address, params)
		if err != nil {
			return nil, fmt.Errorf("utxo %d: %w", i, err)
		}

		in := tx.NewInputFromAddress(outpoint, sequence, addr, u.Amount)
		if len(u.WitnessScript) > 0 {
			if err := in.BindWitnessScript(u.WitnessScript, params); err != nil {
				return nil, fmt.Errorf("utxo %d: %w", i, err)
			}
		}

		if totalIn > math.MaxInt64-u.Amount {
			return nil, fmt.Errorf("utxo %d: %w", i, ErrAmountOverflow)
		}
		segwit = segwit || addr.Format().IsSegwit()
		totalIn += u.Amount
		inputs = append(inputs, in)
	}

	var totalOut int64
	outputs := make([]*tx.Output, 0, len(payments))
	for i, p := range payments {
		if p.Amount <= 0 {
			return nil, fmt.Errorf("payment %d: %w", i, ErrInvalidAmount)
		}
		addr, err := address.Parse(p.Address, params)
		if err != nil {
			return nil, fmt.Errorf("payment %d: %w", i, err)
		}
		if totalOut > math.MaxInt64-p.Amount {
			return nil, fmt.Errorf("payment %d: %w", i, ErrAmountOverflow)
		}
		totalOut += p.Amount
		outputs = append(outputs, tx.NewOutputToAddress(addr, p.Amount))
	}

	if totalOut > totalIn {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, totalOut, totalIn)
	}

	version := opts.Version
	if version == 0 {
		version = tx.DefaultVersion
	}

	t, err := tx.New(tx.Params{
		Version:  version,
		Inputs:   inputs,
		Outputs:  outputs,
		LockTime: opts.LockTime,
		Segwit:   segwit,
	})
	if err != nil {
		return nil, err
	}

	log.Debug("Built transaction",
		"chain", params,
		"inputs", len(inputs),
		"outputs", len(outputs),
		"fee", totalIn-totalOut,
		"segwit", segwit,
		"rbf", opts.RBF)

	return t, nil
}

// SignAll signs every input in order with one signer.
func SignAll(t *tx.Transaction, signer crypto.Signer) error {
	return SignAllWith(t, singleSigner{signer})
}

// SignAllWith signs every input in order with the signer the resolver
// returns for the input address.
func SignAllWith(t *tx.Transaction, resolver SignerResolver) error {
	log := logging.GetDefault().Component("wallet")

	for i, in := range t.Inputs {
		if in.IsSigned() {
			continue
		}
		addr := in.Address()
		if addr == nil {
			return fmt.Errorf("input %d: %w", i, tx.ErrMissingAddress)
		}
		signer, err := resolver.SignerFor(addr)
		if err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
		if err := t.SignInput(i, signer); err != nil {
			return err
		}
		log.Debug("Signed input", "index", i, "outpoint", in.Outpoint, "format", addr.Format())
	}
	return nil
}

// BuildAndSignTx builds a transaction, signs every input with signer and
// returns the serialized transaction hex ready for broadcast.
func BuildAndSignTx(params *chain.Params, utxos []UTXO, payments []Payment, signer crypto.Signer, opts Options) (string, error) {
	t, err := BuildTransaction(params, utxos, payments, opts)
	if err != nil {
		return "", err
	}
	if err := SignAll(t, signer); err != nil {
		return "", err
	}

	logging.GetDefault().Component("wallet").Debug("Transaction signed",
		"txid", t.TxID(),
		"vsize", t.VirtualSize())

	return t.Hex(), nil
}

type singleSigner struct {
	signer crypto.Signer
}

func (s singleSigner) SignerFor(*address.Address) (crypto.Signer, error) {
	return s.signer, nil
}
