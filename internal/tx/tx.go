// Package tx implements the transaction model of Bitcoin-family chains:
// inputs and outputs, the legacy and BIP-143 signature hashes, signature
// placement, and the wire serialization with and without witness data.
package tx

import (
	"errors"
	"fmt"
)

var (
	ErrNoInputs            = errors.New("transaction has no inputs")
	ErrNoOutputs           = errors.New("transaction has no outputs")
	ErrInputIndex          = errors.New("input index out of range")
	ErrMissingScriptPubKey = errors.New("input has no resolvable script_pubkey")
	ErrMissingAmount       = errors.New("segwit input requires the spent amount")
	ErrMissingAddress      = errors.New("input has no address")
	ErrMissingRedeemScript = errors.New("input has no redeem or witness script")
	ErrMissingPublicKey    = errors.New("input has no bound public key")
	ErrInvalidState        = errors.New("invalid input state")
	ErrPublicKeyMismatch   = errors.New("public key does not match input address")
	ErrSegwitFlagRequired  = errors.New("witness data requires the segwit flag")
	ErrSigHashSingle       = errors.New("SIGHASH_SINGLE without a matching output has no preimage")
	ErrInvalidSegwitFlag   = errors.New("invalid segwit flag")
	ErrTrailingBytes       = errors.New("trailing bytes after transaction")
	ErrMalformed           = errors.New("malformed transaction")
)

// Default values for new transactions.
const (
	DefaultVersion     uint32 = 2
	MaxSequence        uint32 = 0xffffffff
	RBFSequence        uint32 = MaxSequence - 2
	witnessScaleFactor        = 4
)

// Params is the caller supplied content of a transaction.
type Params struct {
	Version  uint32
	Inputs   []*Input
	Outputs  []*Output
	LockTime uint32
	Segwit   bool
}

// Transaction wraps Params. Serialized bytes and ids are derived on demand.
type Transaction struct {
	Params
}

// New creates a transaction from params.
func New(params Params) (*Transaction, error) {
	if len(params.Inputs) == 0 {
		return nil, ErrNoInputs
	}
	if len(params.Outputs) == 0 {
		return nil, ErrNoOutputs
	}
	for i, in := range params.Inputs {
		if in == nil {
			return nil, fmt.Errorf("input %d is nil", i)
		}
	}
	for i, out := range params.Outputs {
		if out == nil {
			return nil, fmt.Errorf("output %d is nil", i)
		}
	}
	return &Transaction{Params: params}, nil
}

func (t *Transaction) input(i int) (*Input, error) {
	if i < 0 || i >= len(t.Inputs) {
		return nil, fmt.Errorf("%w: %d of %d", ErrInputIndex, i, len(t.Inputs))
	}
	return t.Inputs[i], nil
}

// IsSigned reports whether every input carries a script_sig or witness.
func (t *Transaction) IsSigned() bool {
	for _, in := range t.Inputs {
		if !in.IsSigned() {
			return false
		}
	}
	return true
}
