package tx

import (
	"bytes"
	"fmt"

	"github.com/klingon-exchange/utxokit/internal/address"
	"github.com/klingon-exchange/utxokit/internal/chain"
)

// InputState tracks how far an input has progressed towards being signed.
type InputState int

const (
	StateUnsigned InputState = iota
	StateKeyBound
	StateSigned
)

func (s InputState) String() string {
	switch s {
	case StateUnsigned:
		return "unsigned"
	case StateKeyBound:
		return "key-bound"
	case StateSigned:
		return "signed"
	}
	return fmt.Sprintf("InputState(%d)", int(s))
}

// Input spends an outpoint. The optional address, amount and scripts describe
// the output being spent and are needed to compute its signature hash.
type Input struct {
	Outpoint Outpoint
	Sequence uint32

	// SigHashType zero means SIGHASH_ALL, with FORKID on fork-id networks.
	SigHashType SigHashType

	address   *address.Address
	amount    int64
	hasAmount bool

	pubKey       []byte
	redeemScript []byte // p2sh-p2wpkh redeem script or p2wsh witness script

	scriptSig []byte
	witness   [][]byte
	state     InputState
}

// NewInput creates an unsigned input.
func NewInput(outpoint Outpoint, sequence uint32) *Input {
	return &Input{Outpoint: outpoint, Sequence: sequence}
}

// NewInputFromAddress creates an unsigned input spending amount locked to addr.
func NewInputFromAddress(outpoint Outpoint, sequence uint32, addr *address.Address, amount int64) *Input {
	in := NewInput(outpoint, sequence)
	in.address = addr
	in.amount = amount
	in.hasAmount = true
	return in
}

// SetAddress attaches the address of the spent output.
func (in *Input) SetAddress(addr *address.Address) error {
	if in.state != StateUnsigned {
		return fmt.Errorf("%w: cannot change address of %s input", ErrInvalidState, in.state)
	}
	in.address = addr
	return nil
}

// SetAmount attaches the value of the spent output.
func (in *Input) SetAmount(amount int64) error {
	if in.state == StateSigned {
		return fmt.Errorf("%w: cannot change amount of signed input", ErrInvalidState)
	}
	in.amount = amount
	in.hasAmount = true
	return nil
}

// Address returns the address of the spent output, or nil.
func (in *Input) Address() *address.Address {
	return in.address
}

// Amount returns the value of the spent output if known.
func (in *Input) Amount() (int64, bool) {
	return in.amount, in.hasAmount
}

// PublicKey returns the bound public key.
func (in *Input) PublicKey() []byte {
	return bytes.Clone(in.pubKey)
}

// RedeemScript returns the p2sh-p2wpkh redeem script or the p2wsh witness script.
func (in *Input) RedeemScript() []byte {
	return bytes.Clone(in.redeemScript)
}

// ScriptSig returns the unlocking script.
func (in *Input) ScriptSig() []byte {
	return bytes.Clone(in.scriptSig)
}

// Witness returns the witness stack.
func (in *Input) Witness() [][]byte {
	out := make([][]byte, len(in.witness))
	for i, item := range in.witness {
		out[i] = bytes.Clone(item)
	}
	return out
}

// State returns the input state.
func (in *Input) State() InputState {
	return in.state
}

// IsSigned reports whether the input carries a script_sig or witness.
func (in *Input) IsSigned() bool {
	return in.state == StateSigned
}

// BindPublicKey binds the key that will sign the input. The key must derive
// the input address when one is attached; otherwise the derived address is
// attached. P2WSH inputs bind a witness script instead.
func (in *Input) BindPublicKey(pubKey []byte, format chain.Format, params *chain.Params) error {
	if in.state != StateUnsigned {
		return fmt.Errorf("%w: bind key on %s input", ErrInvalidState, in.state)
	}
	if format == chain.FormatP2WSH {
		return fmt.Errorf("%w: p2wsh inputs bind a witness script", ErrInvalidState)
	}

	derived, err := address.FromPublicKey(pubKey, format, params)
	if err != nil {
		return err
	}
	if in.address != nil && !in.address.Equal(derived) {
		return fmt.Errorf("%w: key derives %s, input spends %s", ErrPublicKeyMismatch, derived, in.address)
	}

	in.address = derived
	in.pubKey = bytes.Clone(pubKey)
	if format == chain.FormatP2SHP2WPKH {
		in.redeemScript = address.RedeemScriptP2WPKH(pubKey)
	}
	in.state = StateKeyBound
	return nil
}

// BindWitnessScript binds the witness script of a P2WSH input.
func (in *Input) BindWitnessScript(script []byte, params *chain.Params) error {
	if in.state != StateUnsigned {
		return fmt.Errorf("%w: bind witness script on %s input", ErrInvalidState, in.state)
	}

	derived, err := address.FromWitnessScript(script, params)
	if err != nil {
		return err
	}
	if in.address != nil && !in.address.Equal(derived) {
		return fmt.Errorf("%w: script derives %s, input spends %s", ErrPublicKeyMismatch, derived, in.address)
	}

	in.address = derived
	in.redeemScript = bytes.Clone(script)
	in.state = StateKeyBound
	return nil
}

// format returns the address format, or "" without an address.
func (in *Input) format() chain.Format {
	if in.address == nil {
		return ""
	}
	return in.address.Format()
}

// usesWitnessDigest reports whether the input signs the BIP-143 preimage.
func (in *Input) usesWitnessDigest() bool {
	if in.address == nil {
		return false
	}
	return in.format().IsSegwit() || in.address.Params().ForkID
}

// sigHashType resolves the zero value to the network default.
func (in *Input) sigHashType() SigHashType {
	t := in.SigHashType
	if t == 0 {
		t = SigHashAll
	}
	if in.address != nil && in.address.Params().ForkID {
		t |= SigHashForkID
	}
	return t
}

// scriptPubKey returns the locking script of the spent output, if known.
func (in *Input) scriptPubKey() []byte {
	if in.address == nil {
		return nil
	}
	return in.address.ScriptPubKey()
}

// serializedScript is the script written into the input slot: the script_sig
// when present, else the spent script_pubkey for legacy inputs, else empty.
func (in *Input) serializedScript() []byte {
	if len(in.scriptSig) > 0 {
		return in.scriptSig
	}
	if in.state != StateSigned && in.address != nil && !in.format().IsSegwit() {
		return in.scriptPubKey()
	}
	return nil
}
