package tx

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/klingon-exchange/utxokit/internal/address"
	"github.com/klingon-exchange/utxokit/internal/chain"
	"github.com/klingon-exchange/utxokit/internal/varint"
)

// SigHashType selects which parts of the transaction a signature commits to.
type SigHashType uint32

const (
	SigHashAll          SigHashType = 0x01
	SigHashNone         SigHashType = 0x02
	SigHashSingle       SigHashType = 0x03
	SigHashForkID       SigHashType = 0x40
	SigHashAnyOneCanPay SigHashType = 0x80

	sigHashMask = 0x1f
)

func (t SigHashType) base() SigHashType {
	return t & sigHashMask
}

func (t SigHashType) anyoneCanPay() bool {
	return t&SigHashAnyOneCanPay != 0
}

// SigHashPreimage returns the byte string whose double SHA-256 input i signs.
// Legacy inputs use the original algorithm; segwit inputs and every input on
// a fork-id network use BIP-143.
func (t *Transaction) SigHashPreimage(i int) ([]byte, error) {
	in, err := t.input(i)
	if err != nil {
		return nil, err
	}
	if in.usesWitnessDigest() {
		return t.witnessPreimage(i, in)
	}
	return t.legacyPreimage(i, in)
}

// SigHash returns the digest input i signs.
func (t *Transaction) SigHash(i int) ([]byte, error) {
	in, err := t.input(i)
	if err != nil {
		return nil, err
	}

	// SIGHASH_SINGLE past the last output signs the constant 1.
	if !in.usesWitnessDigest() && in.sigHashType().base() == SigHashSingle && i >= len(t.Outputs) {
		var one chainhash.Hash
		one[0] = 0x01
		return one[:], nil
	}

	preimage, err := t.SigHashPreimage(i)
	if err != nil {
		return nil, err
	}
	return chainhash.DoubleHashB(preimage), nil
}

func (t *Transaction) legacyPreimage(idx int, signed *Input) ([]byte, error) {
	script := signed.scriptPubKey()
	if len(script) == 0 {
		return nil, fmt.Errorf("input %d: %w", idx, ErrMissingScriptPubKey)
	}

	hashType := signed.sigHashType()
	if hashType.base() == SigHashSingle && idx >= len(t.Outputs) {
		return nil, fmt.Errorf("input %d: %w", idx, ErrSigHashSingle)
	}

	b := make([]byte, 0, t.baseSize()+len(script)+4)
	b = appendUint32(b, t.Version)

	if hashType.anyoneCanPay() {
		b = varint.Append(b, 1)
		b = appendInput(b, signed, script, signed.Sequence)
	} else {
		b = varint.Append(b, uint64(len(t.Inputs)))
		for j, in := range t.Inputs {
			if j == idx {
				b = appendInput(b, in, script, in.Sequence)
				continue
			}
			seq := in.Sequence
			if hashType.base() == SigHashNone || hashType.base() == SigHashSingle {
				seq = 0
			}
			b = appendInput(b, in, nil, seq)
		}
	}

	switch hashType.base() {
	case SigHashNone:
		b = varint.Append(b, 0)
	case SigHashSingle:
		b = varint.Append(b, uint64(idx+1))
		for j := 0; j < idx; j++ {
			// blanked: value -1, empty script
			b = appendUint64(b, ^uint64(0))
			b = varint.Append(b, 0)
		}
		b = t.Outputs[idx].appendTo(b)
	default:
		b = varint.Append(b, uint64(len(t.Outputs)))
		for _, out := range t.Outputs {
			b = out.appendTo(b)
		}
	}

	b = appendUint32(b, t.LockTime)
	return appendUint32(b, uint32(hashType)), nil
}

func (t *Transaction) witnessPreimage(idx int, signed *Input) ([]byte, error) {
	if !signed.hasAmount {
		return nil, fmt.Errorf("input %d: %w", idx, ErrMissingAmount)
	}
	scriptCode, err := signed.scriptCode()
	if err != nil {
		return nil, fmt.Errorf("input %d: %w", idx, err)
	}

	hashType := signed.sigHashType()
	var hashPrevouts, hashSequence, hashOutputs [chainhash.HashSize]byte

	if !hashType.anyoneCanPay() {
		buf := make([]byte, 0, 36*len(t.Inputs))
		for _, in := range t.Inputs {
			buf = in.Outpoint.appendTo(buf)
		}
		hashPrevouts = chainhash.DoubleHashH(buf)
	}

	if !hashType.anyoneCanPay() && hashType.base() != SigHashSingle && hashType.base() != SigHashNone {
		buf := make([]byte, 0, 4*len(t.Inputs))
		for _, in := range t.Inputs {
			buf = appendUint32(buf, in.Sequence)
		}
		hashSequence = chainhash.DoubleHashH(buf)
	}

	switch {
	case hashType.base() != SigHashSingle && hashType.base() != SigHashNone:
		var buf []byte
		for _, out := range t.Outputs {
			buf = out.appendTo(buf)
		}
		hashOutputs = chainhash.DoubleHashH(buf)
	case hashType.base() == SigHashSingle && idx < len(t.Outputs):
		hashOutputs = chainhash.DoubleHashH(t.Outputs[idx].appendTo(nil))
	}

	b := make([]byte, 0, 4+32+32+36+varint.Size(uint64(len(scriptCode)))+len(scriptCode)+8+4+32+4+4)
	b = appendUint32(b, t.Version)
	b = append(b, hashPrevouts[:]...)
	b = append(b, hashSequence[:]...)
	b = signed.Outpoint.appendTo(b)
	b = varint.Append(b, uint64(len(scriptCode)))
	b = append(b, scriptCode...)
	b = appendUint64(b, uint64(signed.amount))
	b = appendUint32(b, signed.Sequence)
	b = append(b, hashOutputs[:]...)
	b = appendUint32(b, t.LockTime)
	return appendUint32(b, uint32(hashType)), nil
}

// scriptCode is the script committed to by the BIP-143 preimage.
func (in *Input) scriptCode() ([]byte, error) {
	if in.address == nil {
		return nil, ErrMissingAddress
	}
	switch in.format() {
	case chain.FormatP2WSH:
		if len(in.redeemScript) == 0 {
			return nil, ErrMissingRedeemScript
		}
		return in.redeemScript, nil
	case chain.FormatP2SHP2WPKH:
		// redeem script is OP_0 <20-byte key hash>
		if len(in.redeemScript) != 22 {
			return nil, ErrMissingRedeemScript
		}
		return address.P2PKHScript(in.redeemScript[2:]), nil
	default:
		return address.P2PKHScript(in.address.Hash()), nil
	}
}

func appendInput(b []byte, in *Input, script []byte, sequence uint32) []byte {
	b = in.Outpoint.appendTo(b)
	b = varint.Append(b, uint64(len(script)))
	b = append(b, script...)
	return appendUint32(b, sequence)
}

func appendUint32(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

func appendUint64(b []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(b, v)
}
