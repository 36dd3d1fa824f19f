package tx

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/klingon-exchange/utxokit/internal/varint"
)

const (
	segwitMarker byte = 0x00
	segwitFlag   byte = 0x01
)

// Serialize returns the wire encoding. With the segwit flag set it carries the
// marker and flag bytes and one witness stack per input.
func (t *Transaction) Serialize() []byte {
	return t.serialize(t.Segwit)
}

// SerializeNoWitness returns the wire encoding without marker, flag and witness
// data, the form hashed into the txid.
func (t *Transaction) SerializeNoWitness() []byte {
	return t.serialize(false)
}

func (t *Transaction) serialize(witness bool) []byte {
	size := t.baseSize()
	if witness {
		size += t.witnessSize()
	}

	b := make([]byte, 0, size)
	b = appendUint32(b, t.Version)
	if witness {
		b = append(b, segwitMarker, segwitFlag)
	}

	b = varint.Append(b, uint64(len(t.Inputs)))
	for _, in := range t.Inputs {
		b = appendInput(b, in, in.serializedScript(), in.Sequence)
	}

	b = varint.Append(b, uint64(len(t.Outputs)))
	for _, out := range t.Outputs {
		b = out.appendTo(b)
	}

	if witness {
		for _, in := range t.Inputs {
			b = appendWitness(b, in.witness)
		}
	}

	return appendUint32(b, t.LockTime)
}

func appendWitness(b []byte, stack [][]byte) []byte {
	b = varint.Append(b, uint64(len(stack)))
	for _, item := range stack {
		b = varint.Append(b, uint64(len(item)))
		b = append(b, item...)
	}
	return b
}

// baseSize is the length of the serialization without witness data.
func (t *Transaction) baseSize() int {
	n := 4 + varint.Size(uint64(len(t.Inputs))) + varint.Size(uint64(len(t.Outputs))) + 4
	for _, in := range t.Inputs {
		script := in.serializedScript()
		n += 36 + varint.Size(uint64(len(script))) + len(script) + 4
	}
	for _, out := range t.Outputs {
		n += 8 + varint.Size(uint64(len(out.scriptPubKey))) + len(out.scriptPubKey)
	}
	return n
}

// witnessSize is the length of marker, flag and witness stacks.
func (t *Transaction) witnessSize() int {
	n := 2
	for _, in := range t.Inputs {
		n += varint.Size(uint64(len(in.witness)))
		for _, item := range in.witness {
			n += varint.Size(uint64(len(item))) + len(item)
		}
	}
	return n
}

// TxID returns the double SHA-256 of the serialization without witness data.
// Its String form is the reversed display id.
func (t *Transaction) TxID() chainhash.Hash {
	return chainhash.DoubleHashH(t.SerializeNoWitness())
}

// WitnessID returns the double SHA-256 of the full serialization.
func (t *Transaction) WitnessID() chainhash.Hash {
	return chainhash.DoubleHashH(t.Serialize())
}

// Hex returns the hex encoded serialization.
func (t *Transaction) Hex() string {
	return hex.EncodeToString(t.Serialize())
}

// Weight returns the BIP-141 weight: base size times three plus total size.
func (t *Transaction) Weight() int {
	base := t.baseSize()
	total := base
	if t.Segwit {
		total += t.witnessSize()
	}
	return base*(witnessScaleFactor-1) + total
}

// VirtualSize returns the weight divided by four, rounded up.
func (t *Transaction) VirtualSize() int {
	return (t.Weight() + witnessScaleFactor - 1) / witnessScaleFactor
}
