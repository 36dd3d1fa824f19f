package tx

import (
	"bytes"

	"github.com/klingon-exchange/utxokit/internal/address"
	"github.com/klingon-exchange/utxokit/internal/chain"
	"github.com/klingon-exchange/utxokit/internal/varint"
)

// Output is an immutable amount and locking script.
type Output struct {
	amount       int64
	scriptPubKey []byte
}

// NewOutput creates an output paying amount to a raw script.
func NewOutput(amount int64, scriptPubKey []byte) *Output {
	return &Output{amount: amount, scriptPubKey: bytes.Clone(scriptPubKey)}
}

// NewOutputToAddress creates an output paying amount to addr.
func NewOutputToAddress(addr *address.Address, amount int64) *Output {
	return &Output{amount: amount, scriptPubKey: addr.ScriptPubKey()}
}

// Amount returns the output value in the chain's base unit.
func (o *Output) Amount() int64 {
	return o.amount
}

// ScriptPubKey returns a copy of the locking script.
func (o *Output) ScriptPubKey() []byte {
	return bytes.Clone(o.scriptPubKey)
}

// Address decodes the locking script for a network.
func (o *Output) Address(params *chain.Params) (*address.Address, error) {
	return address.FromScriptPubKey(o.scriptPubKey, params)
}

func (o *Output) appendTo(b []byte) []byte {
	b = appendUint64(b, uint64(o.amount))
	b = varint.Append(b, uint64(len(o.scriptPubKey)))
	return append(b, o.scriptPubKey...)
}
