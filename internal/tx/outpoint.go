package tx

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Outpoint references an output of a previous transaction. Hash is kept in
// wire order; its String form is the reversed display txid.
type Outpoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutpointFromString parses a display txid.
func NewOutpointFromString(txid string, index uint32) (Outpoint, error) {
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return Outpoint{}, fmt.Errorf("invalid txid %q: %w", txid, err)
	}
	return Outpoint{Hash: *hash, Index: index}, nil
}

// String returns "txid:index".
func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.Hash, o.Index)
}

func (o Outpoint) appendTo(b []byte) []byte {
	b = append(b, o.Hash[:]...)
	return appendUint32(b, o.Index)
}
