// Package address derives, encodes and parses Bitcoin-family addresses and
// converts between addresses and output scripts.
package address

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/klingon-exchange/utxokit/internal/chain"
	"github.com/klingon-exchange/utxokit/internal/crypto"
)

var (
	ErrHashLength          = errors.New("invalid hash length for address format")
	ErrNetworkMismatch     = errors.New("address belongs to a different network")
	ErrUnrecognizedScript  = errors.New("unrecognized script_pubkey")
	ErrUnrecognizedAddress = errors.New("unrecognized address encoding")
	ErrInvalidPublicKey    = errors.New("invalid public key")
	ErrWitnessVersion      = errors.New("unsupported witness version")
)

// Address is an encoded address together with the hash it commits to.
// Values are immutable and only produced by this package.
type Address struct {
	encoded string
	format  chain.Format
	params  *chain.Params
	hash    []byte
}

// String returns the encoded address.
func (a *Address) String() string {
	return a.encoded
}

// Format returns the address format.
func (a *Address) Format() chain.Format {
	return a.format
}

// Params returns the network the address was encoded for.
func (a *Address) Params() *chain.Params {
	return a.params
}

// Hash returns a copy of the pubkey hash, script hash or witness program.
func (a *Address) Hash() []byte {
	return bytes.Clone(a.hash)
}

// Equal reports whether two addresses commit to the same hash in the same
// format on the same network.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.format == other.format &&
		a.params == other.params &&
		bytes.Equal(a.hash, other.hash)
}

// FromHash encodes a hash in the given format for a network.
func FromHash(hash []byte, format chain.Format, params *chain.Params) (*Address, error) {
	if _, err := params.Constants(format); err != nil {
		return nil, err
	}
	if len(hash) != format.HashSize() {
		return nil, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrHashLength, format, format.HashSize(), len(hash))
	}

	encoded, err := codecFor(format).encode(format, hash, params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s address: %w", format, err)
	}

	return &Address{
		encoded: encoded,
		format:  format,
		params:  params,
		hash:    bytes.Clone(hash),
	}, nil
}

// FromPublicKey derives an address from a serialized public key.
// For P2WSH the bytes are taken as a witness script, see FromWitnessScript.
func FromPublicKey(pubKey []byte, format chain.Format, params *chain.Params) (*Address, error) {
	if format == chain.FormatP2WSH {
		return FromWitnessScript(pubKey, params)
	}
	if _, err := btcec.ParsePubKey(pubKey); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	switch format {
	case chain.FormatP2SHP2WPKH:
		return FromHash(crypto.Hash160(RedeemScriptP2WPKH(pubKey)), format, params)
	default:
		return FromHash(crypto.Hash160(pubKey), format, params)
	}
}

// FromWitnessScript derives a P2WSH address from a witness script.
func FromWitnessScript(script []byte, params *chain.Params) (*Address, error) {
	if len(script) == 0 {
		return nil, fmt.Errorf("%w: empty witness script", ErrHashLength)
	}
	return FromHash(crypto.Sha256(script), chain.FormatP2WSH, params)
}

// AllFormats derives every single-key address the network supports.
func AllFormats(pubKey []byte, params *chain.Params) (map[chain.Format]*Address, error) {
	addresses := make(map[chain.Format]*Address)
	for _, format := range params.SupportedFormats {
		// P2WSH commits to a script, not a key
		if format == chain.FormatP2WSH {
			continue
		}
		addr, err := FromPublicKey(pubKey, format, params)
		if err != nil {
			return nil, err
		}
		addresses[format] = addr
	}
	return addresses, nil
}
