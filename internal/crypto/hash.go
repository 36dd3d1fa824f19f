// Package crypto provides the hashing primitives and the signing capability
// consumed by the address codec and the transaction engine.
package crypto

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Sha256 returns SHA256(data).
func Sha256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// DoubleSha256 returns SHA256(SHA256(data)).
func DoubleSha256(data []byte) []byte {
	return chainhash.DoubleHashB(data)
}

// Hash160 computes RIPEMD160(SHA256(data)).
func Hash160(data []byte) []byte {
	return btcutil.Hash160(data)
}
