// Package base58check implements Bitcoin's Base58Check encoding: Base58 over
// payload || first four bytes of double-SHA-256(payload).
package base58check

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	alphabet     = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	checksumSize = 4
)

// ErrInvalidLength is returned when the decoded data cannot hold a checksum.
var ErrInvalidLength = errors.New("base58check: invalid length")

// CountInvalid returns how many characters of s are outside the Base58 alphabet.
func CountInvalid(s string) int {
	n := 0
	for _, c := range s {
		if !strings.ContainsRune(alphabet, c) {
			n++
		}
	}
	return n
}

// ChecksumError reports a checksum mismatch with both values for diagnostics.
type ChecksumError struct {
	Expected [checksumSize]byte
	Actual   [checksumSize]byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("base58check: checksum mismatch: expected %s, got %s",
		hex.EncodeToString(e.Expected[:]), hex.EncodeToString(e.Actual[:]))
}

// InvalidCharacterError reports a character outside the Base58 alphabet.
type InvalidCharacterError struct {
	Char rune
	Pos  int
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("base58check: invalid character %q at position %d", e.Char, e.Pos)
}

// Checksum returns the first four bytes of double-SHA-256(payload).
func Checksum(payload []byte) [checksumSize]byte {
	var sum [checksumSize]byte
	copy(sum[:], chainhash.DoubleHashB(payload))
	return sum
}

// Encode returns Base58(payload || checksum).
func Encode(payload []byte) string {
	sum := Checksum(payload)
	buf := make([]byte, 0, len(payload)+checksumSize)
	buf = append(buf, payload...)
	buf = append(buf, sum[:]...)
	return base58.Encode(buf)
}

// Decode verifies the checksum and returns the payload without it.
func Decode(s string) ([]byte, error) {
	for i, c := range s {
		if !strings.ContainsRune(alphabet, c) {
			return nil, &InvalidCharacterError{Char: c, Pos: i}
		}
	}

	decoded := base58.Decode(s)
	if len(decoded) < checksumSize+1 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(decoded))
	}

	payload := decoded[:len(decoded)-checksumSize]
	var actual [checksumSize]byte
	copy(actual[:], decoded[len(decoded)-checksumSize:])

	if expected := Checksum(payload); expected != actual {
		return nil, &ChecksumError{Expected: expected, Actual: actual}
	}
	return payload, nil
}

// EncodeVersioned encodes version || hash.
func EncodeVersioned(version byte, hash []byte) string {
	payload := make([]byte, 0, 1+len(hash))
	payload = append(payload, version)
	payload = append(payload, hash...)
	return Encode(payload)
}

// DecodeVersioned splits a decoded payload into its version byte and body.
func DecodeVersioned(s string) (byte, []byte, error) {
	payload, err := Decode(s)
	if err != nil {
		return 0, nil, err
	}
	return payload[0], payload[1:], nil
}
