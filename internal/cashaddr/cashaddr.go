// Package cashaddr implements the Bitcoin Cash address encoding: a prefixed
// base-32 payload protected by a 40-bit BCH checksum.
package cashaddr

import (
	"errors"
	"fmt"
	"strings"
)

const (
	alphabet     = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"
	separator    = ':'
	checksumSize = 8
)

// Address types carried in the high bits of the version byte.
const (
	TypeP2KH byte = 0
	TypeP2SH byte = 1
)

var (
	ErrMixedCase       = errors.New("cashaddr: mixed case")
	ErrInvalidPrefix   = errors.New("cashaddr: invalid prefix")
	ErrMissingPrefix   = errors.New("cashaddr: no prefix given")
	ErrInvalidLength   = errors.New("cashaddr: invalid length")
	ErrInvalidVersion  = errors.New("cashaddr: invalid version byte")
	ErrInvalidHashSize = errors.New("cashaddr: hash size does not match version byte")
	ErrInvalidPadding  = errors.New("cashaddr: invalid padding")
)

// InvalidCharacterError reports a character outside the CashAddr alphabet.
type InvalidCharacterError struct {
	Char rune
	Pos  int
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("cashaddr: invalid character %q at position %d", e.Char, e.Pos)
}

// ChecksumError reports a checksum mismatch with both checksum encodings.
type ChecksumError struct {
	Expected string
	Actual   string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("cashaddr: invalid checksum (expected %s got %s)", e.Expected, e.Actual)
}

// hash sizes indexed by the 3-bit size code
var hashSizes = [8]int{20, 24, 28, 32, 40, 48, 56, 64}

func sizeCode(n int) (byte, bool) {
	for code, size := range hashSizes {
		if size == n {
			return byte(code), true
		}
	}
	return 0, false
}

// polymod runs the 40-bit checksum accumulator over 5-bit values.
func polymod(values []byte) uint64 {
	c := uint64(1)
	for _, d := range values {
		c0 := byte(c >> 35)
		c = (c&0x07ffffffff)<<5 ^ uint64(d)

		if c0&0x01 != 0 {
			c ^= 0x98f2bc8e61
		}
		if c0&0x02 != 0 {
			c ^= 0x79b76d99e2
		}
		if c0&0x04 != 0 {
			c ^= 0xf33e5fb3c4
		}
		if c0&0x08 != 0 {
			c ^= 0xae2eabe2a8
		}
		if c0&0x10 != 0 {
			c ^= 0x1e4f43e470
		}
	}
	return c ^ 1
}

// feed assembles prefix, separator and payload in checksum input order.
func feed(prefix string, payload []byte) []byte {
	values := make([]byte, 0, len(prefix)+1+len(payload)+checksumSize)
	for i := 0; i < len(prefix); i++ {
		values = append(values, prefix[i]&0x1f)
	}
	values = append(values, 0)
	return append(values, payload...)
}

func checksum(prefix string, payload []byte) []byte {
	values := append(feed(prefix, payload), make([]byte, checksumSize)...)
	mod := polymod(values)

	// 40 bits, big-endian, as eight 5-bit symbols
	sum := make([]byte, checksumSize)
	for i := range sum {
		sum[i] = byte(mod>>(5*(checksumSize-1-i))) & 0x1f
	}
	return sum
}

func verifyChecksum(prefix string, data []byte) bool {
	return polymod(feed(prefix, data)) == 0
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return ErrMissingPrefix
	}
	for i := 0; i < len(prefix); i++ {
		c := prefix[i]
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') {
			return fmt.Errorf("%w: %q", ErrInvalidPrefix, prefix)
		}
	}
	return nil
}

// Encode builds "prefix:payload" for a hash of the given address type.
func Encode(prefix string, addrType byte, hash []byte) (string, error) {
	prefix = strings.ToLower(prefix)
	if err := validatePrefix(prefix); err != nil {
		return "", err
	}
	if addrType > 0x0f {
		return "", fmt.Errorf("%w: type %d", ErrInvalidVersion, addrType)
	}
	code, ok := sizeCode(len(hash))
	if !ok {
		return "", fmt.Errorf("%w: %d bytes", ErrInvalidHashSize, len(hash))
	}

	raw := make([]byte, 0, 1+len(hash))
	raw = append(raw, addrType<<3|code)
	raw = append(raw, hash...)

	payload, err := convertBits(raw, 8, 5, true)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(len(prefix) + 1 + len(payload) + checksumSize)
	sb.WriteString(prefix)
	sb.WriteByte(separator)
	for _, d := range payload {
		sb.WriteByte(alphabet[d])
	}
	for _, d := range checksum(prefix, payload) {
		sb.WriteByte(alphabet[d])
	}
	return sb.String(), nil
}

// Decode parses a CashAddr string. Without an explicit "prefix:" part the
// checksum is verified against defaultPrefix. It returns the lowercase prefix
// the checksum was verified against, the address type and the hash.
func Decode(s, defaultPrefix string) (string, byte, []byte, error) {
	lower := strings.ToLower(s)
	if lower != s && strings.ToUpper(s) != s {
		return "", 0, nil, ErrMixedCase
	}

	prefix := strings.ToLower(defaultPrefix)
	body := lower
	offset := 0
	if i := strings.IndexByte(lower, separator); i >= 0 {
		prefix = lower[:i]
		body = lower[i+1:]
		offset = i + 1
	}
	if err := validatePrefix(prefix); err != nil {
		return "", 0, nil, err
	}
	if len(body) <= checksumSize {
		return "", 0, nil, fmt.Errorf("%w: %d characters", ErrInvalidLength, len(body))
	}

	data := make([]byte, len(body))
	for i := 0; i < len(body); i++ {
		idx := strings.IndexByte(alphabet, body[i])
		if idx < 0 {
			return "", 0, nil, &InvalidCharacterError{Char: rune(s[offset+i]), Pos: offset + i}
		}
		data[i] = byte(idx)
	}

	payload := data[:len(data)-checksumSize]
	if !verifyChecksum(prefix, data) {
		expected := checksum(prefix, payload)
		exp := make([]byte, checksumSize)
		for i, d := range expected {
			exp[i] = alphabet[d]
		}
		return "", 0, nil, &ChecksumError{
			Expected: string(exp),
			Actual:   body[len(body)-checksumSize:],
		}
	}

	raw, err := convertBits(payload, 5, 8, false)
	if err != nil {
		return "", 0, nil, err
	}
	if len(raw) < 1 {
		return "", 0, nil, fmt.Errorf("%w: empty payload", ErrInvalidLength)
	}

	version := raw[0]
	if version&0x80 != 0 {
		return "", 0, nil, fmt.Errorf("%w: reserved bit set in 0x%02x", ErrInvalidVersion, version)
	}
	hash := raw[1:]
	if hashSizes[version&0x07] != len(hash) {
		return "", 0, nil, fmt.Errorf("%w: code %d, %d bytes", ErrInvalidHashSize, version&0x07, len(hash))
	}

	return prefix, version >> 3, hash, nil
}

// convertBits regroups between 8-bit bytes and 5-bit symbols.
func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	var acc uint32
	var bits uint
	maxv := uint32(1)<<toBits - 1
	out := make([]byte, 0, len(data)*int(fromBits)/int(toBits)+1)

	for _, b := range data {
		acc = acc<<fromBits | uint32(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte(acc>>bits&maxv))
		}
	}

	if pad {
		if bits > 0 {
			out = append(out, byte(acc<<(toBits-bits)&maxv))
		}
	} else if bits >= fromBits || acc<<(toBits-bits)&maxv != 0 {
		return nil, ErrInvalidPadding
	}
	return out, nil
}
