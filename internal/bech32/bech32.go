// Package bech32 implements the Bech32 (BIP-173) and Bech32m (BIP-350) checksummed
// encodings and the segwit address rules built on them.
package bech32

import (
	"errors"
	"fmt"
	"strings"
)

const (
	charset      = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"
	separator    = '1'
	checksumSize = 6
	maxLength    = 90

	bech32Const  = 1
	bech32mConst = 0x2bc830a3
)

// Variant selects the checksum constant.
type Variant int

const (
	Bech32 Variant = iota + 1
	Bech32m
)

func (v Variant) String() string {
	switch v {
	case Bech32:
		return "bech32"
	case Bech32m:
		return "bech32m"
	}
	return "unknown"
}

func (v Variant) constant() uint32 {
	if v == Bech32m {
		return bech32mConst
	}
	return bech32Const
}

var (
	ErrMixedCase        = errors.New("bech32: mixed case")
	ErrInvalidLength    = errors.New("bech32: invalid length")
	ErrInvalidSeparator = errors.New("bech32: invalid separator position")
	ErrEmptyData        = errors.New("bech32: empty data section")
	ErrInvalidPadding   = errors.New("bech32: invalid padding")
	ErrInvalidHRP       = errors.New("bech32: invalid human-readable prefix")
	ErrHRPMismatch      = errors.New("bech32: human-readable prefix mismatch")
	ErrInvalidDataByte  = errors.New("bech32: data value out of range")
)

// InvalidCharacterError reports a character outside the Bech32 charset.
type InvalidCharacterError struct {
	Char rune
	Pos  int
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("bech32: invalid character %q at position %d", e.Char, e.Pos)
}

// ChecksumError reports an invalid checksum with the expected and actual encodings.
type ChecksumError struct {
	Expected string
	Actual   string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("bech32: invalid checksum (expected %s got %s)", e.Expected, e.Actual)
}

func polymod(values []byte) uint32 {
	gen := [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}
	chk := uint32(1)
	for _, v := range values {
		b := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (b>>i)&1 == 1 {
				chk ^= gen[i]
			}
		}
	}
	return chk
}

func hrpExpand(hrp string) []byte {
	result := make([]byte, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		c := hrp[i]
		result[i] = c >> 5
		result[i+len(hrp)+1] = c & 31
	}
	return result
}

func createChecksum(hrp string, data []byte, v Variant) []byte {
	values := append(hrpExpand(hrp), data...)
	values = append(values, make([]byte, checksumSize)...)
	mod := polymod(values) ^ v.constant()
	sum := make([]byte, checksumSize)
	for i := range sum {
		sum[i] = byte(mod>>(5*(5-i))) & 31
	}
	return sum
}

// Encode encodes 5-bit groups with the Bech32 constant.
func Encode(hrp string, data []byte) (string, error) {
	return encode(hrp, data, Bech32)
}

// EncodeM encodes 5-bit groups with the Bech32m constant.
func EncodeM(hrp string, data []byte) (string, error) {
	return encode(hrp, data, Bech32m)
}

func encode(hrp string, data []byte, v Variant) (string, error) {
	if err := validateHRP(hrp); err != nil {
		return "", err
	}
	if len(hrp)+1+len(data)+checksumSize > maxLength {
		return "", fmt.Errorf("%w: %d characters", ErrInvalidLength, len(hrp)+1+len(data)+checksumSize)
	}
	hrp = strings.ToLower(hrp)

	var sb strings.Builder
	sb.Grow(len(hrp) + 1 + len(data) + checksumSize)
	sb.WriteString(hrp)
	sb.WriteByte(separator)
	for _, d := range data {
		if d > 31 {
			return "", fmt.Errorf("%w: %d", ErrInvalidDataByte, d)
		}
		sb.WriteByte(charset[d])
	}
	for _, d := range createChecksum(hrp, data, v) {
		sb.WriteByte(charset[d])
	}
	return sb.String(), nil
}

func validateHRP(hrp string) error {
	if len(hrp) == 0 || len(hrp) > 83 {
		return fmt.Errorf("%w: length %d", ErrInvalidHRP, len(hrp))
	}
	for i := 0; i < len(hrp); i++ {
		if hrp[i] < 33 || hrp[i] > 126 {
			return fmt.Errorf("%w: character 0x%02x", ErrInvalidHRP, hrp[i])
		}
	}
	return nil
}

// Decode decodes a Bech32 or Bech32m string. It returns the lowercase
// human-readable prefix, the 5-bit data groups without the checksum, and the
// variant whose constant the checksum matched.
func Decode(s string) (string, []byte, Variant, error) {
	if len(s) < 8 || len(s) > maxLength {
		return "", nil, 0, fmt.Errorf("%w: %d characters", ErrInvalidLength, len(s))
	}

	lower := strings.ToLower(s)
	if lower != s && strings.ToUpper(s) != s {
		return "", nil, 0, ErrMixedCase
	}

	sepPos := strings.LastIndexByte(lower, separator)
	if sepPos < 1 || sepPos+checksumSize+1 > len(lower) {
		return "", nil, 0, ErrInvalidSeparator
	}

	hrp := lower[:sepPos]
	if err := validateHRP(hrp); err != nil {
		return "", nil, 0, err
	}

	dataStr := lower[sepPos+1:]
	data := make([]byte, len(dataStr))
	for i := 0; i < len(dataStr); i++ {
		idx := strings.IndexByte(charset, dataStr[i])
		if idx < 0 {
			return "", nil, 0, &InvalidCharacterError{Char: rune(s[sepPos+1+i]), Pos: sepPos + 1 + i}
		}
		data[i] = byte(idx)
	}

	payload := data[:len(data)-checksumSize]
	var variant Variant
	switch polymod(append(hrpExpand(hrp), data...)) {
	case bech32Const:
		variant = Bech32
	case bech32mConst:
		variant = Bech32m
	default:
		expected := createChecksum(hrp, payload, Bech32)
		return "", nil, 0, &ChecksumError{
			Expected: toChars(expected),
			Actual:   dataStr[len(dataStr)-checksumSize:],
		}
	}

	if len(payload) == 0 {
		return "", nil, 0, ErrEmptyData
	}

	return hrp, payload, variant, nil
}

func toChars(data []byte) string {
	out := make([]byte, len(data))
	for i, d := range data {
		out[i] = charset[d]
	}
	return string(out)
}

// ConvertBits regroups a byte slice from fromBits-wide to toBits-wide groups.
func ConvertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	acc := uint32(0)
	bits := uint(0)
	maxv := uint32(1)<<toBits - 1
	result := make([]byte, 0, len(data)*int(fromBits)/int(toBits)+1)

	for _, b := range data {
		if uint32(b)>>fromBits != 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidDataByte, b)
		}
		acc = acc<<fromBits | uint32(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			result = append(result, byte(acc>>bits&maxv))
		}
	}

	if pad {
		if bits > 0 {
			result = append(result, byte(acc<<(toBits-bits)&maxv))
		}
	} else if bits >= fromBits || acc<<(toBits-bits)&maxv != 0 {
		return nil, ErrInvalidPadding
	}

	return result, nil
}
