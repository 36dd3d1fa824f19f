// Package varint implements Bitcoin's CompactSize variable-length integer.
package varint

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/wire"
)

var (
	// ErrNonCanonical is returned when a value is encoded with a wider marker than it needs.
	ErrNonCanonical = errors.New("non-canonical varint encoding")
	// ErrTruncated is returned when the input ends inside a varint.
	ErrTruncated = errors.New("truncated varint")
)

// Markers for the multi-byte forms.
const (
	marker16 = 0xfd
	marker32 = 0xfe
	marker64 = 0xff
)

// Size returns the number of bytes Encode(v) produces.
func Size(v uint64) int {
	return wire.VarIntSerializeSize(v)
}

// Encode returns the encoding of v.
func Encode(v uint64) []byte {
	return Append(make([]byte, 0, Size(v)), v)
}

// Append appends the encoding of v to dst.
func Append(dst []byte, v uint64) []byte {
	switch {
	case v < marker16:
		return append(dst, byte(v))
	case v <= 0xffff:
		dst = append(dst, marker16)
		return binary.LittleEndian.AppendUint16(dst, uint16(v))
	case v <= 0xffffffff:
		dst = append(dst, marker32)
		return binary.LittleEndian.AppendUint32(dst, uint32(v))
	default:
		dst = append(dst, marker64)
		return binary.LittleEndian.AppendUint64(dst, v)
	}
}

// Decode reads a varint from the start of b and returns the value and the number
// of bytes consumed. Over-wide encodings are rejected.
func Decode(b []byte) (uint64, int, error) {
	r := bytes.NewReader(b)
	v, err := Read(r)
	if err != nil {
		return 0, 0, err
	}
	return v, len(b) - r.Len(), nil
}

// Write writes the encoding of v to w.
func Write(w io.Writer, v uint64) error {
	return wire.WriteVarInt(w, 0, v)
}

// Read reads one varint from r.
func Read(r io.Reader) (uint64, error) {
	v, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return 0, mapErr(err)
	}
	return v, nil
}

func mapErr(err error) error {
	var msgErr *wire.MessageError
	switch {
	case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
		return ErrTruncated
	case errors.As(err, &msgErr):
		return fmt.Errorf("%w: %s", ErrNonCanonical, msgErr.Description)
	default:
		return err
	}
}
