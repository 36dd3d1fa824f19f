package tx

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/klingon-exchange/utxokit/internal/varint"
)

// DeserializeHex decodes a hex encoded transaction.
func DeserializeHex(s string) (*Transaction, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Deserialize(b)
}

// Deserialize decodes a wire encoded transaction. Inputs come back without
// address or amount; an input with a script_sig or witness is signed.
func Deserialize(b []byte) (*Transaction, error) {
	r := bytes.NewReader(b)
	d := &decoder{r: r}

	t := &Transaction{}
	t.Version = d.uint32()

	inCount := d.count(41)
	if d.err == nil && inCount == 0 {
		// marker byte, the flag must follow
		flag := d.byte()
		if d.err == nil && flag != segwitFlag {
			return nil, fmt.Errorf("%w: 0x%02x", ErrInvalidSegwitFlag, flag)
		}
		t.Segwit = true
		inCount = d.count(41)
	}

	t.Inputs = make([]*Input, 0, inCount)
	for i := uint64(0); i < inCount && d.err == nil; i++ {
		in := &Input{}
		copy(in.Outpoint.Hash[:], d.bytes(32))
		in.Outpoint.Index = d.uint32()
		in.scriptSig = d.varBytes()
		in.Sequence = d.uint32()
		t.Inputs = append(t.Inputs, in)
	}

	outCount := d.count(9)
	t.Outputs = make([]*Output, 0, outCount)
	for i := uint64(0); i < outCount && d.err == nil; i++ {
		amount := int64(d.uint64())
		script := d.varBytes()
		t.Outputs = append(t.Outputs, &Output{amount: amount, scriptPubKey: script})
	}

	if t.Segwit {
		for _, in := range t.Inputs {
			items := d.count(1)
			for j := uint64(0); j < items && d.err == nil; j++ {
				in.witness = append(in.witness, d.varBytes())
			}
		}
	}

	t.LockTime = d.uint32()
	if d.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, d.err)
	}
	if r.Len() > 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingBytes, r.Len())
	}

	for _, in := range t.Inputs {
		if len(in.scriptSig) > 0 || len(in.witness) > 0 {
			in.state = StateSigned
		}
	}
	return t, nil
}

// decoder reads wire fields and keeps the first error.
type decoder struct {
	r   *bytes.Reader
	err error
}

func (d *decoder) read(n int) []byte {
	if d.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		d.err = err
		return nil
	}
	return buf
}

func (d *decoder) byte() byte {
	if b := d.read(1); b != nil {
		return b[0]
	}
	return 0
}

func (d *decoder) bytes(n int) []byte {
	return d.read(n)
}

func (d *decoder) uint32() uint32 {
	if b := d.read(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (d *decoder) uint64() uint64 {
	if b := d.read(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

// count reads a varint element count, rejecting counts the remaining input
// cannot hold at minSize bytes per element.
func (d *decoder) count(minSize int) uint64 {
	if d.err != nil {
		return 0
	}
	n, err := varint.Read(d.r)
	if err != nil {
		d.err = err
		return 0
	}
	if n > uint64(d.r.Len()/minSize) {
		d.err = fmt.Errorf("count %d exceeds remaining %d bytes", n, d.r.Len())
		return 0
	}
	return n
}

func (d *decoder) varBytes() []byte {
	n := d.count(1)
	if d.err != nil || n == 0 {
		return nil
	}
	return d.read(int(n))
}
