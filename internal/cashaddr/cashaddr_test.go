package cashaddr

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownVectors(t *testing.T) {
	tests := []struct {
		prefix   string
		addrType byte
		hash     string
		want     string
	}{
		{"bitcoincash", TypeP2KH, "f5bf48b397dae70be82b3cca4793f8eb2b6cdac9", "bitcoincash:qr6m7j9njldwwzlg9v7v53unlr4jkmx6eylep8ekg2"},
		{"bchtest", TypeP2SH, "f5bf48b397dae70be82b3cca4793f8eb2b6cdac9", "bchtest:pr6m7j9njldwwzlg9v7v53unlr4jkmx6eyvwc0uz5t"},
		{"bitcoincash", TypeP2KH, "76a04053bda0a88bda5177b86a15c3b29f559873", "bitcoincash:qpm2qsznhks23z7629mms6s4cwef74vcwvy22gdx6a"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			hash, err := hex.DecodeString(tt.hash)
			require.NoError(t, err)

			got, err := Encode(tt.prefix, tt.addrType, hash)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			prefix, addrType, decoded, err := Decode(tt.want, "")
			require.NoError(t, err)
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.addrType, addrType)
			assert.Equal(t, hash, decoded)
		})
	}
}

func TestChecksumVectors(t *testing.T) {
	for _, s := range []string{
		"prefix:x64nx6hz",
		"p:gpf8m4h7",
		"bitcoincash:qpzry9x8gf2tvdw0s3jn54khce6mua7lcw20ayyn",
	} {
		i := strings.IndexByte(s, separator)
		prefix, body := s[:i], s[i+1:]

		data := make([]byte, len(body))
		for j := range body {
			data[j] = byte(strings.IndexByte(alphabet, body[j]))
		}
		assert.True(t, verifyChecksum(prefix, data), s)
	}
}

func TestImplicitPrefixMatchesExplicit(t *testing.T) {
	hash, _ := hex.DecodeString("751e76e8199196d454941c45d1b3a323f1433bd6")

	addr, err := Encode("bitcoincash", TypeP2KH, hash)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(addr, "bitcoincash:q"))

	// The trailing eight symbols close the polymod over prefix, separator and payload.
	body := strings.TrimPrefix(addr, "bitcoincash:")
	data := make([]byte, len(body))
	for i := range body {
		data[i] = byte(strings.IndexByte(alphabet, body[i]))
	}
	values := feed("bitcoincash", data)
	assert.Equal(t, uint64(0), polymod(values))

	// Prefix-less legacy form is 42 characters for a 160-bit hash.
	require.Len(t, body, 42)

	_, explicitType, explicitHash, err := Decode(addr, "bitcoincash")
	require.NoError(t, err)
	prefix, implicitType, implicitHash, err := Decode(body, "bitcoincash")
	require.NoError(t, err)

	assert.Equal(t, "bitcoincash", prefix)
	assert.Equal(t, explicitType, implicitType)
	assert.Equal(t, hash, explicitHash)
	assert.Equal(t, explicitHash, implicitHash)

	// Uppercase is accepted as a whole.
	_, _, upperHash, err := Decode(strings.ToUpper(addr), "")
	require.NoError(t, err)
	assert.Equal(t, hash, upperHash)
}

func TestImplicitPrefixMismatch(t *testing.T) {
	hash := bytes.Repeat([]byte{0x11}, 20)
	addr, err := Encode("bchtest", TypeP2KH, hash)
	require.NoError(t, err)

	body := strings.TrimPrefix(addr, "bchtest:")
	_, _, _, err = Decode(body, "bitcoincash")

	var csErr *ChecksumError
	assert.True(t, errors.As(err, &csErr), "got %v", err)
}

func TestChecksumRejection(t *testing.T) {
	addr, err := Encode("bitcoincash", TypeP2KH, bytes.Repeat([]byte{0xab}, 20))
	require.NoError(t, err)

	for pos := len(addr) - checksumSize; pos < len(addr); pos++ {
		idx := strings.IndexByte(alphabet, addr[pos])
		for bit := 0; bit < 5; bit++ {
			corrupted := addr[:pos] + string(alphabet[idx^(1<<bit)]) + addr[pos+1:]

			_, _, _, err := Decode(corrupted, "")
			var csErr *ChecksumError
			require.True(t, errors.As(err, &csErr), "pos %d bit %d: %v", pos, bit, err)
			assert.Equal(t, addr[len(addr)-checksumSize:], csErr.Expected)
			assert.Equal(t, corrupted[len(corrupted)-checksumSize:], csErr.Actual)
		}
	}

	// Payload corruption is caught as well.
	idx := strings.IndexByte(alphabet, addr[15])
	corrupted := addr[:15] + string(alphabet[idx^1]) + addr[16:]
	_, _, _, err = Decode(corrupted, "")
	var csErr *ChecksumError
	assert.True(t, errors.As(err, &csErr))
}

func TestHashSizes(t *testing.T) {
	for code, size := range hashSizes {
		hash := bytes.Repeat([]byte{byte(code + 1)}, size)
		addr, err := Encode("bchtest", TypeP2SH, hash)
		require.NoError(t, err, "size %d", size)

		_, addrType, decoded, err := Decode(addr, "")
		require.NoError(t, err)
		assert.Equal(t, TypeP2SH, addrType)
		assert.Equal(t, hash, decoded)
	}

	_, err := Encode("bitcoincash", TypeP2KH, make([]byte, 21))
	assert.ErrorIs(t, err, ErrInvalidHashSize)
}

func TestDecodeErrors(t *testing.T) {
	valid := "bitcoincash:qr6m7j9njldwwzlg9v7v53unlr4jkmx6eylep8ekg2"

	t.Run("mixed case", func(t *testing.T) {
		_, _, _, err := Decode("bitcoincash:qr6m7j9njldwwzlg9v7v53unlr4jkmx6eyLep8ekg2", "")
		assert.ErrorIs(t, err, ErrMixedCase)
	})

	t.Run("missing prefix", func(t *testing.T) {
		_, _, _, err := Decode(strings.TrimPrefix(valid, "bitcoincash:"), "")
		assert.ErrorIs(t, err, ErrMissingPrefix)
	})

	t.Run("invalid prefix", func(t *testing.T) {
		_, _, _, err := Decode("bitcoin-cash:qqqqqqqqqqqq", "")
		assert.ErrorIs(t, err, ErrInvalidPrefix)
	})

	t.Run("too short", func(t *testing.T) {
		_, _, _, err := Decode("bitcoincash:qqqq", "")
		assert.ErrorIs(t, err, ErrInvalidLength)
	})

	t.Run("invalid character", func(t *testing.T) {
		bad := valid[:20] + "b" + valid[21:]
		_, _, _, err := Decode(bad, "")
		var charErr *InvalidCharacterError
		require.True(t, errors.As(err, &charErr), "got %v", err)
		assert.Equal(t, 20, charErr.Pos)
		assert.Equal(t, 'b', charErr.Char)
	})

	t.Run("bad type", func(t *testing.T) {
		_, err := Encode("bitcoincash", 16, make([]byte, 20))
		assert.ErrorIs(t, err, ErrInvalidVersion)
	})
}
