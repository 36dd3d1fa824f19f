package helpers

import (
	"encoding/hex"
	"strings"
)

// HexToBytes decodes a hex string, with or without a 0x prefix and
// surrounding whitespace.
func HexToBytes(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}
