package address

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/klingon-exchange/utxokit/internal/base58check"
	"github.com/klingon-exchange/utxokit/internal/cashaddr"
	"github.com/klingon-exchange/utxokit/internal/chain"
)

// legacy CashAddr without prefix: 34 payload symbols and 8 checksum symbols
const implicitCashAddrLen = 42

// Base58 address lengths, and how many stray characters still count as a
// mistyped Base58 address.
const (
	minBase58Len  = 26
	maxBase58Len  = 35
	maxBase58Typo = 2
)

// Parse decodes an address for the given network. The encoding is chosen from
// the shape of the string and the checksum is always verified. A valid address
// of another network fails with ErrNetworkMismatch.
func Parse(s string, params *chain.Params) (*Address, error) {
	c, err := detect(s, params)
	if err != nil {
		return nil, err
	}

	format, hash, err := c.decode(s, params)
	if err != nil {
		return nil, fmt.Errorf("invalid %s address %q: %w", params, s, err)
	}

	// re-encode so String() is canonical: lowercase, explicit cashaddr prefix
	return FromHash(hash, format, params)
}

// Validate reports why s is not a valid address for the network, or nil.
func Validate(s string, params *chain.Params) error {
	_, err := Parse(s, params)
	return err
}

func detect(s string, params *chain.Params) (codec, error) {
	if strings.IndexByte(s, ':') >= 0 {
		return cashAddrCodec{}, nil
	}

	lower := strings.ToLower(s)
	if i := strings.LastIndexByte(lower, '1'); i > 0 {
		if _, ok := chain.Bech32HRPs()[lower[:i]]; ok {
			return segwitCodec{}, nil
		}
	}

	if len(base58.Decode(s)) == 25 {
		return base58Codec{}, nil
	}

	if len(s) == implicitCashAddrLen {
		if params.CashAddrPrefix != "" {
			return cashAddrCodec{}, nil
		}
		if other := implicitCashAddrNetwork(s); other != nil {
			return nil, fmt.Errorf("%w: %s address on %s", ErrNetworkMismatch, other, params)
		}
	}

	if len(s) >= minBase58Len && len(s) <= maxBase58Len {
		if bad := base58check.CountInvalid(s); bad > 0 && bad <= maxBase58Typo {
			return base58Codec{}, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnrecognizedAddress, s)
}

// implicitCashAddrNetwork finds the network whose prefix validates a
// prefix-less CashAddr string.
func implicitCashAddrNetwork(s string) *chain.Params {
	for prefix, params := range chain.CashAddrPrefixes() {
		if _, _, _, err := cashaddr.Decode(s, prefix); err == nil {
			return params
		}
	}
	return nil
}
