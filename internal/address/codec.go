package address

import (
	"errors"
	"fmt"
	"strings"

	"github.com/klingon-exchange/utxokit/internal/base58check"
	"github.com/klingon-exchange/utxokit/internal/bech32"
	"github.com/klingon-exchange/utxokit/internal/cashaddr"
	"github.com/klingon-exchange/utxokit/internal/chain"
)

// codec converts between a hash and the text form of one address family.
type codec interface {
	encode(format chain.Format, hash []byte, params *chain.Params) (string, error)
	decode(s string, params *chain.Params) (chain.Format, []byte, error)
}

func codecFor(format chain.Format) codec {
	switch format {
	case chain.FormatBech32, chain.FormatP2WSH:
		return segwitCodec{}
	case chain.FormatCashAddr:
		return cashAddrCodec{}
	default:
		return base58Codec{}
	}
}

type base58Codec struct{}

func (base58Codec) encode(format chain.Format, hash []byte, params *chain.Params) (string, error) {
	c, err := params.Constants(format)
	if err != nil {
		return "", err
	}
	return base58check.EncodeVersioned(c.Version, hash), nil
}

func (base58Codec) decode(s string, params *chain.Params) (chain.Format, []byte, error) {
	version, hash, err := base58check.DecodeVersioned(s)
	if err != nil {
		return "", nil, err
	}
	if len(hash) != 20 {
		return "", nil, fmt.Errorf("%w: %d byte payload", ErrHashLength, len(hash))
	}

	var format chain.Format
	switch version {
	case params.PubKeyHashAddrID:
		format = chain.FormatP2PKH
	case params.ScriptHashAddrID:
		format = chain.FormatP2SHP2WPKH
	default:
		return "", nil, fmt.Errorf("%w: version byte 0x%02x on %s", ErrNetworkMismatch, version, params)
	}
	if !params.Supports(format) {
		return "", nil, fmt.Errorf("%w: %s on %s", chain.ErrFormatUnsupported, format, params)
	}
	return format, hash, nil
}

type segwitCodec struct{}

func (segwitCodec) encode(_ chain.Format, hash []byte, params *chain.Params) (string, error) {
	return bech32.EncodeSegwit(params.Bech32HRP, 0, hash)
}

func (segwitCodec) decode(s string, params *chain.Params) (chain.Format, []byte, error) {
	hrp, _, _, err := bech32.Decode(s)
	if err != nil {
		return "", nil, err
	}
	if hrp != params.Bech32HRP {
		return "", nil, fmt.Errorf("%w: prefix %q on %s", ErrNetworkMismatch, hrp, params)
	}

	version, program, err := bech32.DecodeSegwit(hrp, s)
	if err != nil {
		return "", nil, err
	}
	if version != 0 {
		return "", nil, fmt.Errorf("%w: %d", ErrWitnessVersion, version)
	}

	format := chain.FormatBech32
	if len(program) == 32 {
		format = chain.FormatP2WSH
	}
	if !params.Supports(format) {
		return "", nil, fmt.Errorf("%w: %s on %s", chain.ErrFormatUnsupported, format, params)
	}
	return format, program, nil
}

type cashAddrCodec struct{}

func (cashAddrCodec) encode(format chain.Format, hash []byte, params *chain.Params) (string, error) {
	c, err := params.Constants(format)
	if err != nil {
		return "", err
	}
	return cashaddr.Encode(c.Prefix, cashaddr.TypeP2KH, hash)
}

func (cashAddrCodec) decode(s string, params *chain.Params) (chain.Format, []byte, error) {
	prefix, addrType, hash, err := cashaddr.Decode(s, params.CashAddrPrefix)
	if err != nil {
		var csErr *cashaddr.ChecksumError
		if errors.As(err, &csErr) && strings.IndexByte(s, ':') < 0 {
			if other := implicitCashAddrNetwork(s); other != nil {
				return "", nil, fmt.Errorf("%w: %s address on %s", ErrNetworkMismatch, other, params)
			}
		}
		return "", nil, err
	}
	if prefix != params.CashAddrPrefix {
		return "", nil, fmt.Errorf("%w: prefix %q on %s", ErrNetworkMismatch, prefix, params)
	}
	if addrType != cashaddr.TypeP2KH {
		return "", nil, fmt.Errorf("%w: cashaddr type %d", chain.ErrFormatUnsupported, addrType)
	}
	if len(hash) != 20 {
		return "", nil, fmt.Errorf("%w: %d bytes", ErrHashLength, len(hash))
	}
	return chain.FormatCashAddr, hash, nil
}
