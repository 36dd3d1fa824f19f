// Package chain defines network parameters for the supported Bitcoin-family chains.
// All chain-specific values are hardcoded here - no external configuration needed.
package chain

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownNetwork     = errors.New("unknown network")
	ErrFormatUnsupported  = errors.New("address format not supported by network")
	ErrUnknownAddressType = errors.New("unknown address format")
)

// Network represents mainnet or testnet.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
)

// Format represents the address encoding format.
type Format string

const (
	FormatP2PKH      Format = "p2pkh"       // Legacy (1..., L..., D...)
	FormatP2SHP2WPKH Format = "p2sh-p2wpkh" // Nested SegWit (3..., M...)
	FormatBech32     Format = "bech32"      // Native SegWit P2WPKH (bc1q...)
	FormatP2WSH      Format = "p2wsh"       // SegWit script hash (bc1q..., 32-byte program)
	FormatCashAddr   Format = "cashaddr"    // Bitcoin Cash (bitcoincash:q...)
)

// Formats lists every known format in a stable order.
var Formats = []Format{FormatP2PKH, FormatP2SHP2WPKH, FormatBech32, FormatP2WSH, FormatCashAddr}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatP2PKH, FormatP2SHP2WPKH, FormatBech32, FormatP2WSH, FormatCashAddr:
		return Format(s), nil
	case "p2wpkh":
		return FormatBech32, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAddressType, s)
}

// IsSegwit reports whether inputs spending this format carry witness data.
func (f Format) IsSegwit() bool {
	switch f {
	case FormatP2SHP2WPKH, FormatBech32, FormatP2WSH:
		return true
	}
	return false
}

// HashSize returns the expected length of the hash (or witness program) behind an address.
func (f Format) HashSize() int {
	if f == FormatP2WSH {
		return 32
	}
	return 20
}

// Params contains all address parameters for one chain on one network.
type Params struct {
	// Identity
	Symbol  string  // BTC, BCH, LTC, DOGE
	Name    string  // Bitcoin, Bitcoin Cash, ...
	Network Network // mainnet or testnet

	// Base58Check version bytes
	PubKeyHashAddrID byte // P2PKH
	ScriptHashAddrID byte // P2SH

	Bech32HRP      string // Bech32 human-readable prefix, empty without SegWit
	CashAddrPrefix string // CashAddr prefix, empty for non-BCH chains

	// Formats this network can encode, in preference order.
	SupportedFormats []Format

	// Default address format for this chain
	DefaultFormat Format

	// ForkID selects the BIP-143 preimage with SIGHASH_FORKID for every input
	ForkID bool
}

// Constants is the per-format constant set resolved from Params.
type Constants struct {
	Version byte   // Base58Check version byte or CashAddr type
	HRP     string // Bech32 human-readable prefix
	Prefix  string // CashAddr prefix
}

// CashAddr type values (high nibble of the version byte).
const (
	CashAddrTypeP2KH byte = 0
	CashAddrTypeP2SH byte = 1
)

// Supports reports whether the network can encode the given format.
func (p *Params) Supports(f Format) bool {
	for _, sf := range p.SupportedFormats {
		if sf == f {
			return true
		}
	}
	return false
}

// Constants resolves the constant set for a format. There is exactly one answer
// per (network, format) pair; an unsupported format is an error.
func (p *Params) Constants(f Format) (Constants, error) {
	if !p.Supports(f) {
		return Constants{}, fmt.Errorf("%w: %s on %s", ErrFormatUnsupported, f, p)
	}

	switch f {
	case FormatP2PKH:
		return Constants{Version: p.PubKeyHashAddrID}, nil
	case FormatP2SHP2WPKH:
		return Constants{Version: p.ScriptHashAddrID}, nil
	case FormatBech32, FormatP2WSH:
		return Constants{HRP: p.Bech32HRP}, nil
	case FormatCashAddr:
		return Constants{Version: CashAddrTypeP2KH, Prefix: p.CashAddrPrefix}, nil
	default:
		return Constants{}, fmt.Errorf("%w: %q", ErrUnknownAddressType, f)
	}
}

// String returns "SYMBOL/network".
func (p *Params) String() string {
	return p.Symbol + "/" + string(p.Network)
}

// Registry holds all chain parameters indexed by symbol.
var registry = make(map[string]map[Network]*Params)

// Register adds chain params to the registry.
func Register(params *Params) {
	if registry[params.Symbol] == nil {
		registry[params.Symbol] = make(map[Network]*Params)
	}
	registry[params.Symbol][params.Network] = params
}

// Get returns chain params for a symbol and network.
func Get(symbol string, network Network) (*Params, bool) {
	nets, ok := registry[symbol]
	if !ok {
		return nil, false
	}
	params, ok := nets[network]
	return params, ok
}

// Lookup is Get with an error for unknown pairs.
func Lookup(symbol string, network Network) (*Params, error) {
	params, ok := Get(symbol, network)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownNetwork, symbol, network)
	}
	return params, nil
}

// MustGet returns chain params or panics. Only for package-level wiring and tests.
func MustGet(symbol string, network Network) *Params {
	params, err := Lookup(symbol, network)
	if err != nil {
		panic(err)
	}
	return params
}

// List returns all registered chain symbols, sorted.
func List() []string {
	symbols := make([]string, 0, len(registry))
	for symbol := range registry {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// IsSupported returns true if the chain is registered.
func IsSupported(symbol string) bool {
	_, ok := registry[symbol]
	return ok
}

// Bech32HRPs returns every registered Bech32 human-readable prefix.
// Address parsing uses it to recognise a segwit address of another network.
func Bech32HRPs() map[string]*Params {
	hrps := make(map[string]*Params)
	for _, nets := range registry {
		for _, params := range nets {
			if params.Bech32HRP != "" {
				hrps[params.Bech32HRP] = params
			}
		}
	}
	return hrps
}

// CashAddrPrefixes returns every registered CashAddr prefix.
func CashAddrPrefixes() map[string]*Params {
	prefixes := make(map[string]*Params)
	for _, nets := range registry {
		for _, params := range nets {
			if params.CashAddrPrefix != "" {
				prefixes[params.CashAddrPrefix] = params
			}
		}
	}
	return prefixes
}
