// Package helpers provides amount and hex utilities shared by the tools.
package helpers

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// CoinDecimals is the number of decimal places of a whole coin on every
// supported chain (1 BTC = 100,000,000 satoshis).
const CoinDecimals int32 = 8

var (
	ErrEmptyAmount     = errors.New("empty amount string")
	ErrNegativeAmount  = errors.New("negative amount")
	ErrAmountPrecision = errors.New("amount has more decimal places than the unit allows")
	ErrAmountOverflow  = errors.New("amount overflows 64 bits")
)

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// FormatAmount formats an amount in smallest units as a decimal string.
// For example, FormatAmount(100000000, 8) returns "1".
func FormatAmount(amount int64, decimals int32) string {
	return decimal.New(amount, -decimals).String()
}

// ParseAmount parses a decimal string to smallest units.
// For example, ParseAmount("1.5", 8) returns 150000000.
func ParseAmount(s string, decimals int32) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %s", ErrNegativeAmount, s)
	}

	units := d.Shift(decimals)
	if !units.Equal(units.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s with %d decimals", ErrAmountPrecision, s, decimals)
	}
	if units.GreaterThan(maxAmount) {
		return 0, fmt.Errorf("%w: %s", ErrAmountOverflow, s)
	}
	return units.IntPart(), nil
}

// FormatCoins formats satoshis as whole coins.
func FormatCoins(satoshis int64) string {
	return FormatAmount(satoshis, CoinDecimals)
}

// ParseCoins parses whole coins to satoshis.
func ParseCoins(s string) (int64, error) {
	return ParseAmount(s, CoinDecimals)
}
