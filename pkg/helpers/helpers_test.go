package helpers

import (
	"errors"
	"math"
	"testing"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   int64
		decimals int32
		want     string
	}{
		{100000000, 8, "1"},
		{150000000, 8, "1.5"},
		{1, 8, "0.00000001"},
		{0, 8, "0"},
		{123456789, 8, "1.23456789"},
		{2100000000000000, 8, "21000000"},
		{42, 0, "42"},
		{-50000, 8, "-0.0005"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatAmount(tt.amount, tt.decimals); got != tt.want {
				t.Errorf("FormatAmount(%d, %d) = %s, want %s", tt.amount, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr error
	}{
		{"1", 100000000, nil},
		{"1.5", 150000000, nil},
		{"0.00000001", 1, nil},
		{" 21000000 ", 2100000000000000, nil},
		{"0", 0, nil},
		{"", 0, ErrEmptyAmount},
		{"-1", 0, ErrNegativeAmount},
		{"0.000000001", 0, ErrAmountPrecision},
		{"100000000000000", 0, ErrAmountOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCoins(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseCoins(%q) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseCoins(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}

	if _, err := ParseAmount("abc", 8); err == nil {
		t.Error("expected error for non-numeric amount")
	}
}

func TestAmountRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, 546, 99999999, 100000000, 123456789012, math.MaxInt64} {
		got, err := ParseCoins(FormatCoins(v))
		if err != nil {
			t.Fatalf("ParseCoins(FormatCoins(%d)): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %s -> %d", v, FormatCoins(v), got)
		}
	}
}

func TestHexToBytes(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"deadbeef", "\xde\xad\xbe\xef", false},
		{"0xdeadbeef", "\xde\xad\xbe\xef", false},
		{" 0XDEADBEEF\n", "\xde\xad\xbe\xef", false},
		{"", "", false},
		{"abc", "", true},
		{"zz", "", true},
	}

	for _, tt := range tests {
		got, err := HexToBytes(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("HexToBytes(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("HexToBytes(%q): %v", tt.in, err)
			continue
		}
		if string(got) != tt.want {
			t.Errorf("HexToBytes(%q) = %x, want %x", tt.in, got, tt.want)
		}
	}
}
