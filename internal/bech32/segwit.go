package bech32

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidWitnessVersion = errors.New("bech32: invalid witness version")
	ErrInvalidProgramLength  = errors.New("bech32: invalid witness program length")
	ErrWrongVariant          = errors.New("bech32: checksum variant does not match witness version")
)

// ValidateWitnessProgram checks the BIP-141 witness program rules.
func ValidateWitnessProgram(version byte, program []byte) error {
	if version > 16 {
		return fmt.Errorf("%w: %d", ErrInvalidWitnessVersion, version)
	}
	if len(program) < 2 || len(program) > 40 {
		return fmt.Errorf("%w: %d bytes", ErrInvalidProgramLength, len(program))
	}
	if version == 0 && len(program) != 20 && len(program) != 32 {
		return fmt.Errorf("%w: version 0 requires 20 or 32 bytes, got %d", ErrInvalidProgramLength, len(program))
	}
	return nil
}

// EncodeSegwit encodes a witness program as a segwit address. Version 0 uses
// Bech32, versions 1 through 16 use Bech32m.
func EncodeSegwit(hrp string, version byte, program []byte) (string, error) {
	if err := ValidateWitnessProgram(version, program); err != nil {
		return "", err
	}

	conv, err := ConvertBits(program, 8, 5, true)
	if err != nil {
		return "", err
	}
	data := append([]byte{version}, conv...)

	if version == 0 {
		return Encode(hrp, data)
	}
	return EncodeM(hrp, data)
}

// DecodeSegwit decodes a segwit address and checks it belongs to hrp.
func DecodeSegwit(hrp, addr string) (byte, []byte, error) {
	gotHRP, data, variant, err := Decode(addr)
	if err != nil {
		return 0, nil, err
	}
	if gotHRP != hrp {
		return 0, nil, fmt.Errorf("%w: got %q, want %q", ErrHRPMismatch, gotHRP, hrp)
	}

	version := data[0]
	program, err := ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return 0, nil, err
	}
	if err := ValidateWitnessProgram(version, program); err != nil {
		return 0, nil, err
	}

	if (version == 0 && variant != Bech32) || (version != 0 && variant != Bech32m) {
		return 0, nil, fmt.Errorf("%w: version %d with %s", ErrWrongVariant, version, variant)
	}
	return version, program, nil
}
