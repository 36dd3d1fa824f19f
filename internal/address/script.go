package address

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"

	"github.com/klingon-exchange/utxokit/internal/chain"
	"github.com/klingon-exchange/utxokit/internal/crypto"
)

// ScriptPubKey returns the output script paying to the address.
func (a *Address) ScriptPubKey() []byte {
	switch a.format {
	case chain.FormatP2SHP2WPKH:
		script := make([]byte, 0, 23)
		script = append(script, txscript.OP_HASH160, txscript.OP_DATA_20)
		script = append(script, a.hash...)
		return append(script, txscript.OP_EQUAL)
	case chain.FormatBech32:
		return witnessProgram(txscript.OP_DATA_20, a.hash)
	case chain.FormatP2WSH:
		return witnessProgram(txscript.OP_DATA_32, a.hash)
	default:
		// P2PKH and CashAddr share the legacy script
		return P2PKHScript(a.hash)
	}
}

func witnessProgram(push byte, program []byte) []byte {
	script := make([]byte, 0, 2+len(program))
	script = append(script, txscript.OP_0, push)
	return append(script, program...)
}

// P2PKHScript builds OP_DUP OP_HASH160 <hash> OP_EQUALVERIFY OP_CHECKSIG.
// It is also the BIP-143 script code of a key-hash input.
func P2PKHScript(hash []byte) []byte {
	script := make([]byte, 0, 25)
	script = append(script, txscript.OP_DUP, txscript.OP_HASH160, txscript.OP_DATA_20)
	script = append(script, hash...)
	return append(script, txscript.OP_EQUALVERIFY, txscript.OP_CHECKSIG)
}

// RedeemScriptP2WPKH returns the P2SH redeem script OP_0 <hash160(pubKey)>
// of a nested segwit output.
func RedeemScriptP2WPKH(pubKey []byte) []byte {
	return witnessProgram(txscript.OP_DATA_20, crypto.Hash160(pubKey))
}

// FromScriptPubKey matches the fixed script shapes and returns the address
// they pay to. There is no general script interpreter.
func FromScriptPubKey(script []byte, params *chain.Params) (*Address, error) {
	switch {
	case len(script) == 25 &&
		script[0] == txscript.OP_DUP &&
		script[1] == txscript.OP_HASH160 &&
		script[2] == txscript.OP_DATA_20 &&
		script[23] == txscript.OP_EQUALVERIFY &&
		script[24] == txscript.OP_CHECKSIG:
		format := chain.FormatP2PKH
		if params.DefaultFormat == chain.FormatCashAddr {
			format = chain.FormatCashAddr
		}
		return FromHash(script[3:23], format, params)

	case len(script) == 23 &&
		script[0] == txscript.OP_HASH160 &&
		script[1] == txscript.OP_DATA_20 &&
		script[22] == txscript.OP_EQUAL:
		return FromHash(script[2:22], chain.FormatP2SHP2WPKH, params)

	case len(script) == 22 &&
		script[0] == txscript.OP_0 &&
		script[1] == txscript.OP_DATA_20:
		return FromHash(script[2:], chain.FormatBech32, params)

	case len(script) == 34 &&
		script[0] == txscript.OP_0 &&
		script[1] == txscript.OP_DATA_32:
		return FromHash(script[2:], chain.FormatP2WSH, params)
	}

	return nil, fmt.Errorf("%w: %x", ErrUnrecognizedScript, script)
}
