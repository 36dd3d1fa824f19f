package tx

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/txscript"

	"github.com/klingon-exchange/utxokit/internal/chain"
	"github.com/klingon-exchange/utxokit/internal/crypto"
)

// InsertSignature places sig for input i according to the input format and
// marks the input signed. The input must be key-bound.
func (t *Transaction) InsertSignature(i int, sig *crypto.Signature) error {
	in, err := t.input(i)
	if err != nil {
		return err
	}
	if in.state != StateKeyBound {
		return fmt.Errorf("%w: insert signature into %s input %d", ErrInvalidState, in.state, i)
	}

	format := in.format()
	if format.IsSegwit() && !t.Segwit {
		return fmt.Errorf("input %d (%s): %w", i, format, ErrSegwitFlagRequired)
	}

	sigBytes := append(sig.DER(), byte(in.sigHashType()))

	switch format {
	case chain.FormatP2PKH, chain.FormatCashAddr:
		script, err := txscript.NewScriptBuilder().
			AddData(sigBytes).
			AddData(in.pubKey).
			Script()
		if err != nil {
			return fmt.Errorf("failed to build script_sig: %w", err)
		}
		in.scriptSig = script

	case chain.FormatP2SHP2WPKH:
		script, err := txscript.NewScriptBuilder().AddData(in.redeemScript).Script()
		if err != nil {
			return fmt.Errorf("failed to build script_sig: %w", err)
		}
		in.scriptSig = script
		in.witness = [][]byte{sigBytes, in.PublicKey()}

	case chain.FormatBech32:
		in.witness = [][]byte{sigBytes, in.PublicKey()}

	case chain.FormatP2WSH:
		in.witness = [][]byte{sigBytes, in.RedeemScript()}

	default:
		return fmt.Errorf("input %d: %w", i, ErrMissingAddress)
	}

	in.state = StateSigned
	return nil
}

// SignInput binds the signer key when needed, computes the signature hash,
// signs it and inserts the signature.
func (t *Transaction) SignInput(i int, signer crypto.Signer) error {
	in, err := t.input(i)
	if err != nil {
		return err
	}

	if in.state == StateUnsigned {
		if in.address == nil {
			return fmt.Errorf("input %d: %w", i, ErrMissingAddress)
		}
		if in.format() == chain.FormatP2WSH {
			return fmt.Errorf("input %d: %w", i, ErrMissingRedeemScript)
		}
		if err := in.BindPublicKey(signer.PublicKey(), in.format(), in.address.Params()); err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
	} else if len(in.pubKey) > 0 && !bytes.Equal(in.pubKey, signer.PublicKey()) {
		return fmt.Errorf("input %d: %w: signer key is not the bound key", i, ErrPublicKeyMismatch)
	}

	digest, err := t.SigHash(i)
	if err != nil {
		return err
	}

	sig, err := signer.Sign(digest)
	if err != nil {
		return fmt.Errorf("failed to sign input %d: %w", i, err)
	}

	return t.InsertSignature(i, sig)
}
