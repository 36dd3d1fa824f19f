package tx

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"

	"github.com/klingon-exchange/utxokit/internal/address"
	"github.com/klingon-exchange/utxokit/internal/chain"
	"github.com/klingon-exchange/utxokit/internal/crypto"
)

func testSigner(t *testing.T, seed byte) *crypto.PrivateKeySigner {
	t.Helper()
	signer, err := crypto.NewPrivateKeySignerFromBytes(bytes.Repeat([]byte{seed}, 32))
	require.NoError(t, err)
	return signer
}

func testOutpoint(n byte) Outpoint {
	return Outpoint{Hash: chainhash.HashH([]byte{n}), Index: uint32(n)}
}

func mustAddress(t *testing.T, pubKey []byte, format chain.Format, params *chain.Params) *address.Address {
	t.Helper()
	addr, err := address.FromPublicKey(pubKey, format, params)
	require.NoError(t, err)
	return addr
}

// checkSigScript is <pubKey> OP_CHECKSIG.
func checkSigScript(pubKey []byte) []byte {
	script := append([]byte{byte(len(pubKey))}, pubKey...)
	return append(script, txscript.OP_CHECKSIG)
}

// toWire rebuilds the transaction with btcd types for oracle checks.
func toWire(t *Transaction) *wire.MsgTx {
	msg := wire.NewMsgTx(int32(t.Version))
	msg.LockTime = t.LockTime
	for _, in := range t.Inputs {
		hash := in.Outpoint.Hash
		txIn := wire.NewTxIn(wire.NewOutPoint(&hash, in.Outpoint.Index), in.ScriptSig(), in.Witness())
		txIn.Sequence = in.Sequence
		msg.AddTxIn(txIn)
	}
	for _, out := range t.Outputs {
		msg.AddTxOut(wire.NewTxOut(out.Amount(), out.ScriptPubKey()))
	}
	return msg
}

// prevOutFetcher maps each input to the output it spends.
func prevOutFetcher(t *Transaction) *txscript.MultiPrevOutFetcher {
	prevOuts := make(map[wire.OutPoint]*wire.TxOut)
	for _, in := range t.Inputs {
		amount, _ := in.Amount()
		prevOuts[*wire.NewOutPoint(&in.Outpoint.Hash, in.Outpoint.Index)] = wire.NewTxOut(amount, in.scriptPubKey())
	}
	return txscript.NewMultiPrevOutFetcher(prevOuts)
}

var allSigHashTypes = []SigHashType{
	SigHashAll,
	SigHashNone,
	SigHashSingle,
	SigHashAll | SigHashAnyOneCanPay,
	SigHashNone | SigHashAnyOneCanPay,
	SigHashSingle | SigHashAnyOneCanPay,
}
