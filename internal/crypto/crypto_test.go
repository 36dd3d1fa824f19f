package crypto

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // reference hash160
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func TestHashes(t *testing.T) {
	data := []byte("hello")

	if got, want := hex.EncodeToString(Sha256(data)), "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"; got != want {
		t.Errorf("Sha256 = %s, want %s", got, want)
	}
	if got, want := DoubleSha256(data), chainhash.DoubleHashB(data); !bytes.Equal(got, want) {
		t.Errorf("DoubleSha256 = %x, want %x", got, want)
	}
}

func TestHash160KnownVector(t *testing.T) {
	// Compressed public key of private key 1 (the generator point).
	pubKey := mustHex(t, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	want := "751e76e8199196d454941c45d1b3a323f1433bd6"
	if got := hex.EncodeToString(Hash160(pubKey)); got != want {
		t.Errorf("Hash160 = %s, want %s", got, want)
	}
}

func TestHash160MatchesComposition(t *testing.T) {
	for _, data := range [][]byte{nil, {0x00}, bytes.Repeat([]byte{0xab}, 65)} {
		sha := Sha256(data)
		r := ripemd160.New()
		r.Write(sha)
		if got, want := Hash160(data), r.Sum(nil); !bytes.Equal(got, want) {
			t.Errorf("Hash160(%x) = %x, want %x", data, got, want)
		}
	}
}

func TestPrivateKeySignerRoundtrip(t *testing.T) {
	secret := bytes.Repeat([]byte{0x11}, 32)
	signer, err := NewPrivateKeySignerFromBytes(secret)
	if err != nil {
		t.Fatalf("NewPrivateKeySignerFromBytes: %v", err)
	}

	digest := DoubleSha256([]byte("transaction preimage"))
	sig, err := signer.Sign(digest)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if !VerifySignature(digest, sig, signer.PublicKey()) {
		t.Error("signature should verify against the signer's public key")
	}

	recovered, err := RecoverPublicKey(digest, sig)
	if err != nil {
		t.Fatalf("RecoverPublicKey: %v", err)
	}
	if !bytes.Equal(recovered, signer.PublicKey()) {
		t.Errorf("recovered key = %x, want %x", recovered, signer.PublicKey())
	}

	// DER must parse back through btcec.
	parsed, err := ecdsa.ParseDERSignature(sig.DER())
	if err != nil {
		t.Fatalf("ParseDERSignature: %v", err)
	}
	pub, err := btcec.ParsePubKey(signer.PublicKey())
	if err != nil {
		t.Fatalf("ParsePubKey: %v", err)
	}
	if !parsed.Verify(digest, pub) {
		t.Error("DER signature should verify")
	}
}

func TestSignMatchesCompactSigner(t *testing.T) {
	key, _ := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{0x33}, 32))
	signer := NewPrivateKeySigner(key)
	digest := DoubleSha256([]byte("compact"))

	sig, err := signer.Sign(digest)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	want := ecdsa.SignCompact(key, digest, true)
	if got := sig.Compact(); !bytes.Equal(got, want) {
		t.Errorf("Compact = %x, want %x", got, want)
	}
	if sig.RecoveryID > 3 {
		t.Errorf("RecoveryID = %d, want 0..3", sig.RecoveryID)
	}
}

func TestSignRejectsBadDigest(t *testing.T) {
	signer, _ := NewPrivateKeySignerFromBytes(bytes.Repeat([]byte{0x22}, 32))
	if _, err := signer.Sign([]byte{1, 2, 3}); !errors.Is(err, ErrInvalidDigest) {
		t.Errorf("Sign(short) error = %v, want ErrInvalidDigest", err)
	}
	if _, err := NewPrivateKeySignerFromBytes([]byte{1}); err == nil {
		t.Error("expected error for short secret")
	}
}

func TestSignatureFromCompactErrors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"short", make([]byte, 64)},
		{"bad header", append([]byte{0x01}, bytes.Repeat([]byte{0x01}, 64)...)},
		{"zero R", append(append([]byte{31}, make([]byte, 32)...), bytes.Repeat([]byte{0x01}, 32)...)},
		{"R overflow", append(append([]byte{31}, bytes.Repeat([]byte{0xff}, 32)...), bytes.Repeat([]byte{0x01}, 32)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SignatureFromCompact(tt.in); !errors.Is(err, ErrInvalidSignature) {
				t.Errorf("error = %v, want ErrInvalidSignature", err)
			}
		})
	}
}
