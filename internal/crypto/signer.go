package crypto

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidDigest    = errors.New("digest must be 32 bytes")
)

// compactSigMagicOffset is the header offset of a compact signature over a compressed key.
const compactSigMagicOffset = 27 + 4

// Signature is an ECDSA signature with its public key recovery id.
type Signature struct {
	R          secp256k1.ModNScalar
	S          secp256k1.ModNScalar
	RecoveryID byte
}

// DER returns the strict DER encoding used in scripts and witnesses.
func (s *Signature) DER() []byte {
	return ecdsa.NewSignature(&s.R, &s.S).Serialize()
}

// Compact returns the 65-byte [header | R | S] recoverable form.
func (s *Signature) Compact() []byte {
	out := make([]byte, 65)
	out[0] = compactSigMagicOffset + s.RecoveryID
	r := s.R.Bytes()
	sv := s.S.Bytes()
	copy(out[1:33], r[:])
	copy(out[33:65], sv[:])
	return out
}

// SignatureFromCompact parses a 65-byte compact signature.
func SignatureFromCompact(b []byte) (*Signature, error) {
	if len(b) != 65 {
		return nil, fmt.Errorf("%w: compact signature is %d bytes", ErrInvalidSignature, len(b))
	}
	header := b[0]
	if header < 27 || header > 34 {
		return nil, fmt.Errorf("%w: bad header byte 0x%02x", ErrInvalidSignature, header)
	}
	recID := (header - 27) & 0x03

	sig := &Signature{RecoveryID: recID}
	if overflow := sig.R.SetByteSlice(b[1:33]); overflow || sig.R.IsZero() {
		return nil, fmt.Errorf("%w: R out of range", ErrInvalidSignature)
	}
	if overflow := sig.S.SetByteSlice(b[33:65]); overflow || sig.S.IsZero() {
		return nil, fmt.Errorf("%w: S out of range", ErrInvalidSignature)
	}
	return sig, nil
}

// Signer is the signing capability the transaction engine consumes.
// Implementations may block (hardware wallets, remote signers).
type Signer interface {
	// PublicKey returns the serialized public key matching the signing key.
	PublicKey() []byte
	// Sign signs a 32-byte digest.
	Sign(digest []byte) (*Signature, error)
}

// PrivateKeySigner signs with an in-memory secp256k1 key.
type PrivateKeySigner struct {
	key        *btcec.PrivateKey
	compressed bool
}

// NewPrivateKeySigner creates a signer that reports a compressed public key.
func NewPrivateKeySigner(key *btcec.PrivateKey) *PrivateKeySigner {
	return &PrivateKeySigner{key: key, compressed: true}
}

// NewPrivateKeySignerFromBytes creates a signer from a 32-byte secret.
func NewPrivateKeySignerFromBytes(secret []byte) (*PrivateKeySigner, error) {
	if len(secret) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(secret))
	}
	key, _ := btcec.PrivKeyFromBytes(secret)
	return NewPrivateKeySigner(key), nil
}

// PublicKey returns the compressed SEC encoding of the public key.
func (s *PrivateKeySigner) PublicKey() []byte {
	if s.compressed {
		return s.key.PubKey().SerializeCompressed()
	}
	return s.key.PubKey().SerializeUncompressed()
}

// Sign produces a low-S RFC6979 signature with its recovery id.
func (s *PrivateKeySigner) Sign(digest []byte) (*Signature, error) {
	if len(digest) != 32 {
		return nil, ErrInvalidDigest
	}
	compact := ecdsa.SignCompact(s.key, digest, s.compressed)
	return SignatureFromCompact(compact)
}

// RecoverPublicKey recovers the signing key from a digest and a recoverable signature.
// The key is returned compressed.
func RecoverPublicKey(digest []byte, sig *Signature) ([]byte, error) {
	if len(digest) != 32 {
		return nil, ErrInvalidDigest
	}
	pubKey, _, err := ecdsa.RecoverCompact(sig.Compact(), digest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return pubKey.SerializeCompressed(), nil
}

// VerifySignature checks a signature against a serialized public key.
func VerifySignature(digest []byte, sig *Signature, pubKey []byte) bool {
	key, err := btcec.ParsePubKey(pubKey)
	if err != nil {
		return false
	}
	return ecdsa.NewSignature(&sig.R, &sig.S).Verify(digest, key)
}
