package chain

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

var ErrInvalidSignatureEncoding = errors.New("signature must be 64 bytes encoded as base64 or base58")

// ParsePublicKey parses a base58 ed25519 public key
func ParsePublicKey(s string) (solana.PublicKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return solana.PublicKey{}, errors.New("public key is empty")
	}
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid public key %q: %w", s, err)
	}
	return pk, nil
}

// DecodeSignature accepts base64 (what browser wallets hand back after
// Buffer.toString("base64")) and falls back to base58.
func DecodeSignature(s string) (solana.Signature, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return solana.Signature{}, ErrInvalidSignatureEncoding
	}

	if raw, err := base64.StdEncoding.DecodeString(s); err == nil && len(raw) == solana.SignatureLength {
		return solana.SignatureFromBytes(raw), nil
	}

	sig, err := solana.SignatureFromBase58(s)
	if err != nil {
		return solana.Signature{}, ErrInvalidSignatureEncoding
	}
	return sig, nil
}

// EncodeSignature renders sig as base64, the form DecodeSignature tries first
func EncodeSignature(sig solana.Signature) string {
	return base64.StdEncoding.EncodeToString(sig[:])
}

// VerifyMessage reports whether sig is pk's ed25519 signature over message
func VerifyMessage(pk solana.PublicKey, message []byte, sig solana.Signature) bool {
	return sig.Verify(pk, message)
}
