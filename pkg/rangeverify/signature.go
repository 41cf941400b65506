package rangeverify

import (
	"crypto/ed25519"

	"github.com/gagliardetto/solana-go"
)

// SignatureVerifier verifies a signature over message with pubkey.
type SignatureVerifier interface {
	Verify(pubkey solana.PublicKey, signature, message []byte) bool
}

// Ed25519Verifier verifies raw 64-byte Ed25519 signatures.
type Ed25519Verifier struct{}

func (Ed25519Verifier) Verify(pubkey solana.PublicKey, signature, message []byte) bool {
	if len(signature) != ed25519.SignatureSize {
		return false
	}
	return solana.SignatureFromBytes(signature).Verify(pubkey, message)
}

// SignatureVerifierFunc adapts a function to SignatureVerifier.
type SignatureVerifierFunc func(pubkey solana.PublicKey, signature, message []byte) bool

func (f SignatureVerifierFunc) Verify(pubkey solana.PublicKey, signature, message []byte) bool {
	return f(pubkey, signature, message)
}

// CheckSignature binds the claimed signer to the registered authority and then verifies the
// signature against the authority key. The claimed key is never used for verification.
func CheckSignature(v SignatureVerifier, claimed, authority solana.PublicKey, signature, message []byte) error {
	if !claimed.Equals(authority) {
		return newError(ErrorCodeWrongSigner, "message signer %s is not the authority %s", claimed, authority)
	}
	if !v.Verify(authority, signature, message) {
		return &Error{Code: ErrorCodeCouldntVerifySignature}
	}
	return nil
}

// SignMessage produces the canonical message for timestamp and its signature by key.
func SignMessage(key solana.PrivateKey, timestamp uint64) (message []byte, signature []byte, err error) {
	message = FormatMessage(timestamp, key.PublicKey())
	sig, err := key.Sign(message)
	if err != nil {
		return nil, nil, err
	}
	return message, sig[:], nil
}
