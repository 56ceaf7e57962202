package crypto

import (
	"crypto/ed25519"
	"crypto/sha256"
)

// SignEd25519 signs a raw SHA-256 digest with the private key. The digest
// must be exactly sha256.Size bytes.
func SignEd25519(privateKey ed25519.PrivateKey, digest []byte) ([]byte, error) {
	if len(digest) != sha256.Size {
		return nil, ErrInvalidDigestLen
	}
	return ed25519.Sign(privateKey, digest), nil
}

// VerifyEd25519 reports whether sig is a valid Ed25519 signature over the
// raw SHA-256 digest.
func VerifyEd25519(publicKey ed25519.PublicKey, digest, sig []byte) (bool, error) {
	if len(digest) != sha256.Size {
		return false, ErrInvalidDigestLen
	}
	return ed25519.Verify(publicKey, digest, sig), nil
}
