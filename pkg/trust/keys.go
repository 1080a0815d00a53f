package trust

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// PEM block types for comet key material files.
const (
	PublicKeyBlockType  = "COMET ED25519 PUBLIC KEY"
	PrivateKeyBlockType = "COMET ED25519 PRIVATE KEY"
)

// Default key material file names written by GenerateKeypairFiles.
const (
	PublicKeyFileName  = "public-key.pem"
	PrivateKeyFileName = "key.pem"
)

// ErrSignature is returned by Verifier.Verify when the signature does not
// match the payload under the trusted key.
var ErrSignature = errors.New("signature verification failed")

// Signer produces an asymmetric signature over a byte payload.
type Signer interface {
	Sign(msg []byte) ([]byte, error)
}

// Verifier checks an asymmetric signature over a byte payload against the
// process-wide trust anchor.
type Verifier interface {
	Verify(msg, sig []byte) error
}

// KeySigner signs with an ed25519 private key.
type KeySigner struct {
	key ed25519.PrivateKey
}

// NewKeySigner wraps an ed25519 private key.
func NewKeySigner(key ed25519.PrivateKey) *KeySigner {
	return &KeySigner{key: key}
}

// Sign signs msg with the wrapped private key.
func (s *KeySigner) Sign(msg []byte) ([]byte, error) {
	if len(s.key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid ed25519 private key length: %d", len(s.key))
	}
	return ed25519.Sign(s.key, msg), nil
}

// KeyVerifier verifies against an ed25519 public key.
type KeyVerifier struct {
	key ed25519.PublicKey
}

// NewKeyVerifier wraps an ed25519 public key.
func NewKeyVerifier(key ed25519.PublicKey) *KeyVerifier {
	return &KeyVerifier{key: key}
}

// Verify reports ErrSignature unless sig is a valid signature of msg under
// the wrapped public key.
func (v *KeyVerifier) Verify(msg, sig []byte) error {
	if len(v.key) != ed25519.PublicKeySize {
		return fmt.Errorf("invalid ed25519 public key length: %d", len(v.key))
	}
	if !ed25519.Verify(v.key, msg, sig) {
		return ErrSignature
	}
	return nil
}

// GenerateKeypair generates a fresh ed25519 keypair.
func GenerateKeypair() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("generate ed25519 keypair: %w", err)
	}
	return pub, priv, nil
}

// GenerateKeypairFiles generates a keypair and writes public-key.pem and
// key.pem into dir, creating it if needed. The private key file is written
// owner-read-only.
func GenerateKeypairFiles(dir string) error {
	pub, priv, err := GenerateKeypair()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}

	pubPEM := pem.EncodeToMemory(&pem.Block{Type: PublicKeyBlockType, Bytes: pub})
	if err := os.WriteFile(filepath.Join(dir, PublicKeyFileName), pubPEM, 0o644); err != nil {
		return fmt.Errorf("write public key: %w", err)
	}

	privPEM := pem.EncodeToMemory(&pem.Block{Type: PrivateKeyBlockType, Bytes: priv})
	if err := os.WriteFile(filepath.Join(dir, PrivateKeyFileName), privPEM, 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}
	return nil
}

// ParsePublicKeyPEM decodes a PEM-encoded ed25519 public key, e.g. the
// build-time embedded trust anchor.
func ParsePublicKeyPEM(data []byte) (ed25519.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found in public key data")
	}
	if len(block.Bytes) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid ed25519 public key length: %d", len(block.Bytes))
	}
	return ed25519.PublicKey(block.Bytes), nil
}

// ParsePrivateKeyPEM decodes a PEM-encoded ed25519 private key.
func ParsePrivateKeyPEM(data []byte) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found in private key data")
	}
	if len(block.Bytes) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid ed25519 private key length: %d", len(block.Bytes))
	}
	return ed25519.PrivateKey(block.Bytes), nil
}

// LoadPrivateKeyFile reads and parses a PEM private key file.
func LoadPrivateKeyFile(path string) (ed25519.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key file: %w", err)
	}
	return ParsePrivateKeyPEM(data)
}

// LoadPublicKeyFile reads and parses a PEM public key file.
func LoadPublicKeyFile(path string) (ed25519.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read public key file: %w", err)
	}
	return ParsePublicKeyPEM(data)
}
