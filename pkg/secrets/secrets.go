// Package secrets seals short credentials (API keys) for storage at rest.
package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

var (
	// ErrEmptyKey indicates no master key was configured.
	ErrEmptyKey = errors.New("secret key must not be empty")
	// ErrInvalidCiphertext indicates a sealed value is corrupt or was sealed with another key.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)

const hkdfInfo = "trendr provider credentials v1"

// Box seals and opens values with XChaCha20-Poly1305 under a key derived
// from the configured master secret.
type Box struct {
	aead interface {
		NonceSize() int
		Seal(dst, nonce, plaintext, additionalData []byte) []byte
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
	}
}

// New derives a 256-bit key from master with HKDF-SHA256.
func New(master string) (*Box, error) {
	if master == "" {
		return nil, ErrEmptyKey
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(master), nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	return &Box{aead: aead}, nil
}

// Seal encrypts plaintext and returns nonce||ciphertext encoded as URL-safe base64.
// scope is bound as additional data; Open must be given the same scope.
func (b *Box) Seal(plaintext, scope string) (string, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := b.aead.Seal(nonce, nonce, []byte(plaintext), []byte(scope))
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal.
func (b *Box) Open(token, scope string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidCiphertext
	}

	n := b.aead.NonceSize()
	if len(data) < n {
		return "", ErrInvalidCiphertext
	}

	plaintext, err := b.aead.Open(nil, data[:n], data[n:], []byte(scope))
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	return string(plaintext), nil
}

// Hint masks a secret down to its last four characters, e.g. "***3xYz".
func Hint(secret string) string {
	secret = strings.TrimSpace(secret)
	if len(secret) <= 4 {
		return "***"
	}
	return "***" + secret[len(secret)-4:]
}
