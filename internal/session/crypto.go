package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// cipherBox seals and opens session values with XChaCha20-Poly1305. The key
// is derived from the configured shared secret with HKDF so the secret itself
// never acts as raw key material.
type cipherBox struct {
	aead interface {
		Seal(dst, nonce, plaintext, additionalData []byte) []byte
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
	}
}

func newCipherBox(secret string) (*cipherBox, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("session secret is required")
	}

	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("helpdesk-console/session"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	return &cipherBox{aead: aead}, nil
}

// seal: plaintext → base64(nonce || ciphertext).
func (b *cipherBox) seal(plaintext []byte) (string, error) {
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := b.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// open reverses seal. Any malformed or tampered input yields ok=false; a
// corrupted entry must read as "absent", never as an error.
func (b *cipherBox) open(encoded string) ([]byte, bool) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, false
	}

	if len(raw) < chacha20poly1305.NonceSizeX {
		return nil, false
	}

	nonce, ciphertext := raw[:chacha20poly1305.NonceSizeX], raw[chacha20poly1305.NonceSizeX:]
	plaintext, err := b.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, false
	}

	return plaintext, true
}
