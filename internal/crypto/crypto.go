// Package crypto provides reversible field-level encryption for stored PII.
// Blobs are base64(nonce ‖ tag ‖ ciphertext) under AES-256-GCM with a fresh
// random nonce per call, so encrypting the same plaintext twice never yields
// the same blob.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"os"
)

const (
	KeySize   = 32 // AES-256 key length in bytes
	nonceSize = 12 // Standard GCM nonce length
	tagSize   = 16 // GCM authentication tag length
)

var (
	// ErrFormat reports a blob that cannot be decoded or is too short to
	// contain a nonce and tag.
	ErrFormat = errors.New("crypto: malformed ciphertext blob")
	// ErrIntegrity reports a blob whose authentication tag does not verify:
	// tampered data or the wrong key. The plaintext is never returned.
	ErrIntegrity = errors.New("crypto: ciphertext integrity check failed")
)

// LoadOrCreateKey loads the symmetric key from path, generating and persisting
// a fresh one on first run. Losing the key file permanently invalidates every
// previously encrypted field; that is an accepted operational risk, so no
// recovery path exists here.
func LoadOrCreateKey(path string) ([]byte, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		key := make([]byte, KeySize)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, key, 0o600); err != nil {
			return nil, err
		}
	}
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(key) != KeySize {
		return nil, errors.New("crypto: key file must contain exactly 32 bytes")
	}
	return key, nil
}

// Cipher encrypts and decrypts field values with a single symmetric key.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher constructs a Cipher from a 32-byte AES key.
func NewCipher(key []byte) (*Cipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext and returns a transport-safe base64 blob laid out as
// nonce ‖ tag ‖ ciphertext.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	// Seal appends the tag after the ciphertext; rearrange to the stored
	// nonce ‖ tag ‖ ciphertext layout.
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	ct, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	blob := make([]byte, 0, nonceSize+tagSize+len(ct))
	blob = append(blob, nonce...)
	blob = append(blob, tag...)
	blob = append(blob, ct...)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt reverses Encrypt. It returns ErrFormat for undecodable or truncated
// blobs and ErrIntegrity when authentication fails.
func (c *Cipher) Decrypt(blob string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", ErrFormat
	}
	if len(raw) < nonceSize+tagSize {
		return "", ErrFormat
	}
	nonce := raw[:nonceSize]
	tag := raw[nonceSize : nonceSize+tagSize]
	ct := raw[nonceSize+tagSize:]

	sealed := make([]byte, 0, len(ct)+tagSize)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrIntegrity
	}
	return string(plaintext), nil
}
