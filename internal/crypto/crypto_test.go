package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCipher(t *testing.T) *Cipher {
	t.Helper()
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	c, err := NewCipher(key)
	require.NoError(t, err)
	return c
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	c := testCipher(t)
	for _, plaintext := range []string{"", "a@x.com", "пример", "a longer value with spaces and symbols !@#$%"} {
		blob, err := c.Encrypt(plaintext)
		require.NoError(t, err)
		got, err := c.Decrypt(blob)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestEncrypt_Nondeterministic(t *testing.T) {
	c := testCipher(t)
	blob1, err := c.Encrypt("a@x.com")
	require.NoError(t, err)
	blob2, err := c.Encrypt("a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, blob1, blob2)
}

func TestDecrypt_TamperedBlob(t *testing.T) {
	c := testCipher(t)
	blob, err := c.Encrypt("a@x.com")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)

	// Flipping any byte in the tag or ciphertext region must fail closed.
	for i := nonceSize; i < len(raw); i++ {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[i] ^= 0x01
		_, err := c.Decrypt(base64.StdEncoding.EncodeToString(tampered))
		assert.ErrorIs(t, err, ErrIntegrity, "byte %d", i)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	blob, err := testCipher(t).Encrypt("a@x.com")
	require.NoError(t, err)
	_, err = testCipher(t).Decrypt(blob)
	assert.ErrorIs(t, err, ErrIntegrity)
}

func TestDecrypt_MalformedBlob(t *testing.T) {
	c := testCipher(t)

	_, err := c.Decrypt("not base64 at all!!!")
	assert.ErrorIs(t, err, ErrFormat)

	// Decodable but too short to hold a nonce and tag.
	short := base64.StdEncoding.EncodeToString(make([]byte, nonceSize+tagSize-1))
	_, err = c.Decrypt(short)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestLoadOrCreateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "encryption_key.bin")

	key1, err := LoadOrCreateKey(path)
	require.NoError(t, err)
	assert.Len(t, key1, KeySize)

	// Second load returns the persisted key, not a fresh one.
	key2, err := LoadOrCreateKey(path)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)
}

func TestLoadOrCreateKey_WrongSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "encryption_key.bin")
	require.NoError(t, os.WriteFile(path, []byte("too short"), 0o600))
	_, err := LoadOrCreateKey(path)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, os.ErrNotExist))
}
