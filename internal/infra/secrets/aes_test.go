package secrets

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestRoundTrip(t *testing.T) {
	d, err := NewAESDecryptor(testKey)
	require.NoError(t, err)

	auth := map[string]string{"apiToken": "cf-token-123", "accountId": "abc"}
	blob, err := d.Encrypt(auth)
	require.NoError(t, err)

	got, err := d.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, auth, got)
}

func TestNonceMakesCiphertextUnique(t *testing.T) {
	d, err := NewAESDecryptor(testKey)
	require.NoError(t, err)

	auth := map[string]string{"apiToken": "t"}
	a, err := d.Encrypt(auth)
	require.NoError(t, err)
	b, err := d.Encrypt(auth)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewAESDecryptorRejectsBadKeys(t *testing.T) {
	_, err := NewAESDecryptor("not-hex")
	assert.Error(t, err)

	// Right alphabet, wrong length.
	_, err = NewAESDecryptor("00112233")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 bytes")
}

func TestDecryptRejectsTamperedBlob(t *testing.T) {
	d, err := NewAESDecryptor(testKey)
	require.NoError(t, err)

	blob, err := d.Encrypt(map[string]string{"apiToken": "t"})
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	_, err = d.Decrypt(tampered)
	assert.Error(t, err)
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	d1, err := NewAESDecryptor(testKey)
	require.NoError(t, err)
	d2, err := NewAESDecryptor(strings.Repeat("ff", 32))
	require.NoError(t, err)

	blob, err := d1.Encrypt(map[string]string{"apiToken": "t"})
	require.NoError(t, err)

	_, err = d2.Decrypt(blob)
	assert.Error(t, err)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	d, err := NewAESDecryptor(testKey)
	require.NoError(t, err)

	_, err = d.Decrypt("%%% not base64 %%%")
	assert.Error(t, err)

	_, err = d.Decrypt(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
}
