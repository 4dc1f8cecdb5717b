// Package secrets decrypts stored provider credentials. The console
// writes them as base64(nonce || AES-256-GCM ciphertext) of a JSON
// object with provider-specific keys.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
)

type AESDecryptor struct {
	aead cipher.AEAD
}

// NewAESDecryptor builds a decryptor from a hex-encoded 32-byte key.
func NewAESDecryptor(hexKey string) (*AESDecryptor, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("secret key is not valid hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("secret key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to init GCM: %w", err)
	}
	return &AESDecryptor{aead: aead}, nil
}

// Encrypt is the inverse of Decrypt, used when credentials are
// written or re-keyed.
func (d *AESDecryptor) Encrypt(auth map[string]string) (string, error) {
	plain, err := json.Marshal(auth)
	if err != nil {
		return "", fmt.Errorf("failed to encode secrets: %w", err)
	}
	nonce := make([]byte, d.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := d.aead.Seal(nonce, nonce, plain, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (d *AESDecryptor) Decrypt(ciphertext string) (map[string]string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("secrets blob is not valid base64: %w", err)
	}
	ns := d.aead.NonceSize()
	if len(raw) < ns {
		return nil, fmt.Errorf("secrets blob too short")
	}
	plain, err := d.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("secrets decryption failed: %w", err)
	}
	auth := make(map[string]string)
	if err := json.Unmarshal(plain, &auth); err != nil {
		return nil, fmt.Errorf("decrypted secrets are not a JSON object: %w", err)
	}
	return auth, nil
}
