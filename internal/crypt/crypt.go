// Package crypt provides AES-256-GCM encryption for the card fields stored
// on user rows. Ciphertext is base64url-encoded with the random nonce as
// prefix, so a single string fits in a text column.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// ErrDecrypt is returned when decryption or authentication fails.
var ErrDecrypt = errors.New("crypt: decryption failed")

type Cipher struct {
	key [32]byte
}

// New derives a fixed-length AES-256 key from the configured secret.
func New(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, errors.New("crypt: encryption key not configured")
	}
	return &Cipher{key: sha256.Sum256([]byte(secret))}, nil
}

// Encrypt encrypts plaintext and returns base64url(nonce || ciphertext || tag).
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	gcm, err := c.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (c *Cipher) Decrypt(encoded string) (string, error) {
	gcm, err := c.gcm()
	if err != nil {
		return "", err
	}

	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrDecrypt
	}
	if len(data) < gcm.NonceSize() {
		return "", ErrDecrypt
	}

	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

func (c *Cipher) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key[:])
	if err != nil {
		return nil, fmt.Errorf("crypt: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypt: new GCM: %w", err)
	}
	return gcm, nil
}
