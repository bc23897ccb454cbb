package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
)

// Cipher seals short secrets (webhook auth header values) with AES-256-GCM.
// A Cipher built from an empty key passes values through unchanged.
type Cipher struct {
	aead cipher.AEAD
}

func NewCipher(secret string) (*Cipher, error) {
	if secret == "" {
		return &Cipher{}, nil
	}
	key := sha256.Sum256([]byte(secret))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: gcm}, nil
}

func (c *Cipher) Enabled() bool {
	return c != nil && c.aead != nil
}

// Encrypt returns base64(nonce || ciphertext).
func (c *Cipher) Encrypt(plainText string) (string, error) {
	if !c.Enabled() || plainText == "" {
		return plainText, nil
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plainText), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

var ErrMalformedCipherText = errors.New("malformed cipher text")

func (c *Cipher) Decrypt(cipherText string) (string, error) {
	if !c.Enabled() || cipherText == "" {
		return cipherText, nil
	}

	data, err := base64.StdEncoding.DecodeString(cipherText)
	if err != nil {
		return "", ErrMalformedCipherText
	}
	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize {
		return "", ErrMalformedCipherText
	}

	plain, err := c.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
