package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// MessageCipher encrypts message bodies at rest. The key comes from
// MESSAGE_ENCRYPTION_KEY and must be 16, 24, or 32 bytes (AES-128/192/256).
type MessageCipher struct {
	aead cipher.AEAD
}

func NewMessageCipher(key string) (*MessageCipher, error) {
	k := []byte(key)
	if len(k) != 16 && len(k) != 24 && len(k) != 32 {
		return nil, fmt.Errorf("invalid key length: %d (must be 16/24/32)", len(k))
	}

	block, err := aes.NewCipher(k)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &MessageCipher{aead: aead}, nil
}

func (c *MessageCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("read random nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *MessageCipher) Decrypt(encoded string) (string, error) {
	if encoded == "" {
		return "", fmt.Errorf("empty ciphertext")
	}

	sealed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	if len(sealed) < c.aead.NonceSize() {
		return "", fmt.Errorf("ciphertext too short: len=%d", len(sealed))
	}

	nonce := sealed[:c.aead.NonceSize()]
	body := sealed[c.aead.NonceSize():]

	plaintext, err := c.aead.Open(nil, nonce, body, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt message: %w", err)
	}

	return string(plaintext), nil
}
