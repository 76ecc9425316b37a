package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/noah-isme/adr-api/pkg/config"
)

// magic prefixes every ciphertext before encoding so already-protected values
// can be recognised structurally. This is what makes Protect/Reveal idempotent.
var magic = []byte("ADR1")

const (
	keySize        = 32
	kdfIterations  = 100_000
	gcmNonceLength = 12
)

// Cipher performs AES-256-GCM encryption of individual field values.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a cipher from configuration. An explicit base64 key wins;
// otherwise the key is derived from the configured password and salt.
func NewCipher(cfg config.EncryptionConfig) (*Cipher, error) {
	var key []byte
	if cfg.Key != "" {
		decoded, err := base64.URLEncoding.DecodeString(cfg.Key)
		if err != nil {
			decoded, err = base64.StdEncoding.DecodeString(cfg.Key)
			if err != nil {
				return nil, fmt.Errorf("decode encryption key: %w", err)
			}
		}
		if len(decoded) != keySize {
			return nil, fmt.Errorf("encryption key must be %d bytes, got %d", keySize, len(decoded))
		}
		key = decoded
	} else {
		key = pbkdf2.Key([]byte(cfg.Password), []byte(cfg.Salt), kdfIterations, keySize, sha256.New)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init aes cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// GenerateKey returns a fresh random key in base64, for provisioning.
func GenerateKey() (string, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(key), nil
}

// Encrypt protects a single value. Empty and already-encrypted values pass
// through unchanged.
func (c *Cipher) Encrypt(plain string) (string, error) {
	if plain == "" || c.IsEncrypted(plain) {
		return plain, nil
	}

	nonce := make([]byte, gcmNonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plain), nil)

	payload := make([]byte, 0, len(magic)+len(nonce)+len(sealed))
	payload = append(payload, magic...)
	payload = append(payload, nonce...)
	payload = append(payload, sealed...)

	return base64.URLEncoding.EncodeToString(payload), nil
}

// Decrypt reverses Encrypt. Values without the structural marker are assumed
// to be plaintext and returned unchanged.
func (c *Cipher) Decrypt(value string) (string, error) {
	if value == "" || !c.IsEncrypted(value) {
		return value, nil
	}

	payload, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	payload = payload[len(magic):]
	if len(payload) < gcmNonceLength {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, sealed := payload[:gcmNonceLength], payload[gcmNonceLength:]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt field: %w", err)
	}

	return string(plain), nil
}

// IsEncrypted reports whether the value carries the ciphertext marker.
func (c *Cipher) IsEncrypted(value string) bool {
	if value == "" {
		return false
	}
	decoded, err := base64.URLEncoding.DecodeString(value)
	if err != nil || len(decoded) < len(magic) {
		return false
	}
	for i := range magic {
		if decoded[i] != magic[i] {
			return false
		}
	}
	return true
}
