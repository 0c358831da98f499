package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/doeshing/iop/internal/domain"
)

const (
	saltSize         = 16
	keySize          = 32
	pbkdf2Iterations = 100000
)

// EncryptKey seals apiKey with AES-GCM under a key derived from password.
// The result is base64(salt | nonce | ciphertext).
func EncryptKey(apiKey, password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	gcm, err := newGCM(password, salt)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, saltSize+len(nonce)+len(apiKey)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, []byte(apiKey), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// DecryptKey reverses EncryptKey. A wrong password yields domain.ErrDecryptKey.
func DecryptKey(token, password string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", domain.ErrDecryptKey
	}
	if len(raw) < saltSize {
		return "", domain.ErrDecryptKey
	}
	salt, rest := raw[:saltSize], raw[saltSize:]
	gcm, err := newGCM(password, salt)
	if err != nil {
		return "", err
	}
	if len(rest) < gcm.NonceSize() {
		return "", domain.ErrDecryptKey
	}
	nonce, sealed := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", domain.ErrDecryptKey
	}
	return string(plain), nil
}

func newGCM(password string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
