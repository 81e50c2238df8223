package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

const (
	encryptionKeyEnv = "PROXYVET_ENCRYPTION_KEY"

	// CredentialPrefix marks a stored value as ciphertext. Plain values
	// without the prefix pass through Decrypt unchanged, which keeps rows
	// written before encryption was enabled readable.
	CredentialPrefix = "enc:"
)

var (
	cipherOnce sync.Once
	cipherInst cipher.AEAD
	cipherErr  error
)

func getCredentialCipher() (cipher.AEAD, error) {
	cipherOnce.Do(func() {
		rawKey := strings.TrimSpace(os.Getenv(encryptionKeyEnv))
		if rawKey == "" {
			cipherErr = errors.New("credential encryption key not set: " + encryptionKeyEnv)
			return
		}

		key := deriveKey(rawKey)

		block, err := aes.NewCipher(key)
		if err != nil {
			cipherErr = fmt.Errorf("create cipher: %w", err)
			return
		}

		gcm, err := cipher.NewGCM(block)
		if err != nil {
			cipherErr = fmt.Errorf("create gcm: %w", err)
			return
		}

		cipherInst = gcm
	})

	return cipherInst, cipherErr
}

// deriveKey accepts either a base64-encoded AES key or an arbitrary
// passphrase, which is hashed down to 32 bytes.
func deriveKey(raw string) []byte {
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		switch len(decoded) {
		case 16, 24, 32:
			return decoded
		}
	}

	sum := sha256.Sum256([]byte(raw))
	return sum[:]
}

func EncryptCredential(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}

	gcm, err := getCredentialCipher()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plain), nil)
	return CredentialPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

func DecryptCredential(value string) (string, error) {
	if value == "" {
		return "", nil
	}

	if !strings.HasPrefix(value, CredentialPrefix) {
		return value, nil
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, CredentialPrefix))
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}

	gcm, err := getCredentialCipher()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) <= nonceSize {
		return "", errors.New("ciphertext too short")
	}

	plain, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("decrypt ciphertext: %w", err)
	}

	return string(plain), nil
}

func ResetCredentialCipherForTests() {
	cipherOnce = sync.Once{}
	cipherInst = nil
	cipherErr = nil
}
