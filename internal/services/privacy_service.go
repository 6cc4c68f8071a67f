package services

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// PrivacyService derives the anonymized shadow values for patients and,
// when a key is configured, encrypts diagnosis text at rest. Anonymization
// is non-destructive: the derived values live next to the originals.
type PrivacyService struct {
	key []byte
}

// NewPrivacyService creates a privacy service. A nil or empty key disables
// diagnosis encryption; anonymization works regardless.
func NewPrivacyService(key []byte) *PrivacyService {
	return &PrivacyService{key: key}
}

// EncryptionEnabled reports whether an encryption key is configured.
func (s *PrivacyService) EncryptionEnabled() bool {
	return len(s.key) > 0
}

// AnonymizeName derives a pseudonym like ANON_AB12CD from the SHA-256
// digest of the real name. Deterministic, so repeated runs are stable.
func (s *PrivacyService) AnonymizeName(name string) string {
	if name == "" {
		return ""
	}
	digest := sha256.Sum256([]byte(name))
	return "ANON_" + strings.ToUpper(hex.EncodeToString(digest[:])[:6])
}

// MaskContact masks a contact like XXX-XXX-1234, keeping only the last
// four characters.
func (s *PrivacyService) MaskContact(contact string) string {
	if contact == "" {
		return ""
	}
	last4 := contact
	if len(contact) > 4 {
		last4 = contact[len(contact)-4:]
	}
	return "XXX-XXX-" + last4
}

// Encrypt seals plaintext with AES-256-GCM and a random nonce, returning
// base64. Two calls with the same input produce different ciphertexts.
func (s *PrivacyService) Encrypt(plaintext string) (string, error) {
	if !s.EncryptionEnabled() {
		return "", ErrEncryptionDisabled
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (s *PrivacyService) Decrypt(ciphertext string) (string, error) {
	if !s.EncryptionEnabled() {
		return "", ErrEncryptionDisabled
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("invalid ciphertext encoding: %w", err)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	if len(raw) < gcm.NonceSize() {
		return "", fmt.Errorf("ciphertext too short")
	}
	nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}
	return string(plaintext), nil
}
