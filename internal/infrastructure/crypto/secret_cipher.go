package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/shopbridge/backend/internal/domain/marketplace"
)

const (
	// keySalt is versioned so a future KDF change can re-derive under a new
	// salt while still recognizing values produced under the old one
	keySalt = "shopbridge-credential-key-v1"
	// keyIterations is deliberately high to slow brute force on a leaked
	// passphrase
	keyIterations = 120000
	keyLength     = 32
	nonceLength   = 12

	// contextAAD binds ciphertexts to the credential store so they cannot
	// be replayed into an unrelated context
	contextAAD = "shopbridge:marketplace-credentials"

	encodedSegments = 3
)

// SecretCipher encrypts and decrypts long-lived credentials with a key
// derived from an operator-supplied passphrase. It is constructed once and
// passed to whatever needs it; there is no process-global key state.
type SecretCipher struct {
	aead cipher.AEAD
}

// NewSecretCipher derives the encryption key from the passphrase and returns
// a ready cipher. Returns ErrPassphraseMissing when the passphrase is empty.
func NewSecretCipher(passphrase string) (*SecretCipher, error) {
	if passphrase == "" {
		return nil, marketplace.ErrPassphraseMissing
	}

	key := pbkdf2.Key([]byte(passphrase), []byte(keySalt), keyIterations, keyLength, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GCM: %w", err)
	}

	return &SecretCipher{aead: aead}, nil
}

// Encrypt seals the plaintext and returns it encoded as
// hex(iv):hex(authTag):hex(ciphertext). A fresh nonce is drawn per call, so
// encrypting the same plaintext twice yields different output.
func (c *SecretCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, nonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), []byte(contextAAD))

	// GCM appends the tag to the ciphertext; split them back apart to match
	// the persisted iv:tag:ciphertext layout
	tagStart := len(sealed) - c.aead.Overhead()
	ciphertext := sealed[:tagStart]
	tag := sealed[tagStart:]

	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(tag) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt opens an encoded secret. Malformed input or a failed
// authentication tag returns ErrIntegrity; corrupted plaintext is never
// returned.
func (c *SecretCipher) Decrypt(encoded string) (string, error) {
	parts := strings.Split(encoded, ":")
	if len(parts) != encodedSegments {
		return "", fmt.Errorf("%w: expected %d segments, got %d", marketplace.ErrIntegrity, encodedSegments, len(parts))
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) != nonceLength {
		return "", fmt.Errorf("%w: malformed nonce", marketplace.ErrIntegrity)
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != c.aead.Overhead() {
		return "", fmt.Errorf("%w: malformed auth tag", marketplace.ErrIntegrity)
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("%w: malformed ciphertext", marketplace.ErrIntegrity)
	}

	sealed := append(ciphertext, tag...)
	plaintext, err := c.aead.Open(nil, nonce, sealed, []byte(contextAAD))
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", marketplace.ErrIntegrity)
	}

	return string(plaintext), nil
}
