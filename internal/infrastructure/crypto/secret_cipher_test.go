package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopbridge/backend/internal/domain/marketplace"
)

func TestNewSecretCipher(t *testing.T) {
	t.Run("valid passphrase", func(t *testing.T) {
		c, err := NewSecretCipher("correct horse battery staple")
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("empty passphrase", func(t *testing.T) {
		c, err := NewSecretCipher("")
		assert.ErrorIs(t, err, marketplace.ErrPassphraseMissing)
		assert.Nil(t, c)
	})
}

func TestSecretCipher_RoundTrip(t *testing.T) {
	c, err := NewSecretCipher("test-passphrase")
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext string
	}{
		{name: "token", plaintext: "access-token-abc123"},
		{name: "empty string", plaintext: ""},
		{name: "unicode", plaintext: "秘密のトークン"},
		{name: "long value", plaintext: strings.Repeat("x", 4096)},
		{name: "contains separator", plaintext: "a:b:c:d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := c.Encrypt(tt.plaintext)
			require.NoError(t, err)

			decoded, err := c.Decrypt(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, decoded)
		})
	}
}

func TestSecretCipher_EncodedFormat(t *testing.T) {
	c, err := NewSecretCipher("test-passphrase")
	require.NoError(t, err)

	encoded, err := c.Encrypt("secret")
	require.NoError(t, err)

	parts := strings.Split(encoded, ":")
	require.Len(t, parts, 3)
	assert.Len(t, parts[0], nonceLength*2) // hex doubles length
	assert.Len(t, parts[1], 32)            // 16 byte GCM tag
}

func TestSecretCipher_FreshNoncePerCall(t *testing.T) {
	c, err := NewSecretCipher("test-passphrase")
	require.NoError(t, err)

	first, err := c.Encrypt("same plaintext")
	require.NoError(t, err)
	second, err := c.Encrypt("same plaintext")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSecretCipher_WrongPassphrase(t *testing.T) {
	c1, err := NewSecretCipher("passphrase-one")
	require.NoError(t, err)
	c2, err := NewSecretCipher("passphrase-two")
	require.NoError(t, err)

	encoded, err := c1.Encrypt("secret")
	require.NoError(t, err)

	decoded, err := c2.Decrypt(encoded)
	assert.ErrorIs(t, err, marketplace.ErrIntegrity)
	assert.Empty(t, decoded)
}

func TestSecretCipher_TamperedCiphertext(t *testing.T) {
	c, err := NewSecretCipher("test-passphrase")
	require.NoError(t, err)

	encoded, err := c.Encrypt("secret value")
	require.NoError(t, err)

	parts := strings.Split(encoded, ":")
	require.Len(t, parts, 3)

	flip := func(s string) string {
		b := []byte(s)
		if b[0] == 'a' {
			b[0] = 'b'
		} else {
			b[0] = 'a'
		}
		return string(b)
	}

	tests := []struct {
		name    string
		encoded string
	}{
		{name: "tampered nonce", encoded: flip(parts[0]) + ":" + parts[1] + ":" + parts[2]},
		{name: "tampered tag", encoded: parts[0] + ":" + flip(parts[1]) + ":" + parts[2]},
		{name: "tampered ciphertext", encoded: parts[0] + ":" + parts[1] + ":" + flip(parts[2])},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := c.Decrypt(tt.encoded)
			assert.ErrorIs(t, err, marketplace.ErrIntegrity)
			assert.Empty(t, decoded)
		})
	}
}

func TestSecretCipher_MalformedEncoding(t *testing.T) {
	c, err := NewSecretCipher("test-passphrase")
	require.NoError(t, err)

	tests := []struct {
		name    string
		encoded string
	}{
		{name: "empty", encoded: ""},
		{name: "one segment", encoded: "deadbeef"},
		{name: "two segments", encoded: "deadbeef:deadbeef"},
		{name: "four segments", encoded: "de:ad:be:ef"},
		{name: "non-hex nonce", encoded: "zzzz:deadbeef:deadbeef"},
		{name: "short nonce", encoded: "dead:deadbeefdeadbeefdeadbeefdeadbeef:deadbeef"},
		{name: "non-hex ciphertext", encoded: "deadbeefdeadbeefdeadbeef:deadbeefdeadbeefdeadbeefdeadbeef:zzzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := c.Decrypt(tt.encoded)
			assert.ErrorIs(t, err, marketplace.ErrIntegrity)
			assert.Empty(t, decoded)
		})
	}
}
