package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArgon2Params() Argon2Params {
	// Small parameters to keep tests fast.
	return Argon2Params{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)

	hash, err := h.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.True(t, h.Verify("secret", hash))
	assert.False(t, h.Verify("wrong", hash))
	assert.False(t, h.Verify("secret", "not-a-hash"))
}

func TestBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	h := NewBcryptHasher(99)
	hash, err := h.Hash("pw")
	require.NoError(t, err)
	assert.True(t, h.Verify("pw", hash))
}

func TestArgon2Hasher(t *testing.T) {
	h := NewArgon2Hasher(testArgon2Params())

	hash, err := h.Hash("some-refresh-token")
	require.NoError(t, err)
	assert.NotEqual(t, "some-refresh-token", hash)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	assert.True(t, h.Verify("some-refresh-token", hash))
	assert.False(t, h.Verify("other-token", hash))
}

func TestArgon2Hasher_SaltedHashesDiffer(t *testing.T) {
	h := NewArgon2Hasher(testArgon2Params())

	h1, err := h.Hash("token")
	require.NoError(t, err)
	h2, err := h.Hash("token")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
	assert.True(t, h.Verify("token", h1))
	assert.True(t, h.Verify("token", h2))
}

func TestArgon2Hasher_RejectsMalformedEncodings(t *testing.T) {
	h := NewArgon2Hasher(testArgon2Params())

	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=1024,t=1,p=1$short",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
	} {
		assert.False(t, h.Verify("token", encoded), "encoded=%q", encoded)
	}
}
