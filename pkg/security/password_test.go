package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcalabs/orcamentos-backend/pkg/config"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	cfg := testPasswordConfig()

	hash, err := HashPassword(cfg, "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword(hash, "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong-pass")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordEmpty(t *testing.T) {
	t.Parallel()

	_, err := HashPassword(testPasswordConfig(), "")
	require.Error(t, err)
}

func TestHashPasswordUniqueSalt(t *testing.T) {
	t.Parallel()

	cfg := testPasswordConfig()

	first, err := HashPassword(cfg, "same-password")
	require.NoError(t, err)
	second, err := HashPassword(cfg, "same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192$c2FsdA$aGFzaA",
	}
	for _, encoded := range cases {
		_, err := VerifyPassword(encoded, "whatever")
		assert.Error(t, err, "hash %q", encoded)
	}
}

func TestGenerateTempPassword(t *testing.T) {
	t.Parallel()

	password, err := GenerateTempPassword()
	require.NoError(t, err)
	assert.Len(t, password, tempPasswordLength)
	for _, r := range password {
		assert.Contains(t, tempPasswordCharset, string(r))
	}

	other, err := GenerateTempPassword()
	require.NoError(t, err)
	assert.NotEqual(t, password, other)
}
