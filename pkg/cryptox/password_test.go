package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	SetPepper("test-pepper")
	os.Exit(m.Run())
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "pässwörd🔒"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6)
			require.Equal(t, "m=19456,t=2,p=1", parts[3])
			require.NotEmpty(t, parts[4])
			require.NotEmpty(t, parts[5])

			require.NoError(t, VerifyPassword(tt.password, hash))
			require.False(t, NeedsRehash(hash))
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	hash1, err := HashPassword("samepassword")
	require.NoError(t, err)
	hash2, err := HashPassword("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2)
	require.NoError(t, VerifyPassword("samepassword", hash1))
	require.NoError(t, VerifyPassword("samepassword", hash2))
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("correct-password")
	require.NoError(t, err)

	for _, wrong := range []string{"wrong-password", "Correct-Password", "correct-password ", "", strings.Repeat("x", 10000)} {
		require.ErrorIs(t, VerifyPassword(wrong, hash), ErrPasswordMismatch, "input %q", wrong)
	}
}

func TestVerifyPassword_InvalidHashFormat(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty hash", ""},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPassword("whatever", tt.hash)
			require.ErrorIs(t, err, ErrInvalidHash)
			require.True(t, NeedsRehash(tt.hash))
		})
	}
}

func TestNeedsRehash_OldParameters(t *testing.T) {
	require.True(t, NeedsRehash("$argon2id$v=19$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g"))
}

func TestPepperChangesHash(t *testing.T) {
	hash, err := HashPassword("pepper-sensitive")
	require.NoError(t, err)

	SetPepper("another-pepper")
	t.Cleanup(func() { SetPepper("test-pepper") })

	require.ErrorIs(t, VerifyPassword("pepper-sensitive", hash), ErrPasswordMismatch)
}

func TestLoadPepperCreatesAndReusesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pepper")
	SetPepperPath(path)
	t.Cleanup(func() { SetPepper("test-pepper") })

	require.NoError(t, LoadPepper())
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	SetPepperPath(path)
	require.NoError(t, LoadPepper())
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, first, second)

	p, err := currentPepper()
	require.NoError(t, err)
	require.Equal(t, string(first), p)
}
