package cryptox_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/aussiebroadwan/timeclock/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseEd25519Key(t *testing.T) {
	pemBytes, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	require.Contains(t, string(pemBytes), "BEGIN PRIVATE KEY")

	key, err := cryptox.ParseEd25519Key(pemBytes)
	require.NoError(t, err)
	require.Len(t, key, ed25519.PrivateKeySize)

	msg := []byte("clock in")
	sig := ed25519.Sign(key, msg)
	require.True(t, ed25519.Verify(key.Public().(ed25519.PublicKey), msg, sig))
}

func TestParseEd25519KeyRejectsGarbage(t *testing.T) {
	_, err := cryptox.ParseEd25519Key([]byte("not pem"))
	require.Error(t, err)
}
