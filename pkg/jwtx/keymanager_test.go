package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/timeclock/pkg/cryptox"
	"github.com/aussiebroadwan/timeclock/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, numKeys int) *jwtx.KeyManager {
	t.Helper()
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:   "timeclock",
		Audience: []string{"timeclock-api"},
		NumKeys:  numKeys,
	})
	require.NoError(t, err)
	return km
}

func accessClaims(now time.Time) jwtx.Claims {
	return jwtx.NewAccessClaims(jwtx.AccessParams{
		Subject:  "user-1",
		Session:  "sess-1",
		Scopes:   []string{"records:read"},
		Email:    "ada@example.com",
		Name:     "Ada",
		Issuer:   "timeclock",
		Audience: []string{"timeclock-api"},
	}, now)
}

func TestNewEphemeralKeyManager(t *testing.T) {
	_, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{})
	require.Error(t, err)

	tests := []struct {
		name    string
		numKeys int
		want    int
	}{
		{"default", 0, 3},
		{"single", 1, 1},
		{"capped", 25, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			km := newManager(t, tt.numKeys)
			require.True(t, km.IsReady())
			require.Equal(t, tt.want, km.NumSigners())
			require.Len(t, km.KeySet.PublicJWKS().Keys, tt.want)
			require.True(t, strings.HasPrefix(km.GetSigner().KID(), "timeclock-"))
		})
	}
}

func TestKeyManager_SignAndVerifyRoundTrip(t *testing.T) {
	km := newManager(t, 3)

	token, err := km.Sign(accessClaims(time.Now()))
	require.NoError(t, err)

	claims, err := km.Verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "sess-1", claims.SID)
	require.Equal(t, "ada@example.com", claims.Email)
	require.True(t, claims.HasScope("records:read"))
}

func TestKeyManager_RejectsForeignAndTamperedTokens(t *testing.T) {
	km := newManager(t, 1)
	other := newManager(t, 1)

	foreign, err := other.Sign(accessClaims(time.Now()))
	require.NoError(t, err)
	_, err = km.Verifier.Verify(foreign)
	require.ErrorIs(t, err, jwtx.ErrUnknownKID)

	token, err := km.Sign(accessClaims(time.Now()))
	require.NoError(t, err)
	_, err = km.Verifier.Verify(token[:len(token)-4] + "AAAA")
	require.ErrorIs(t, err, jwtx.ErrMalformed)

	_, err = km.Verifier.Verify("not.a.jwt")
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}

func TestKeyManager_RejectsExpiredAndWrongIssuer(t *testing.T) {
	km := newManager(t, 1)

	expired, err := km.Sign(accessClaims(time.Now().Add(-time.Hour)))
	require.NoError(t, err)
	_, err = km.Verifier.Verify(expired)
	require.ErrorIs(t, err, jwtx.ErrExpired)

	c := accessClaims(time.Now())
	c.Issuer = "somebody-else"
	wrongIss, err := km.Sign(c)
	require.NoError(t, err)
	_, err = km.Verifier.Verify(wrongIss)
	require.ErrorIs(t, err, jwtx.ErrIssuer)

	c = accessClaims(time.Now())
	c.Audience = jwt.ClaimStrings{"kiosk"}
	wrongAud, err := km.Sign(c)
	require.NoError(t, err)
	_, err = km.Verifier.Verify(wrongAud)
	require.ErrorIs(t, err, jwtx.ErrAudience)
}

func TestKeyManager_RetireKeepsVerification(t *testing.T) {
	km := newManager(t, 1)
	old := km.GetSigner()

	token, err := km.Sign(accessClaims(time.Now()))
	require.NoError(t, err)

	require.Error(t, km.RetireSignerByKid(old.KID()), "last key cannot be retired")

	pemBytes, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	fresh, err := jwtx.NewSigner("timeclock-fresh", pemBytes)
	require.NoError(t, err)
	require.NoError(t, km.AddSigner(fresh))

	require.NoError(t, km.RetireSignerByKid(old.KID()))
	require.Error(t, km.RetireSignerByKid("missing"))
	require.Equal(t, 1, km.NumSigners())
	require.Equal(t, "timeclock-fresh", km.GetSigner().KID())

	_, err = km.Verifier.Verify(token)
	require.NoError(t, err)
}
