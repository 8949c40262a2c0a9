package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/timeclock/pkg/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

const AlgorithmEdDSA = "EdDSA"

// Signer mints EdDSA-signed JWTs under a single key id.
type Signer struct {
	kid string
	key ed25519.PrivateKey
	pub ed25519.PublicKey
}

// NewSigner loads a PKCS8 PEM Ed25519 private key.
func NewSigner(kid string, pemKey []byte) (*Signer, error) {
	if kid == "" {
		return nil, errors.New("jwtx: kid is required")
	}
	key, err := cryptox.ParseEd25519Key(pemKey)
	if err != nil {
		return nil, fmt.Errorf("jwtx: load signer: %w", err)
	}
	return &Signer{kid: kid, key: key, pub: key.Public().(ed25519.PublicKey)}, nil
}

func (s *Signer) KID() string { return s.kid }

// Sign serialises claims into a compact JWS with the kid header set.
func (s *Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}

// PublicJWK is what gets published for verifiers.
func (s *Signer) PublicJWK() JWK {
	return NewEd25519JWK(s.kid, s.pub)
}
