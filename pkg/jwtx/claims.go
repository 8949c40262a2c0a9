package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// Claims are the access-token claims issued to timeclock clients.
type Claims struct {
	jwt.RegisteredClaims

	// Session ID, shared by every access token minted from one refresh chain.
	SID string `json:"sid,omitempty"`

	// Scopes such as "records:read" or "reports:read".
	Scopes []string `json:"scopes,omitempty"`

	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// AccessParams describes the token being minted by NewAccessClaims.
type AccessParams struct {
	Subject  string
	Session  string
	Scopes   []string
	Email    string
	Name     string
	Issuer   string
	Audience []string
	TTL      time.Duration
}

// NewAccessClaims builds minimally-correct claims.
func NewAccessClaims(p AccessParams, now time.Time) Claims {
	ttl := p.TTL
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Issuer,
			Subject:   p.Subject,
			Audience:  jwt.ClaimStrings(p.Audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		SID:    p.Session,
		Scopes: p.Scopes,
		Email:  p.Email,
		Name:   p.Name,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// HasScope reports whether the claims grant scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience checks that at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateExpiryWithLeeway checks exp and nbf allowing for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
