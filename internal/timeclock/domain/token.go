package domain

import "time"

// TokenPair is what the token endpoint returns: a short-lived access token
// (JWT) and an opaque refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
	Scope        string `json:"scope,omitempty"`
}

// RefreshToken is the stored refresh token record. Only the fingerprint of
// the opaque token is persisted.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	SessionID string // stays the same across rotations
	Scopes    []string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// PasswordReset is a single-use reset link.
type PasswordReset struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
