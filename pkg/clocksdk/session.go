package clocksdk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// SessionCheckTimeout bounds how long Check waits for the server before the
// session is treated as signed out.
const SessionCheckTimeout = 5 * time.Second

// expiryBuffer refreshes the access token slightly before it actually expires.
const expiryBuffer = 30 * time.Second

// ErrSignedOut is returned by Check when the session is no longer usable.
var ErrSignedOut = errors.New("clocksdk: signed out")

// SavedTokens is the persisted form of a session.
type SavedTokens struct {
	AccessToken  string    `json:"access_token" yaml:"access_token"`
	RefreshToken string    `json:"refresh_token" yaml:"refresh_token"`
	Scope        string    `json:"scope" yaml:"scope"`
	ExpiresAt    time.Time `json:"expires_at" yaml:"expires_at"`
}

// Session is an authenticated session with automatic token refresh.
type Session struct {
	client *Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	scopes       map[string]bool
}

// newSession creates a new authenticated session from a token response.
func newSession(client *Client, tokenResp *TokenResponse) *Session {
	return &Session{
		client:       client,
		accessToken:  tokenResp.AccessToken,
		refreshToken: tokenResp.RefreshToken,
		expiresAt:    time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - expiryBuffer),
		scopes:       parseScopes(tokenResp.Scope),
	}
}

// Check confirms the session is still valid by loading the profile. Any
// failure, including the server not answering within SessionCheckTimeout,
// is reported as ErrSignedOut.
func (s *Session) Check(ctx context.Context) (*ProfileResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, SessionCheckTimeout)
	defer cancel()

	profile, err := s.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSignedOut, err)
	}
	return profile, nil
}

// Revoke revokes the refresh token, signing this session out.
func (s *Session) Revoke(ctx context.Context) error {
	s.mu.RLock()
	refreshToken := s.refreshToken
	s.mu.RUnlock()

	if refreshToken == "" {
		return fmt.Errorf("no refresh token to revoke")
	}

	return s.client.RevokeToken(ctx, refreshToken)
}

// Tokens returns a snapshot suitable for persisting and restoring with
// Client.NewSessionFromTokens. Refresh tokens rotate, so save it again after
// every use.
func (s *Session) Tokens() SavedTokens {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scopes := make([]string, 0, len(s.scopes))
	for scope := range s.scopes {
		scopes = append(scopes, scope)
	}

	return SavedTokens{
		AccessToken:  s.accessToken,
		RefreshToken: s.refreshToken,
		Scope:        strings.Join(scopes, " "),
		ExpiresAt:    s.expiresAt,
	}
}

// parseScopes parses a space-delimited scope string into a map for fast lookup.
func parseScopes(scopeStr string) map[string]bool {
	parts := strings.Fields(scopeStr)
	scopes := make(map[string]bool, len(parts))
	for _, scope := range parts {
		scopes[scope] = true
	}
	return scopes
}

// getValidToken returns a valid access token, refreshing it if expired.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have refreshed while we waited for the lock.
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	if s.refreshToken == "" {
		return "", fmt.Errorf("access token expired and no refresh token available")
	}

	tokenResp, err := s.client.RefreshGrant(ctx, s.refreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	s.accessToken = tokenResp.AccessToken
	s.refreshToken = tokenResp.RefreshToken
	s.expiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - expiryBuffer)
	s.scopes = parseScopes(tokenResp.Scope)

	return s.accessToken, nil
}

// HasScope returns true if the session has the specified scope.
func (s *Session) HasScope(scope string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scopes[scope]
}

// checkScopes fails when scope checking is enabled and a scope is missing.
func (s *Session) checkScopes(required ...string) error {
	if !s.client.CheckScopes || len(required) == 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var missing []string
	for _, scope := range required {
		if !s.scopes[scope] {
			missing = append(missing, scope)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required scope(s): %s", strings.Join(missing, ", "))
	}

	return nil
}
