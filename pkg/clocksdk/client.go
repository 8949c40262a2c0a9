package clocksdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a timeclock server. It covers the unauthenticated endpoints
// and creates authenticated Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// CheckScopes makes a Session verify its granted scopes before sending a
	// request, failing fast instead of waiting for a 403. Default: true
	CheckScopes bool
}

// NewClient creates a client with scope checking enabled.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		CheckScopes: true,
	}
}

// ============================================================================
// Accounts
// ============================================================================

// Register creates a new account. The caller still has to Login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*ProfileResponse, error) {
	body, headers, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/accounts", body, headers)
	if err != nil {
		return nil, err
	}

	var profile ProfileResponse
	if err := decodeJSON(resp, &profile, http.StatusCreated); err != nil {
		return nil, err
	}

	return &profile, nil
}

// ForgotPassword asks the server to send a reset link. The server answers 202
// whether or not the email has an account.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body, headers, err := jsonBody(ForgotPasswordRequest{Email: email})
	if err != nil {
		return err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/password/forgot", body, headers)
	if err != nil {
		return err
	}

	return checkStatus(resp, http.StatusAccepted)
}

// ResetPassword completes a reset started by ForgotPassword. All existing
// sessions of the user are signed out.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	body, headers, err := jsonBody(req)
	if err != nil {
		return err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/password/reset", body, headers)
	if err != nil {
		return err
	}

	return checkStatus(resp, http.StatusNoContent)
}

// ============================================================================
// Tokens
// ============================================================================

// Login signs in with email and password and returns a session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	tokenResp, err := c.PasswordGrant(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return newSession(c, tokenResp), nil
}

// AuthenticateWithRefreshToken creates a session from an existing refresh token.
func (c *Client) AuthenticateWithRefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	tokenResp, err := c.RefreshGrant(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	return newSession(c, tokenResp), nil
}

// NewSessionFromTokens restores a session saved with Session.Tokens.
func (c *Client) NewSessionFromTokens(t SavedTokens) *Session {
	return &Session{
		client:       c,
		accessToken:  t.AccessToken,
		refreshToken: t.RefreshToken,
		expiresAt:    t.ExpiresAt,
		scopes:       parseScopes(t.Scope),
	}
}

// PasswordGrant exchanges email and password for tokens.
func (c *Client) PasswordGrant(ctx context.Context, email, password string) (*TokenResponse, error) {
	data := url.Values{
		"grant_type": {"password"},
		"username":   {email},
		"password":   {password},
	}

	return c.requestToken(ctx, data)
}

// RefreshGrant rotates a refresh token. The old refresh token stops working.
func (c *Client) RefreshGrant(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	data := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}

	return c.requestToken(ctx, data)
}

// RevokeToken revokes a refresh token. Unknown tokens are not an error.
func (c *Client) RevokeToken(ctx context.Context, token string) error {
	data := url.Values{
		"token": {token},
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/oauth2/revoke",
		strings.NewReader(data.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
	)
	if err != nil {
		return err
	}

	return checkStatus(resp, http.StatusOK)
}

func (c *Client) requestToken(ctx context.Context, data url.Values) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/oauth2/token",
		strings.NewReader(data.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
	)
	if err != nil {
		return nil, err
	}

	var tokenResp TokenResponse
	if err := decodeJSON(resp, &tokenResp, http.StatusOK); err != nil {
		return nil, err
	}

	return &tokenResp, nil
}

// ============================================================================
// System
// ============================================================================

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.getHealth(ctx, "/livez")
}

// GetReadiness checks if the service and its database are ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.getHealth(ctx, "/readyz")
}

func (c *Client) getHealth(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}

	return &health, nil
}

// GetJWKS retrieves the public keys used to sign access tokens.
func (c *Client) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/.well-known/jwks.json", nil, nil)
	if err != nil {
		return nil, err
	}

	var jwks JWKSResponse
	if err := decodeJSON(resp, &jwks, http.StatusOK); err != nil {
		return nil, err
	}

	return &jwks, nil
}
