package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/service"
	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/aussiebroadwan/timeclock/pkg/httpx"
)

// TokenHandler serves POST /v1/oauth2/token.
// Accepts application/x-www-form-urlencoded per RFC 6749.
type TokenHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP godoc
//
//	@Summary		Token Endpoint
//	@Description	Signs in with email and password (password grant) or rotates a refresh token (refresh_token grant).
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			grant_type		formData	string					true	"Grant type"	Enums(password, refresh_token)
//	@Param			username		formData	string					false	"Email (required for password grant)"
//	@Param			password		formData	string					false	"Password (required for password grant)"
//	@Param			refresh_token	formData	string					false	"Refresh token (required for refresh_token grant)"
//	@Success		200				{object}	clocksdk.TokenResponse	"access_token, refresh_token, token_type, expires_in, scope"
//	@Failure		400				{object}	clocksdk.APIError		"error, error_description"
//	@Failure		401				{object}	clocksdk.APIError		"error, error_description"
//	@Failure		429				{object}	clocksdk.APIError		"error, error_description"
//	@Header			200				{string}	Cache-Control			"no-store"
//	@Router			/v1/oauth2/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		clocksdk.ErrInvalidContentType.WriteError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		clocksdk.ErrInvalidRequest.WriteError(w)
		return
	}

	switch r.PostForm.Get("grant_type") {
	case "password":
		h.handlePasswordGrant(w, r)
	case "refresh_token":
		h.handleRefreshGrant(w, r)
	default:
		clocksdk.ErrUnsupportedGrantType.WriteError(w)
	}
}

func (h *TokenHandler) handlePasswordGrant(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	if email == "" || password == "" {
		clocksdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.AccountService.Login(r.Context(), email, password)
	if err != nil {
		writeServiceError(w, r, err, clocksdk.ErrServerError, "password grant failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTokenResponse(pair))
}

func (h *TokenHandler) handleRefreshGrant(w http.ResponseWriter, r *http.Request) {
	refresh := r.PostForm.Get("refresh_token")
	if refresh == "" {
		clocksdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.AccountService.Refresh(r.Context(), refresh)
	if err != nil {
		writeServiceError(w, r, err, clocksdk.ErrServerError, "refresh grant failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTokenResponse(pair))
}
