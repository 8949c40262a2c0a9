package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/service"
	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/aussiebroadwan/timeclock/pkg/httpx"
	"github.com/aussiebroadwan/timeclock/pkg/slogx"
)

// RevokeHandler serves POST /v1/oauth2/revoke (RFC 7009). This is logout:
// the refresh token stops working and the access token expires naturally.
// Unknown tokens still get 200 OK so tokens cannot be probed.
type RevokeHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP godoc
//
//	@Summary		Revoke Refresh Token
//	@Description	Signs a session out by revoking its refresh token. Idempotent.
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			token	formData	string	true	"The refresh token to revoke"
//	@Success		200		"Token revoked (or was already invalid)"
//	@Failure		400		{object}	clocksdk.APIError	"error, error_description"
//	@Router			/v1/oauth2/revoke [post].
func (h *RevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		clocksdk.ErrInvalidContentType.WriteError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		clocksdk.ErrInvalidRequest.WriteError(w)
		return
	}

	token := r.PostForm.Get("token")
	if token == "" {
		clocksdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AccountService.Revoke(r.Context(), token); err != nil {
		slogx.FromContext(r.Context()).Warn("revoke refresh failed", "err", err)
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("{}"))
}
