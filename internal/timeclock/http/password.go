package http

import (
	"net/http"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/service"
	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/aussiebroadwan/timeclock/pkg/httpx"
	"github.com/aussiebroadwan/timeclock/pkg/slogx"
)

// PasswordHandler serves the forgotten password flow.
type PasswordHandler struct {
	PasswordService *service.PasswordService
}

// HandleForgot godoc
//
//	@Summary		Request Password Reset
//	@Description	Sends a reset link when the email has an account. Always answers 202 so accounts cannot be enumerated.
//	@Tags			Accounts
//	@Accept			json
//	@Param			request	body	clocksdk.ForgotPasswordRequest	true	"email"
//	@Success		202
//	@Failure		400	{object}	clocksdk.APIError
//	@Router			/v1/password/forgot [post].
func (h *PasswordHandler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	var req clocksdk.ForgotPasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil || req.Email == "" {
		clocksdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.PasswordService.RequestReset(r.Context(), req.Email); err != nil {
		slogx.FromContext(r.Context()).Error("password reset request failed", "err", err)
	}

	w.WriteHeader(http.StatusAccepted)
}

// HandleReset godoc
//
//	@Summary		Reset Password
//	@Description	Sets a new password using the token from a reset link. Every session of the user is signed out.
//	@Tags			Accounts
//	@Accept			json
//	@Param			request	body	clocksdk.ResetPasswordRequest	true	"token, new_password, confirm_password"
//	@Success		204
//	@Failure		400	{object}	clocksdk.APIError
//	@Router			/v1/password/reset [post].
func (h *PasswordHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req clocksdk.ResetPasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil || req.Token == "" {
		clocksdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.PasswordService.ResetPassword(r.Context(), req.Token, req.NewPassword, req.ConfirmPassword); err != nil {
		writeServiceError(w, r, err, clocksdk.ErrServerError, "password reset failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
