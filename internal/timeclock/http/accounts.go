package http

import (
	"net/http"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/service"
	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/aussiebroadwan/timeclock/pkg/httpx"
	"github.com/aussiebroadwan/timeclock/pkg/slogx"
)

// AccountsHandler serves registration and the signed-in user's profile.
type AccountsHandler struct {
	AccountService *service.AccountService
}

// HandleRegister godoc
//
//	@Summary		Register
//	@Description	Creates an account with a display name, email and password (at least 6 characters).
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clocksdk.RegisterRequest	true	"name, email, password"
//	@Success		201		{object}	clocksdk.ProfileResponse
//	@Failure		400		{object}	clocksdk.APIError	"error, error_description"
//	@Failure		409		{object}	clocksdk.APIError	"email already registered"
//	@Router			/v1/accounts [post].
func (h *AccountsHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req clocksdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		clocksdk.ErrInvalidRequest.WriteError(w)
		return
	}

	u, err := h.AccountService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, clocksdk.ErrServerError, "register failed")
		return
	}

	slogx.FromContext(r.Context()).Info("account registered", "user_id", u.ID)
	httpx.WriteJSON(w, http.StatusCreated, toProfileResponse(u))
}

// HandleGetProfile godoc
//
//	@Summary		Get Profile
//	@Tags			Accounts
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	clocksdk.ProfileResponse
//	@Failure		401	{object}	clocksdk.APIError
//	@Failure		404	{object}	clocksdk.APIError
//	@Router			/v1/me [get].
func (h *AccountsHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.AccountService.GetProfile(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, clocksdk.ErrServerError, "get profile failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProfileResponse(u))
}

// HandleUpdateProfile godoc
//
//	@Summary		Update Settings
//	@Description	Changes the display name and/or contracted weekly hours (1-168). Omitted fields are unchanged.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		clocksdk.UpdateProfileRequest	true	"name, weekly_hours"
//	@Success		200		{object}	clocksdk.ProfileResponse
//	@Failure		400		{object}	clocksdk.APIError
//	@Failure		401		{object}	clocksdk.APIError
//	@Router			/v1/me [patch].
func (h *AccountsHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req clocksdk.UpdateProfileRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		clocksdk.ErrInvalidRequest.WriteError(w)
		return
	}

	u, err := h.AccountService.UpdateProfile(r.Context(), httpx.UserIDFromContext(r.Context()), domain.ProfileUpdate{
		Name:        req.Name,
		WeeklyHours: req.WeeklyHours,
	})
	if err != nil {
		writeServiceError(w, r, err, clocksdk.ErrServerError, "update profile failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProfileResponse(u))
}

// HandleDelete godoc
//
//	@Summary		Delete Account
//	@Description	Deletes the account with all of its time records and sessions.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	clocksdk.APIError
//	@Router			/v1/me [delete].
func (h *AccountsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromContext(r.Context())
	if err := h.AccountService.DeleteAccount(r.Context(), userID); err != nil {
		writeServiceError(w, r, err, clocksdk.ErrServerError, "delete account failed")
		return
	}

	slogx.FromContext(r.Context()).Info("account deleted", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}
