package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/service"
	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/aussiebroadwan/timeclock/pkg/httpx"
	"github.com/aussiebroadwan/timeclock/pkg/slogx"
)

// BadgeHandler serves the personal QR badge.
type BadgeHandler struct {
	BadgeService *service.BadgeService
}

// HandleGet godoc
//
//	@Summary		Get Badge
//	@Description	PNG QR code encoding {uid, action, ts, otp}. The one-time code is valid for about a minute.
//	@Tags			Badge
//	@Produce		image/png
//	@Security		BearerAuth
//	@Param			size	query		int	false	"Edge length in pixels (64-1024, default 256)"
//	@Success		200		{file}		binary
//	@Failure		400		{object}	clocksdk.APIError
//	@Router			/v1/badge [get].
func (h *BadgeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			clocksdk.ErrInvalidRequest.WriteError(w)
			return
		}
		size = n
	}

	png, err := h.BadgeService.Render(r.Context(), httpx.UserIDFromContext(r.Context()), size)
	if err != nil {
		writeServiceError(w, r, err, clocksdk.ErrServerError, "render badge failed")
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// HandleRotate godoc
//
//	@Summary		Rotate Badge Secret
//	@Description	Invalidates every previously rendered badge.
//	@Tags			Badge
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	clocksdk.APIError
//	@Router			/v1/badge/rotate [post].
func (h *BadgeHandler) HandleRotate(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromContext(r.Context())
	if err := h.BadgeService.Rotate(r.Context(), userID); err != nil {
		writeServiceError(w, r, err, clocksdk.ErrServerError, "rotate badge failed")
		return
	}

	slogx.FromContext(r.Context()).Info("badge secret rotated", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}
