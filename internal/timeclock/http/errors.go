package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/service"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/store"
	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/aussiebroadwan/timeclock/pkg/slogx"
)

// writeServiceError maps service and store sentinels to API errors. Anything
// unrecognised is logged with msg and answered with fallback.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback *clocksdk.APIError, msg string) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		clocksdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrInvalidRefresh):
		clocksdk.ErrInvalidRefreshToken.WriteError(w)
	case errors.Is(err, service.ErrEmailTaken):
		clocksdk.ErrEmailTaken.WriteError(w)
	case errors.Is(err, service.ErrInvalidProfile):
		clocksdk.ErrInvalidProfile.WriteError(w)
	case errors.Is(err, service.ErrWeakPassword):
		clocksdk.ErrWeakPassword.WriteError(w)
	case errors.Is(err, service.ErrPasswordMismatch):
		clocksdk.ErrPasswordMismatch.WriteError(w)
	case errors.Is(err, service.ErrInvalidResetToken):
		clocksdk.ErrInvalidResetToken.WriteError(w)
	case errors.Is(err, service.ErrInvalidReport):
		clocksdk.ErrInvalidReport.WriteError(w)
	case errors.Is(err, service.ErrInvalidBadge):
		clocksdk.ErrInvalidBadge.WriteError(w)
	case errors.Is(err, service.ErrConcurrentScan):
		clocksdk.ErrConcurrentScan.WriteError(w)
	case errors.Is(err, store.ErrNotFound):
		clocksdk.ErrNotFound.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error(msg, "err", err)
		fallback.WriteError(w)
	}
}
