package http

import (
	"net/http"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/events"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/service"
	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/aussiebroadwan/timeclock/pkg/httpx"
	"github.com/aussiebroadwan/timeclock/pkg/slogx"
	"github.com/gorilla/websocket"
)

// KioskHandler serves shared check-in terminals. Both routes sit behind the
// kiosk token middleware.
type KioskHandler struct {
	ClockService *service.ClockService
	Hub          *events.Hub
	Upgrader     websocket.Upgrader
}

// HandleScan godoc
//
//	@Summary		Kiosk Scan
//	@Description	Validates a decoded badge and toggles its owner. The badge action is advisory; the stored state decides.
//	@Tags			Kiosk
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clocksdk.BadgePayload	true	"uid, action, ts, otp"
//	@Success		200		{object}	clocksdk.KioskScanResponse
//	@Failure		400		{object}	clocksdk.APIError	"Invalid or expired badge"
//	@Failure		401		"invalid kiosk token"
//	@Router			/v1/kiosk/scan [post].
func (h *KioskHandler) HandleScan(w http.ResponseWriter, r *http.Request) {
	var req clocksdk.BadgePayload
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		clocksdk.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.ClockService.KioskScan(r.Context(), domain.BadgePayload{
		UID:    req.UID,
		Action: domain.ClockAction(req.Action),
		TS:     req.TS,
		OTP:    req.OTP,
	})
	if err != nil {
		writeServiceError(w, r, err, clocksdk.ErrSavingRecord, "kiosk scan failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clocksdk.KioskScanResponse{
		UserID:  res.Record.UserID,
		Name:    res.Name,
		Action:  string(res.Action),
		Message: res.Message,
		Record:  toRecordResponse(res.Record),
	})
}

// HandleEvents godoc
//
//	@Summary		Kiosk Event Stream
//	@Description	Websocket stream of every check-in and check-out as clocksdk.ClockEvent JSON text frames.
//	@Description	Browsers pass the kiosk token as ?token= since they cannot set headers on websockets.
//	@Tags			Kiosk
//	@Param			token	query	string	false	"Kiosk token"
//	@Success		101
//	@Failure		401	"invalid kiosk token"
//	@Router			/v1/kiosk/events [get].
func (h *KioskHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		log.Warn("kiosk websocket upgrade failed", "err", err)
		return
	}

	client := events.NewClient(conn, log)
	h.Hub.Register(client)
	defer h.Hub.Unregister(client)

	log.Info("kiosk subscribed", "subscribers", h.Hub.Subscribers())
	client.Serve()
}
