package http

import (
	"net/http"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/service"
	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/aussiebroadwan/timeclock/pkg/httpx"
	"github.com/aussiebroadwan/timeclock/pkg/timecalc"
)

// ClockHandler serves the in-app scan and the record views.
type ClockHandler struct {
	ClockService *service.ClockService
}

// HandleScan godoc
//
//	@Summary		Scan
//	@Description	Checks the caller in when no shift is open, otherwise checks them out.
//	@Description	code is the decoded QR text; a badge belonging to someone else is rejected.
//	@Tags			Clock
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		clocksdk.ScanRequest	false	"code"
//	@Success		200		{object}	clocksdk.ScanResponse
//	@Failure		400		{object}	clocksdk.APIError
//	@Failure		409		{object}	clocksdk.APIError	"concurrent scan"
//	@Failure		500		{object}	clocksdk.APIError	"Error saving record"
//	@Router			/v1/clock/scan [post].
func (h *ClockHandler) HandleScan(w http.ResponseWriter, r *http.Request) {
	var req clocksdk.ScanRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		clocksdk.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.ClockService.Scan(r.Context(), httpx.UserIDFromContext(r.Context()), req.Code)
	if err != nil {
		writeServiceError(w, r, err, clocksdk.ErrSavingRecord, "scan failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clocksdk.ScanResponse{
		Action:  string(res.Action),
		Message: res.Message,
		Record:  toRecordResponse(res.Record),
	})
}

// HandleStatus godoc
//
//	@Summary		Status
//	@Description	Whether a shift is open, when it started and when the last one ended.
//	@Tags			Clock
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	clocksdk.StatusResponse
//	@Failure		401	{object}	clocksdk.APIError
//	@Router			/v1/clock/status [get].
func (h *ClockHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.ClockService.Status(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, clocksdk.ErrLoadingRecords, "status failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clocksdk.StatusResponse{
		Working:      st.Working,
		Current:      toRecordResponsePtr(st.Open),
		LastCheckOut: st.LastCheckOut,
		NextAction:   string(st.NextAction),
	})
}

// HandleRecords godoc
//
//	@Summary		List Records
//	@Description	Every record of the caller ordered by check-in, oldest first.
//	@Tags			Clock
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	clocksdk.ListRecordsResponse
//	@Failure		401	{object}	clocksdk.APIError
//	@Router			/v1/records [get].
func (h *ClockHandler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.ClockService.List(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, clocksdk.ErrLoadingRecords, "list records failed")
		return
	}

	resp := clocksdk.ListRecordsResponse{Records: make([]clocksdk.RecordResponse, 0, len(records))}
	for _, rec := range records {
		resp.Records = append(resp.Records, toRecordResponse(rec))
	}
	resp.TotalMinutes = timecalc.TotalMinutes(domain.Spans(records))
	resp.Total = timecalc.FormatDuration(resp.TotalMinutes)

	httpx.WriteJSON(w, http.StatusOK, resp)
}
