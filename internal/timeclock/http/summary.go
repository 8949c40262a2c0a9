package http

import (
	"net/http"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/service"
	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/aussiebroadwan/timeclock/pkg/httpx"
)

// SummaryHandler serves GET /v1/summary/weekly.
type SummaryHandler struct {
	SummaryService *service.SummaryService
}

// ServeHTTP godoc
//
//	@Summary		Weekly Summary
//	@Description	Hours worked since Monday 00:00 against the contracted hours, with overtime and progress.
//	@Tags			Clock
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	clocksdk.WeeklySummaryResponse
//	@Failure		401	{object}	clocksdk.APIError
//	@Router			/v1/summary/weekly [get].
func (h *SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sum, err := h.SummaryService.Weekly(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, clocksdk.ErrLoadingRecords, "weekly summary failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clocksdk.WeeklySummaryResponse{
		WeekStart:         sum.WeekStart,
		WeeklyMinutes:     sum.WeeklyMinutes,
		ContractedMinutes: sum.ContractedMinutes,
		OvertimeMinutes:   sum.OvertimeMinutes,
		Weekly:            sum.Weekly,
		Contracted:        sum.Contracted,
		Overtime:          sum.Overtime,
		ProgressPercent:   sum.ProgressPercent,
		Working:           sum.Working,
		Current:           toRecordResponsePtr(sum.Current),
	})
}
