package http

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/service"
	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/aussiebroadwan/timeclock/pkg/httpx"
)

// ReportHandler serves GET /v1/reports.
type ReportHandler struct {
	ReportService *service.ReportService
}

// ServeHTTP godoc
//
//	@Summary		Export Report
//	@Description	Renders the caller's completed records as a PDF. kind=total covers every record,
//	@Description	kind=month only records checked in during month (YYYY-MM, default current month).
//	@Tags			Reports
//	@Produce		application/pdf
//	@Security		BearerAuth
//	@Param			kind	query		string	false	"Report kind"	Enums(total, month)
//	@Param			month	query		string	false	"Month as YYYY-MM"
//	@Success		200		{file}		binary
//	@Failure		400		{object}	clocksdk.APIError
//	@Failure		500		{object}	clocksdk.APIError	"Error generating report"
//	@Router			/v1/reports [get].
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rep, err := h.ReportService.Generate(r.Context(), httpx.UserIDFromContext(r.Context()), q.Get("kind"), q.Get("month"))
	if err != nil {
		writeServiceError(w, r, err, clocksdk.ErrGeneratingReport, "generate report failed")
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": rep.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(rep.Content)))
	w.Header().Set("X-Report-Records", strconv.Itoa(rep.Records))
	w.Header().Set("X-Report-Total-Minutes", strconv.Itoa(rep.TotalMinutes))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rep.Content)
}
