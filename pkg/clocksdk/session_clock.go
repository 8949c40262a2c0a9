package clocksdk

import (
	"context"
	"mime"
	"net/http"
	"net/url"
	"strconv"
)

// Scan toggles the caller's shift: it checks in when no shift is open and
// checks out otherwise. code is the decoded QR text and may be empty.
// Requires: records:write scope
func (s *Session) Scan(ctx context.Context, code string) (*ScanResponse, error) {
	body, headers, err := jsonBody(ScanRequest{Code: code})
	if err != nil {
		return nil, err
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/clock/scan", body, headers, "records:write")
	if err != nil {
		return nil, err
	}

	var scan ScanResponse
	if err := decodeJSON(resp, &scan, http.StatusOK); err != nil {
		return nil, err
	}

	return &scan, nil
}

// Status returns whether a shift is open and when the last one ended.
// Requires: records:read scope
func (s *Session) Status(ctx context.Context) (*StatusResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/clock/status", nil, nil, "records:read")
	if err != nil {
		return nil, err
	}

	var status StatusResponse
	if err := decodeJSON(resp, &status, http.StatusOK); err != nil {
		return nil, err
	}

	return &status, nil
}

// Records lists every record of the caller, oldest first.
// Requires: records:read scope
func (s *Session) Records(ctx context.Context) (*ListRecordsResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/records", nil, nil, "records:read")
	if err != nil {
		return nil, err
	}

	var list ListRecordsResponse
	if err := decodeJSON(resp, &list, http.StatusOK); err != nil {
		return nil, err
	}

	return &list, nil
}

// WeeklySummary returns hours worked this week against the contract.
// Requires: records:read scope
func (s *Session) WeeklySummary(ctx context.Context) (*WeeklySummaryResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/summary/weekly", nil, nil, "records:read")
	if err != nil {
		return nil, err
	}

	var summary WeeklySummaryResponse
	if err := decodeJSON(resp, &summary, http.StatusOK); err != nil {
		return nil, err
	}

	return &summary, nil
}

// Report downloads a PDF report. kind is "total" or "month"; month is
// "YYYY-MM" and defaults to the current month on the server.
// Requires: reports:read scope
func (s *Session) Report(ctx context.Context, kind, month string) (*Report, error) {
	q := url.Values{}
	if kind != "" {
		q.Set("kind", kind)
	}
	if month != "" {
		q.Set("month", month)
	}
	path := "/v1/reports"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil, nil, "reports:read")
	if err != nil {
		return nil, err
	}

	fileName := "report.pdf"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		fileName = params["filename"]
	}

	content, err := readBody(resp, http.StatusOK)
	if err != nil {
		return nil, err
	}

	return &Report{FileName: fileName, Content: content}, nil
}

// Badge downloads the caller's personal QR badge as PNG. size is the edge
// length in pixels; 0 uses the server default.
// Requires: records:read scope
func (s *Session) Badge(ctx context.Context, size int) ([]byte, error) {
	path := "/v1/badge"
	if size > 0 {
		path += "?size=" + strconv.Itoa(size)
	}

	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil, nil, "records:read")
	if err != nil {
		return nil, err
	}

	return readBody(resp, http.StatusOK)
}

// RotateBadge replaces the badge secret so previously printed badges stop
// working at kiosks.
// Requires: records:write scope
func (s *Session) RotateBadge(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/badge/rotate", nil, nil, "records:write")
	if err != nil {
		return err
	}

	return checkStatus(resp, http.StatusNoContent)
}
