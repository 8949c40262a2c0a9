package clocksdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/timeclock/pkg/httpx"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeInvalidGrant      = "invalid_grant"
	ErrorCodeInvalidToken      = "invalid_token"
	ErrorCodeInsufficientScope = "insufficient_scope"
	ErrorCodeUnsupportedGrant  = "unsupported_grant_type"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeConflict          = "conflict"
	ErrorCodeRateLimited       = "rate_limit_exceeded"
	ErrorCodeServerError       = "server_error"
)

// ============================================================================
// APIError
// ============================================================================

// APIError is the JSON error body returned by every timeclock endpoint. The
// server writes it with WriteError and the client SDK parses failed responses
// back into it, so callers can use errors.As on any SDK error.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is a machine readable error code (e.g. "invalid_request")
	Code string `json:"error"`

	// Description is a human readable message suitable for end users
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// Is reports whether target is an APIError with the same status, code and
// description, so errors.Is(err, clocksdk.ErrNotFound) works for parsed errors.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code && e.Description == t.Description
}

// NewAPIError creates an APIError with a custom description.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	// ErrInvalidRequest is returned when the request body or parameters are malformed.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidContentType is returned when a form endpoint receives another content type.
	ErrInvalidContentType = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "content-type must be application/x-www-form-urlencoded",
	}

	// ErrInvalidCredentials is returned when the email or password is wrong.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidGrant,
		Description: "Invalid email or password",
	}

	// ErrInvalidRefreshToken is returned when a refresh token is unknown, expired or revoked.
	ErrInvalidRefreshToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidGrant,
		Description: "Your session has expired, please sign in again",
	}

	// ErrUnsupportedGrantType is returned for grant types other than password and refresh_token.
	ErrUnsupportedGrantType = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeUnsupportedGrant,
		Description: "grant type not supported",
	}

	// ErrInvalidToken is returned when the access token is missing, invalid or expired.
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the access token is missing, invalid or expired",
	}

	// ErrInsufficientScope is returned when the access token lacks a required scope.
	ErrInsufficientScope = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeInsufficientScope,
		Description: "the access token does not have the required scopes",
	}

	// ErrEmailTaken is returned when registering with an email that already has an account.
	ErrEmailTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "An account with this email already exists",
	}

	// ErrInvalidProfile is returned for an empty name or weekly hours outside 1-168.
	ErrInvalidProfile = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "Name must not be empty and weekly hours must be between 1 and 168",
	}

	// ErrWeakPassword is returned when a password is shorter than the minimum length.
	ErrWeakPassword = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "Password must be at least 6 characters",
	}

	// ErrPasswordMismatch is returned when the new password and its confirmation differ.
	ErrPasswordMismatch = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "Passwords do not match",
	}

	// ErrInvalidResetToken is returned when a reset link is unknown, expired or already used.
	ErrInvalidResetToken = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidGrant,
		Description: "This reset link is invalid or has expired",
	}

	// ErrInvalidReport is returned for an unknown report kind or a malformed month.
	ErrInvalidReport = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "Report kind must be total or month and month must be YYYY-MM",
	}

	// ErrInvalidBadge is returned when a badge is expired, forged or cannot be rendered.
	ErrInvalidBadge = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "Invalid or expired badge",
	}

	// ErrConcurrentScan is returned when another device toggled the same user at the same time.
	ErrConcurrentScan = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "Another scan is already in progress, please try again",
	}

	// ErrNotFound is returned when the user no longer exists.
	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "not found",
	}

	// ErrSavingRecord is returned when a toggle could not be persisted.
	ErrSavingRecord = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "Error saving record",
	}

	// ErrLoadingRecords is returned when records could not be read.
	ErrLoadingRecords = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "Error loading records",
	}

	// ErrGeneratingReport is returned when the PDF could not be produced.
	ErrGeneratingReport = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "Error generating report",
	}

	// ErrServerError is returned for any other unexpected failure.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse turns a non-2xx response into an *APIError. Bearer
// failures carry no body, so the WWW-Authenticate header is consulted too.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	if challenge := resp.Header.Get("WWW-Authenticate"); challenge != "" {
		known := ErrInvalidToken
		if strings.Contains(challenge, ErrorCodeInsufficientScope) {
			known = ErrInsufficientScope
		}
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        known.Code,
			Description: known.Description,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
