package clocksdk

import (
	"time"

	"github.com/aussiebroadwan/timeclock/pkg/jwtx"
)

// ============================================================================
// Token Types
// ============================================================================

// TokenResponse is returned from POST /v1/oauth2/token for both the password
// and refresh_token grants.
type TokenResponse struct {
	// AccessToken is the JWT access token used to authenticate API requests
	AccessToken string `json:"access_token"`

	// RefreshToken is the opaque refresh token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in"`

	// Scope is the space-delimited list of scopes granted to this token
	Scope string `json:"scope,omitempty"`
}

// ============================================================================
// Account Types
// ============================================================================

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileResponse is the signed-in user's profile.
type ProfileResponse struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	WeeklyHours int       `json:"weekly_hours"`
	CreatedAt   time.Time `json:"created_at"`
}

// UpdateProfileRequest changes settings. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name        *string `json:"name,omitempty"`
	WeeklyHours *int    `json:"weekly_hours,omitempty"`
}

// ForgotPasswordRequest asks for a reset link to be sent to email.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest completes a reset with the token from the link.
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ============================================================================
// Clock Types
// ============================================================================

// ScanRequest toggles the caller's shift. Code is the decoded QR text when
// the scan came from a camera; it may be empty.
type ScanRequest struct {
	Code string `json:"code,omitempty"`
}

// RecordResponse is one work session. CheckOut is nil while the shift is open.
type RecordResponse struct {
	ID              string     `json:"id"`
	CheckIn         time.Time  `json:"check_in"`
	CheckOut        *time.Time `json:"check_out,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	Duration        string     `json:"duration"` // "Xh Ym"
}

// ScanResponse is the result of a toggle.
type ScanResponse struct {
	Action  string         `json:"action"` // "in" or "out"
	Message string         `json:"message"`
	Record  RecordResponse `json:"record"`
}

// StatusResponse is the status card: whether a shift is open, when it
// started and when the last one ended.
type StatusResponse struct {
	Working      bool            `json:"working"`
	Current      *RecordResponse `json:"current,omitempty"`
	LastCheckOut *time.Time      `json:"last_check_out,omitempty"`
	NextAction   string          `json:"next_action"`
}

// ListRecordsResponse lists every record, oldest first.
type ListRecordsResponse struct {
	Records      []RecordResponse `json:"records"`
	TotalMinutes int              `json:"total_minutes"`
	Total        string           `json:"total"`
}

// WeeklySummaryResponse is the dashboard view of the current week.
type WeeklySummaryResponse struct {
	WeekStart         time.Time       `json:"week_start"`
	WeeklyMinutes     int             `json:"weekly_minutes"`
	ContractedMinutes int             `json:"contracted_minutes"`
	OvertimeMinutes   int             `json:"overtime_minutes"`
	Weekly            string          `json:"weekly"`
	Contracted        string          `json:"contracted"`
	Overtime          string          `json:"overtime"`
	ProgressPercent   float64         `json:"progress_percent"`
	Working           bool            `json:"working"`
	Current           *RecordResponse `json:"current,omitempty"`
}

// Report is a downloaded PDF.
type Report struct {
	FileName string
	Content  []byte
}

// ============================================================================
// Kiosk Types
// ============================================================================

// BadgePayload is the JSON encoded in a personal QR badge. A kiosk decodes
// the QR code and posts the payload unchanged.
type BadgePayload struct {
	UID    string `json:"uid"`
	Action string `json:"action"`
	TS     int64  `json:"ts"`
	OTP    string `json:"otp"`
}

// KioskScanResponse is returned to the kiosk after a badge scan.
type KioskScanResponse struct {
	UserID  string         `json:"user_id"`
	Name    string         `json:"name"`
	Action  string         `json:"action"`
	Message string         `json:"message"`
	Record  RecordResponse `json:"record"`
}

// ClockEvent is one message on the kiosk websocket stream.
type ClockEvent struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Action   string    `json:"action"`
	Source   string    `json:"source"`
	RecordID string    `json:"record_id"`
	At       time.Time `json:"at"`
	Message  string    `json:"message"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// JWKSResponse contains the public keys used to verify access tokens.
type JWKSResponse jwtx.JWKS
