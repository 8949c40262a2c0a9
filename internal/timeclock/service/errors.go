package service

import "errors"

// MinPasswordLength is the shortest password accepted at registration and reset.
const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidProfile     = errors.New("invalid_profile")
	ErrInvalidReport      = errors.New("invalid_report")
	ErrInvalidBadge       = errors.New("invalid_badge")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrInvalidResetToken  = errors.New("invalid_reset_token")
	ErrPasswordMismatch   = errors.New("password_mismatch")
	ErrWeakPassword       = errors.New("weak_password")
	ErrConcurrentScan     = errors.New("concurrent_scan")
)
