package domain

import "time"

// User is a profile that owns time records.
type User struct {
	ID           string
	Email        string // unique, lowercase
	Name         string
	PasswordHash string // argon2id PHC string
	WeeklyHours  int    // contracted hours, 1-168
	BadgeSecret  string // TOTP secret (base32) embedded in the personal QR badge
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileUpdate carries optional settings changes. Nil fields are left as is.
type ProfileUpdate struct {
	Name        *string
	WeeklyHours *int
}
