package domain

import "time"

// ClockAction is the direction of a toggle.
type ClockAction string

const (
	ActionCheckIn  ClockAction = "in"
	ActionCheckOut ClockAction = "out"
)

// NextAction is the action a scan would perform given whether a shift is open.
func NextAction(working bool) ClockAction {
	if working {
		return ActionCheckOut
	}
	return ActionCheckIn
}

// ClockSource records where a toggle came from.
type ClockSource string

const (
	SourceApp   ClockSource = "app"
	SourceKiosk ClockSource = "kiosk"
)

// ClockEvent is published to kiosk subscribers after every toggle.
type ClockEvent struct {
	UserID   string      `json:"user_id"`
	Name     string      `json:"name"`
	Action   ClockAction `json:"action"`
	Source   ClockSource `json:"source"`
	RecordID string      `json:"record_id"`
	At       time.Time   `json:"at"`
	Message  string      `json:"message"`
}

// BadgePayload is the JSON encoded in a personal QR badge.
type BadgePayload struct {
	UID    string      `json:"uid"`
	Action ClockAction `json:"action"`
	TS     int64       `json:"ts"` // unix millis when the badge was rendered
	OTP    string      `json:"otp"`
}
