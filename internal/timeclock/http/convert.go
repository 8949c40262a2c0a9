package http

import (
	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/aussiebroadwan/timeclock/pkg/timecalc"
)

func toProfileResponse(u domain.User) clocksdk.ProfileResponse {
	return clocksdk.ProfileResponse{
		UserID:      u.ID,
		Email:       u.Email,
		Name:        u.Name,
		WeeklyHours: u.WeeklyHours,
		CreatedAt:   u.CreatedAt,
	}
}

func toRecordResponse(r domain.TimeRecord) clocksdk.RecordResponse {
	minutes := r.DurationMinutes()
	return clocksdk.RecordResponse{
		ID:              r.ID,
		CheckIn:         r.CheckIn,
		CheckOut:        r.CheckOut,
		DurationMinutes: minutes,
		Duration:        timecalc.FormatDuration(minutes),
	}
}

func toRecordResponsePtr(r *domain.TimeRecord) *clocksdk.RecordResponse {
	if r == nil {
		return nil
	}
	out := toRecordResponse(*r)
	return &out
}

func toTokenResponse(p *domain.TokenPair) clocksdk.TokenResponse {
	return clocksdk.TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
		ExpiresIn:    int(p.ExpiresIn),
		Scope:        p.Scope,
	}
}
