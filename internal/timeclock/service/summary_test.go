package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
	"github.com/aussiebroadwan/timeclock/pkg/idx"
	"github.com/stretchr/testify/require"
)

func addRecord(t *testing.T, svc *SummaryService, userID string, in time.Time, dur time.Duration) {
	t.Helper()
	rec := domain.TimeRecord{ID: idx.NewAt(in).String(), UserID: userID, CheckIn: in, CreatedAt: in, UpdatedAt: in}
	if dur > 0 {
		out := in.Add(dur)
		rec.CheckOut = &out
	}
	require.NoError(t, svc.Store.Records().CreateRecord(context.Background(), rec))
}

func TestWeeklySummary(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := registerUser(t, st, "jane@example.com")

	wednesday := time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC)
	svc := &SummaryService{Store: st, Location: time.UTC, Clock: fixedClock(wednesday)}

	addRecord(t, svc, u.ID, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), 8*time.Hour)  // last week
	addRecord(t, svc, u.ID, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), 10*time.Hour) // monday
	addRecord(t, svc, u.ID, time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC), 12*time.Hour) // tuesday
	addRecord(t, svc, u.ID, time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC), 0)            // open today

	sum, err := svc.Weekly(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC).Equal(sum.WeekStart))
	require.Equal(t, 22*60, sum.WeeklyMinutes)
	require.Equal(t, "22h 0m", sum.Weekly)
	require.Equal(t, 40*60, sum.ContractedMinutes)
	require.Equal(t, 0, sum.OvertimeMinutes)
	require.Equal(t, "0h 0m", sum.Overtime)
	require.InDelta(t, 55.0, sum.ProgressPercent, 0.001)
	require.True(t, sum.Working)
	require.NotNil(t, sum.Current)
}

func TestWeeklySummaryOvertime(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := registerUser(t, st, "jane@example.com")

	hours := 20
	_, err := newAccounts(t, st).UpdateProfile(ctx, u.ID, domain.ProfileUpdate{WeeklyHours: &hours})
	require.NoError(t, err)

	friday := time.Date(2024, 3, 8, 18, 0, 0, 0, time.UTC)
	svc := &SummaryService{Store: st, Clock: fixedClock(friday)}
	for d := range 3 {
		addRecord(t, svc, u.ID, time.Date(2024, 3, 4+d, 9, 0, 0, 0, time.UTC), 7*time.Hour+25*time.Minute)
	}

	sum, err := svc.Weekly(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 3*445, sum.WeeklyMinutes)
	require.Equal(t, 3*445-20*60, sum.OvertimeMinutes)
	require.Equal(t, "2h 15m", sum.Overtime)
	require.InDelta(t, 100.0, sum.ProgressPercent, 0.001)
	require.False(t, sum.Working)
	require.Nil(t, sum.Current)
}
