package timeclock_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/stretchr/testify/require"
)

// runWorkday exercises one employee's day against baseURL.
func runWorkday(t *testing.T, baseURL string) {
	t.Helper()
	ctx := t.Context()
	client := clocksdk.NewClient(baseURL)

	session := registerAndLogin(t, client, "Jane Doe", "jane@example.com")

	_, err := client.Register(ctx, clocksdk.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: testPassword})
	require.ErrorIs(t, err, clocksdk.ErrEmailTaken)

	hours := 38
	profile, err := session.UpdateProfile(ctx, clocksdk.UpdateProfileRequest{WeeklyHours: &hours})
	require.NoError(t, err)
	require.Equal(t, 38, profile.WeeklyHours)

	in, err := session.Scan(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "in", in.Action)

	status, err := session.Status(ctx)
	require.NoError(t, err)
	require.True(t, status.Working)
	require.Equal(t, "out", status.NextAction)

	out, err := session.Scan(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "out", out.Action)
	require.Equal(t, in.Record.ID, out.Record.ID)

	records, err := session.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records.Records, 1)

	summary, err := session.WeeklySummary(ctx)
	require.NoError(t, err)
	require.Equal(t, 38*60, summary.ContractedMinutes)
	require.Equal(t, 0, summary.OvertimeMinutes)

	sydney, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)
	require.Equal(t, time.Monday, summary.WeekStart.In(sydney).Weekday())

	report, err := session.Report(ctx, "month", "")
	require.NoError(t, err)
	require.Equal(t, "Jane_Doe_month_Report.pdf", report.FileName)
	require.True(t, bytes.HasPrefix(report.Content, []byte("%PDF")))

	png, err := session.Badge(ctx, 200)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	tokens := session.Tokens()
	require.NoError(t, session.Revoke(ctx))
	_, err = client.RefreshGrant(ctx, tokens.RefreshToken)
	require.ErrorIs(t, err, clocksdk.ErrInvalidRefreshToken)
}

// TestWorkdaySQLite runs the full check-in/out flow on the embedded store.
func TestWorkdaySQLite(t *testing.T) {
	runWorkday(t, setupTimeclockContainer(t))
}

// TestWorkdayPostgres runs the same flow with Postgres as the store.
func TestWorkdayPostgres(t *testing.T) {
	runWorkday(t, setupTimeclockWithPostgres(t))
}

// TestDeleteAccount verifies deletion removes the profile and its records.
func TestDeleteAccount(t *testing.T) {
	baseURL := setupTimeclockContainer(t)
	client := clocksdk.NewClient(baseURL)
	ctx := t.Context()

	session := registerAndLogin(t, client, "Temp", "temp@example.com")
	_, err := session.Scan(ctx, "")
	require.NoError(t, err)

	require.NoError(t, session.DeleteAccount(ctx))

	_, err = client.Login(ctx, "temp@example.com", testPassword)
	require.ErrorIs(t, err, clocksdk.ErrInvalidCredentials)

	// The email is free again.
	registerAndLogin(t, client, "Temp", "temp@example.com")
}
