package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/store"
	"github.com/aussiebroadwan/timeclock/pkg/idx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2024, 3, 4, 8, 30, 0, 0, time.UTC)

func TestToggleAlternates(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := registerUser(t, st, "jane@example.com")

	sydney, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)

	pub := &recordingPublisher{}
	reg := prometheus.NewRegistry()
	metrics := NewClockMetrics(reg)
	svc := &ClockService{
		Store:    st,
		Location: sydney,
		Events:   pub,
		Metrics:  metrics,
		Clock:    stepClock(monday, 4*time.Hour),
	}

	in, err := svc.Toggle(ctx, u.ID, domain.SourceApp)
	require.NoError(t, err)
	require.Equal(t, domain.ActionCheckIn, in.Action)
	require.True(t, in.Record.Open())
	require.Equal(t, "Checked In at 19:30", in.Message) // 08:30 UTC is 19:30 AEDT

	out, err := svc.Toggle(ctx, u.ID, domain.SourceApp)
	require.NoError(t, err)
	require.Equal(t, domain.ActionCheckOut, out.Action)
	require.Equal(t, in.Record.ID, out.Record.ID)
	require.Equal(t, 240, out.Record.DurationMinutes())
	require.Equal(t, "Checked Out at 23:30", out.Message)

	again, err := svc.Toggle(ctx, u.ID, domain.SourceKiosk)
	require.NoError(t, err)
	require.Equal(t, domain.ActionCheckIn, again.Action)
	require.NotEqual(t, in.Record.ID, again.Record.ID)

	records, err := svc.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.False(t, records[0].Open())
	require.True(t, records[1].Open())

	require.Len(t, pub.events, 3)
	require.Equal(t, "Jane Doe", pub.events[0].Name)
	require.Equal(t, domain.SourceKiosk, pub.events[2].Source)

	require.InDelta(t, 1, testutil.ToFloat64(metrics.toggles.WithLabelValues("in", "app")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(metrics.toggles.WithLabelValues("out", "app")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(metrics.toggles.WithLabelValues("in", "kiosk")), 0)
}

func TestToggleUnknownUser(t *testing.T) {
	svc := &ClockService{Store: newTestStore(t)}
	_, err := svc.Toggle(context.Background(), "ghost", domain.SourceApp)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestToggleClosesOpenShiftBehindNewerRecord(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := registerUser(t, st, "jane@example.com")

	closedIn := monday.Add(-time.Hour)
	closedOut := monday.Add(-30 * time.Minute)
	require.NoError(t, st.Records().CreateRecord(ctx, domain.TimeRecord{
		ID:        idx.NewAt(closedIn).String(),
		UserID:    u.ID,
		CheckIn:   closedIn,
		CheckOut:  &closedOut,
		CreatedAt: closedIn,
		UpdatedAt: closedOut,
	}))
	openIn := monday.Add(-2 * time.Hour)
	openID := idx.NewAt(openIn).String()
	require.NoError(t, st.Records().CreateRecord(ctx, domain.TimeRecord{
		ID:        openID,
		UserID:    u.ID,
		CheckIn:   openIn,
		CreatedAt: openIn,
		UpdatedAt: openIn,
	}))

	svc := &ClockService{Store: st, Clock: fixedClock(monday)}

	s, err := svc.Status(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, s.Working)
	require.Equal(t, openID, s.Open.ID)

	res, err := svc.Toggle(ctx, u.ID, domain.SourceApp)
	require.NoError(t, err)
	require.Equal(t, domain.ActionCheckOut, res.Action)
	require.Equal(t, openID, res.Record.ID)
	require.Equal(t, 120, res.Record.DurationMinutes())
}

func TestToggleSurvivesClockSteppingBack(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := registerUser(t, st, "jane@example.com")
	svc := &ClockService{Store: st, Clock: seqClock(
		monday,
		monday.Add(10*time.Second),
		monday.Add(-5*time.Second),
		monday.Add(8*time.Hour),
		monday.Add(9*time.Hour),
	)}

	want := []domain.ClockAction{
		domain.ActionCheckIn,
		domain.ActionCheckOut,
		domain.ActionCheckIn,
		domain.ActionCheckOut,
		domain.ActionCheckIn,
	}
	for i, action := range want {
		res, err := svc.Toggle(ctx, u.ID, domain.SourceApp)
		require.NoError(t, err, "toggle %d", i)
		require.Equal(t, action, res.Action, "toggle %d", i)
	}

	s, err := svc.Status(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, s.Working)
	require.True(t, monday.Add(9*time.Hour).Equal(s.Open.CheckIn))
}

func TestToggleClampsCheckOutToCheckIn(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := registerUser(t, st, "jane@example.com")
	svc := &ClockService{Store: st, Clock: seqClock(monday, monday.Add(-time.Second))}

	in, err := svc.Toggle(ctx, u.ID, domain.SourceApp)
	require.NoError(t, err)

	out, err := svc.Toggle(ctx, u.ID, domain.SourceApp)
	require.NoError(t, err)
	require.Equal(t, domain.ActionCheckOut, out.Action)
	require.Equal(t, in.Record.ID, out.Record.ID)
	require.True(t, monday.Equal(*out.Record.CheckOut))
	require.Equal(t, 0, out.Record.DurationMinutes())

	records, err := svc.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.False(t, records[0].Open())
}

func TestToggleConcurrent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := registerUser(t, st, "jane@example.com")
	svc := &ClockService{Store: st, Clock: stepClock(monday, time.Minute)}

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Toggle(ctx, u.ID, domain.SourceApp)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			require.ErrorIs(t, err, ErrConcurrentScan)
		}
	}

	records, err := svc.List(ctx, u.ID)
	require.NoError(t, err)
	open := 0
	for _, r := range records {
		if r.Open() {
			open++
		}
	}
	require.LessOrEqual(t, open, 1)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := registerUser(t, st, "jane@example.com")
	svc := &ClockService{Store: st, Clock: stepClock(monday, time.Hour)}

	s, err := svc.Status(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, s.Working)
	require.Nil(t, s.LastCheckOut)
	require.Equal(t, domain.ActionCheckIn, s.NextAction)

	_, err = svc.Toggle(ctx, u.ID, domain.SourceApp) // in at 08:30
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, u.ID, domain.SourceApp) // out at 09:30
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, u.ID, domain.SourceApp) // in at 10:30
	require.NoError(t, err)

	s, err = svc.Status(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, s.Working)
	require.NotNil(t, s.Open)
	require.True(t, monday.Add(2*time.Hour).Equal(s.Open.CheckIn))
	require.NotNil(t, s.LastCheckOut)
	require.True(t, monday.Add(time.Hour).Equal(*s.LastCheckOut))
	require.Equal(t, domain.ActionCheckOut, s.NextAction)
}

func TestScanRejectsForeignBadge(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := registerUser(t, st, "jane@example.com")
	svc := &ClockService{Store: st}

	foreign, err := json.Marshal(domain.BadgePayload{UID: "someone-else", Action: domain.ActionCheckIn})
	require.NoError(t, err)
	_, err = svc.Scan(ctx, u.ID, string(foreign))
	require.ErrorIs(t, err, ErrInvalidBadge)

	res, err := svc.Scan(ctx, u.ID, "https://office.example.com/front-door")
	require.NoError(t, err)
	require.Equal(t, domain.ActionCheckIn, res.Action)
}

func TestKioskScan(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := registerUser(t, st, "jane@example.com")
	svc := &ClockService{Store: st, Clock: fixedClock(monday)}

	code := func(at time.Time) string {
		c, err := totp.GenerateCodeCustom(u.BadgeSecret, at, totp.ValidateOpts{
			Period: BadgePeriod, Digits: otp.DigitsSix, Algorithm: otp.AlgorithmSHA1,
		})
		require.NoError(t, err)
		return c
	}

	t.Run("valid badge toggles", func(t *testing.T) {
		res, err := svc.KioskScan(ctx, domain.BadgePayload{UID: u.ID, Action: domain.ActionCheckIn, OTP: code(monday)})
		require.NoError(t, err)
		require.Equal(t, domain.ActionCheckIn, res.Action)
	})

	t.Run("one step of drift is accepted", func(t *testing.T) {
		res, err := svc.KioskScan(ctx, domain.BadgePayload{UID: u.ID, OTP: code(monday.Add(-30 * time.Second))})
		require.NoError(t, err)
		require.Equal(t, domain.ActionCheckOut, res.Action)
	})

	t.Run("stale action still follows stored state", func(t *testing.T) {
		res, err := svc.KioskScan(ctx, domain.BadgePayload{UID: u.ID, Action: domain.ActionCheckOut, OTP: code(monday)})
		require.NoError(t, err)
		require.Equal(t, domain.ActionCheckIn, res.Action)
	})

	tests := []struct {
		name string
		p    domain.BadgePayload
	}{
		{"expired code", domain.BadgePayload{UID: u.ID, OTP: code(monday.Add(-5 * time.Minute))}},
		{"wrong code", domain.BadgePayload{UID: u.ID, OTP: "000000"}},
		{"unknown user", domain.BadgePayload{UID: "ghost", OTP: code(monday)}},
		{"missing otp", domain.BadgePayload{UID: u.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.KioskScan(ctx, tt.p)
			require.ErrorIs(t, err, ErrInvalidBadge)
		})
	}
}
