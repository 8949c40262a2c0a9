package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/store"
	"github.com/aussiebroadwan/timeclock/pkg/httpx"
	"github.com/aussiebroadwan/timeclock/pkg/idx"
	"github.com/aussiebroadwan/timeclock/pkg/slogx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/prometheus/client_golang/prometheus"
)

// Badge one-time codes use the standard 30 second TOTP step and accept one
// step of drift either side.
const (
	BadgePeriod = 30
	BadgeSkew   = 1
)

// EventPublisher receives a ClockEvent after every committed toggle.
type EventPublisher interface {
	Publish(ev domain.ClockEvent)
}

// ClockMetrics counts toggles by action and source.
type ClockMetrics struct {
	toggles *prometheus.CounterVec
}

func NewClockMetrics(reg prometheus.Registerer) *ClockMetrics {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timeclock",
		Name:      "clock_toggles_total",
		Help:      "Number of check-ins and check-outs",
	}, []string{"action", "source"})
	return &ClockMetrics{toggles: httpx.RegisterOrExisting(reg, c)}
}

func (m *ClockMetrics) observe(action domain.ClockAction, source domain.ClockSource) {
	if m == nil {
		return
	}
	m.toggles.WithLabelValues(string(action), string(source)).Inc()
}

// ToggleResult is the outcome of one scan.
type ToggleResult struct {
	Action  domain.ClockAction
	Record  domain.TimeRecord
	Name    string // display name of the record owner
	Message string
}

// Status is the check-in state of one user.
type Status struct {
	Working      bool
	Open         *domain.TimeRecord
	LastCheckOut *time.Time
	NextAction   domain.ClockAction
}

// ClockService flips a user between checked in and checked out.
type ClockService struct {
	Store    store.Store
	Location *time.Location
	Events   EventPublisher
	Metrics  *ClockMetrics

	Clock func() time.Time
}

func (s *ClockService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *ClockService) loc() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// Toggle checks the user out when they have an open record and checks them
// in otherwise. Concurrent scans that race on the same state fail with
// ErrConcurrentScan.
func (s *ClockService) Toggle(ctx context.Context, userID string, source domain.ClockSource) (ToggleResult, error) {
	now := s.now().UTC()
	var res ToggleResult
	var user domain.User

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		user = u

		open, err := tx.Records().GetOpenRecord(ctx, userID)
		switch {
		case err == nil:
			// A clock that stepped back must not end a shift before it began.
			out := now
			if out.Before(open.CheckIn) {
				out = open.CheckIn
			}
			if err := tx.Records().CloseRecord(ctx, open.ID, out); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrConcurrentScan
				}
				return err
			}
			open.CheckOut = &out
			open.UpdatedAt = out
			res.Action = domain.ActionCheckOut
			res.Record = open
			return nil

		case errors.Is(err, store.ErrNotFound):
			rec := domain.TimeRecord{
				ID:        idx.NewAt(now).String(),
				UserID:    userID,
				CheckIn:   now,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Records().CreateRecord(ctx, rec); err != nil {
				if errors.Is(err, store.ErrAlreadyExists) {
					return ErrConcurrentScan
				}
				return err
			}
			res.Action = domain.ActionCheckIn
			res.Record = rec
			return nil

		default:
			return err
		}
	})
	if err != nil {
		return ToggleResult{}, err
	}

	res.Name = user.Name
	res.Message = toggleMessage(res.Action, now.In(s.loc()))

	slogx.FromContext(ctx).Info("clock toggled",
		slog.String("user_id", userID),
		slog.String("action", string(res.Action)),
		slog.String("source", string(source)),
		slog.String("record_id", res.Record.ID),
	)
	s.Metrics.observe(res.Action, source)
	if s.Events != nil {
		s.Events.Publish(domain.ClockEvent{
			UserID:   userID,
			Name:     user.Name,
			Action:   res.Action,
			Source:   source,
			RecordID: res.Record.ID,
			At:       now,
			Message:  res.Message,
		})
	}
	return res, nil
}

func toggleMessage(action domain.ClockAction, at time.Time) string {
	verb := "Checked In"
	if action == domain.ActionCheckOut {
		verb = "Checked Out"
	}
	return fmt.Sprintf("%s at %s", verb, at.Format("15:04"))
}

// Scan is the in-app scan. code is the decoded QR content, if any; a badge
// code must belong to the caller.
func (s *ClockService) Scan(ctx context.Context, userID, code string) (ToggleResult, error) {
	code = strings.TrimSpace(code)
	if code != "" {
		var p domain.BadgePayload
		if err := json.Unmarshal([]byte(code), &p); err == nil && p.UID != "" && p.UID != userID {
			return ToggleResult{}, ErrInvalidBadge
		}
	}
	return s.Toggle(ctx, userID, domain.SourceApp)
}

// Status reports whether the user is on shift and when they last left.
func (s *ClockService) Status(ctx context.Context, userID string) (Status, error) {
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		return Status{}, err
	}

	var st Status
	open, err := s.Store.Records().GetOpenRecord(ctx, userID)
	switch {
	case err == nil:
		st.Working = true
		st.Open = &open
	case !errors.Is(err, store.ErrNotFound):
		return Status{}, err
	}

	done, err := s.Store.Records().GetLastCompletedRecord(ctx, userID)
	switch {
	case err == nil:
		st.LastCheckOut = done.CheckOut
	case !errors.Is(err, store.ErrNotFound):
		return Status{}, err
	}

	st.NextAction = domain.NextAction(st.Working)
	return st, nil
}

// List returns every record of the user, oldest check-in first.
func (s *ClockService) List(ctx context.Context, userID string) ([]domain.TimeRecord, error) {
	return s.Store.Records().ListRecords(ctx, userID)
}

// KioskScan validates a badge presented at a shared kiosk and toggles its
// owner. The badge action is advisory; stored state wins.
func (s *ClockService) KioskScan(ctx context.Context, p domain.BadgePayload) (ToggleResult, error) {
	l := slogx.FromContext(ctx)
	if p.UID == "" || p.OTP == "" {
		return ToggleResult{}, ErrInvalidBadge
	}

	u, err := s.Store.Users().GetUserByID(ctx, p.UID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ToggleResult{}, ErrInvalidBadge
		}
		return ToggleResult{}, err
	}

	ok, err := totp.ValidateCustom(p.OTP, u.BadgeSecret, s.now(), totp.ValidateOpts{
		Period:    BadgePeriod,
		Skew:      BadgeSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil || !ok {
		l.Info("kiosk badge rejected", slog.String("user_id", p.UID))
		return ToggleResult{}, ErrInvalidBadge
	}

	res, err := s.Toggle(ctx, u.ID, domain.SourceKiosk)
	if err != nil {
		return ToggleResult{}, err
	}
	if p.Action != "" && p.Action != res.Action {
		l.Warn("stale badge",
			slog.String("user_id", u.ID),
			slog.String("badge_action", string(p.Action)),
			slog.String("performed", string(res.Action)),
		)
	}
	return res, nil
}
