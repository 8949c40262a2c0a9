package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/store"
	"github.com/aussiebroadwan/timeclock/pkg/timecalc"
)

// WeeklySummary is the dashboard view of the current week.
type WeeklySummary struct {
	WeekStart         time.Time
	WeeklyMinutes     int
	ContractedMinutes int
	OvertimeMinutes   int
	Weekly            string // "Xh Ym"
	Contracted        string
	Overtime          string
	ProgressPercent   float64
	Working           bool
	Current           *domain.TimeRecord
}

type SummaryService struct {
	Store    store.Store
	Location *time.Location

	Clock func() time.Time
}

func (s *SummaryService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// Weekly aggregates the completed records of the current Monday-based week.
func (s *SummaryService) Weekly(ctx context.Context, userID string) (WeeklySummary, error) {
	now := s.now()

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return WeeklySummary{}, err
	}

	start := timecalc.WeekStart(now, s.Location)
	records, err := s.Store.Records().ListRecordsSince(ctx, userID, start)
	if err != nil {
		return WeeklySummary{}, err
	}

	weekly := timecalc.WeeklyMinutes(domain.Spans(records), now, s.Location)
	contracted := timecalc.ContractedMinutes(u.WeeklyHours)
	overtime := timecalc.OvertimeMinutes(weekly, u.WeeklyHours)

	sum := WeeklySummary{
		WeekStart:         start,
		WeeklyMinutes:     weekly,
		ContractedMinutes: contracted,
		OvertimeMinutes:   overtime,
		Weekly:            timecalc.FormatDuration(weekly),
		Contracted:        timecalc.FormatDuration(contracted),
		Overtime:          timecalc.FormatDuration(overtime),
		ProgressPercent:   timecalc.ProgressPercent(weekly, u.WeeklyHours),
	}

	// A shift opened before Monday is still the current one.
	open, err := s.Store.Records().GetOpenRecord(ctx, userID)
	switch {
	case err == nil:
		sum.Working = true
		sum.Current = &open
	case !errors.Is(err, store.ErrNotFound):
		return WeeklySummary{}, err
	}
	return sum, nil
}
