package domain

import (
	"time"

	"github.com/aussiebroadwan/timeclock/pkg/timecalc"
)

// TimeRecord is one work session. CheckOut is nil while the shift is open.
type TimeRecord struct {
	ID        string
	UserID    string
	CheckIn   time.Time
	CheckOut  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r TimeRecord) Open() bool { return r.CheckOut == nil }

// DurationMinutes is zero for open records.
func (r TimeRecord) DurationMinutes() int {
	return timecalc.DurationMinutes(r.CheckIn, r.CheckOut)
}

func (r TimeRecord) Span() timecalc.Span {
	return timecalc.Span{In: r.CheckIn, Out: r.CheckOut}
}

// Spans projects records for the timecalc helpers.
func Spans(records []TimeRecord) []timecalc.Span {
	out := make([]timecalc.Span, len(records))
	for i, r := range records {
		out[i] = r.Span()
	}
	return out
}
