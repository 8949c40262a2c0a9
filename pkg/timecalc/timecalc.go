// Package timecalc holds the arithmetic behind weekly hours, overtime and
// report totals. Every function is pure; callers pass "now" and the zone
// the week is anchored in.
package timecalc

import (
	"fmt"
	"time"
)

const (
	DefaultWeeklyHours = 40
	MinWeeklyHours     = 1
	MaxWeeklyHours     = 168
)

// Span is one work session. Out is nil while the session is open.
type Span struct {
	In  time.Time
	Out *time.Time
}

// Completed reports whether both ends of the span are set.
func (s Span) Completed() bool {
	return !s.In.IsZero() && s.Out != nil && !s.Out.IsZero()
}

// WeekStart returns Monday 00:00 of the week containing now, in loc.
// Sunday belongs to the week that started six days earlier.
func WeekStart(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	sinceMonday := (int(local.Weekday()) + 6) % 7
	y, m, d := local.Date()
	return time.Date(y, m, d-sinceMonday, 0, 0, 0, 0, loc)
}

// DurationMinutes is the whole minutes between in and out, floored. It is
// zero when either end is missing or out precedes in.
func DurationMinutes(in time.Time, out *time.Time) int {
	if in.IsZero() || out == nil || out.IsZero() {
		return 0
	}
	d := out.Sub(in)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

// WeeklyMinutes sums completed spans that started on or after the current
// week start. Open spans contribute nothing.
func WeeklyMinutes(spans []Span, now time.Time, loc *time.Location) int {
	start := WeekStart(now, loc)
	total := 0
	for _, s := range spans {
		if !s.Completed() || s.In.Before(start) {
			continue
		}
		total += DurationMinutes(s.In, s.Out)
	}
	return total
}

// TotalMinutes sums every completed span.
func TotalMinutes(spans []Span) int {
	total := 0
	for _, s := range spans {
		total += DurationMinutes(s.In, s.Out)
	}
	return total
}

// ContractedMinutes converts weekly contracted hours to minutes.
func ContractedMinutes(hours int) int {
	return hours * 60
}

// OvertimeMinutes is the time worked beyond the contract, never negative.
func OvertimeMinutes(weekly, contractedHours int) int {
	return max(0, weekly-ContractedMinutes(contractedHours))
}

// ProgressPercent is weekly progress towards the contract, capped at 100.
func ProgressPercent(weekly, contractedHours int) float64 {
	contracted := ContractedMinutes(contractedHours)
	if contracted <= 0 {
		return 0
	}
	return min(100, float64(weekly)/float64(contracted)*100)
}

// FormatDuration renders minutes as "Xh Ym".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// ValidWeeklyHours reports whether h is an acceptable contract.
func ValidWeeklyHours(h int) bool {
	return h >= MinWeeklyHours && h <= MaxWeeklyHours
}

// InMonth reports whether t falls in the calendar month (year, month) in loc.
func InMonth(t time.Time, year int, month time.Month, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	y, m, _ := t.In(loc).Date()
	return y == year && m == month
}

// ParseMonth parses a "YYYY-MM" selector.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("timecalc: invalid month %q", s)
	}
	return t.Year(), t.Month(), nil
}
