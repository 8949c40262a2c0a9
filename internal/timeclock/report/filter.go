// Package report turns time records into downloadable PDF work reports and
// optionally archives them in S3-compatible storage.
package report

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
	"github.com/aussiebroadwan/timeclock/pkg/timecalc"
)

// Kind selects which records a report covers.
type Kind string

const (
	KindTotal Kind = "total"
	KindMonth Kind = "month"
)

var ErrInvalidKind = errors.New("report: invalid kind")

var whitespace = regexp.MustCompile(`\s+`)

// ParseKind accepts "total" and "month"; empty means total.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindTotal:
		return KindTotal, nil
	case KindMonth:
		return KindMonth, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Filter keeps completed records and, for month reports, only those whose
// check-in falls inside month ("YYYY-MM") in loc.
func Filter(records []domain.TimeRecord, kind Kind, month string, loc *time.Location) ([]domain.TimeRecord, error) {
	var year int
	var mon time.Month
	if kind == KindMonth {
		var err error
		if year, mon, err = timecalc.ParseMonth(month); err != nil {
			return nil, err
		}
	}

	out := make([]domain.TimeRecord, 0, len(records))
	for _, r := range records {
		if r.Open() {
			continue
		}
		if kind == KindMonth && !timecalc.InMonth(r.CheckIn, year, mon, loc) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Title is the heading printed at the top of the report.
func Title(kind Kind, month, name string) string {
	if kind == KindMonth {
		return fmt.Sprintf("Monthly Work Report (%s) - %s", month, name)
	}
	return "Total Work Report - " + name
}

// FileName is the suggested download name, e.g. "Jane_Doe_total_Report.pdf".
func FileName(name string, kind Kind) string {
	return fmt.Sprintf("%s_%s_Report.pdf", whitespace.ReplaceAllString(name, "_"), kind)
}
