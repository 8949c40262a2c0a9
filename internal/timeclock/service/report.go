package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/report"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/store"
	"github.com/aussiebroadwan/timeclock/pkg/idx"
	"github.com/aussiebroadwan/timeclock/pkg/slogx"
)

// GeneratedReport is a rendered PDF ready to be downloaded.
type GeneratedReport struct {
	FileName     string
	Content      []byte
	Records      int
	TotalMinutes int
	ArchiveKey   string // empty when not archived
}

type ReportService struct {
	Store    store.Store
	Location *time.Location
	Archive  report.Archive // optional

	Clock func() time.Time
}

func (s *ReportService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// Generate renders a total or monthly report for the user. An empty month on
// a monthly report means the current month.
func (s *ReportService) Generate(ctx context.Context, userID, kind, month string) (GeneratedReport, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	k, err := report.ParseKind(kind)
	if err != nil {
		return GeneratedReport{}, ErrInvalidReport
	}
	if k == report.KindMonth && month == "" {
		loc := s.Location
		if loc == nil {
			loc = time.UTC
		}
		month = now.In(loc).Format("2006-01")
	}
	if k == report.KindTotal {
		month = ""
	}

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return GeneratedReport{}, err
	}
	all, err := s.Store.Records().ListRecords(ctx, userID)
	if err != nil {
		return GeneratedReport{}, err
	}

	records, err := report.Filter(all, k, month, s.Location)
	if err != nil {
		return GeneratedReport{}, ErrInvalidReport
	}

	doc := report.Report{
		Name:        u.Name,
		Kind:        k,
		Month:       month,
		GeneratedAt: now,
		Location:    s.Location,
		Records:     records,
	}
	content, err := report.Render(doc)
	if err != nil {
		return GeneratedReport{}, err
	}

	out := GeneratedReport{
		FileName:     report.FileName(u.Name, k),
		Content:      content,
		Records:      len(records),
		TotalMinutes: doc.TotalMinutes(),
	}

	if s.Archive != nil {
		key := report.ArchiveKey(userID, now, idx.NewAt(now).String())
		if err := s.Archive.Put(ctx, key, content); err != nil {
			l.Error("failed to archive report", slog.Any("error", err), slog.String("key", key))
		} else {
			out.ArchiveKey = key
		}
	}

	l.Info("report generated",
		slog.String("user_id", userID),
		slog.String("kind", string(k)),
		slog.Int("records", out.Records),
	)
	return out, nil
}
