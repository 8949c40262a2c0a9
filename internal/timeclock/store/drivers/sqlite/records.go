package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
)

const recordColumns = `id, user_id, check_in, check_out, created_at, updated_at`

type recordsRepo struct {
	q *queries
}

func scanRecord(row scanner) (domain.TimeRecord, error) {
	var rec domain.TimeRecord
	var checkIn, created, updated string
	var checkOut sql.NullString
	if err := row.Scan(&rec.ID, &rec.UserID, &checkIn, &checkOut, &created, &updated); err != nil {
		return domain.TimeRecord{}, err
	}

	var err error
	if rec.CheckIn, err = decodeTime(checkIn); err != nil {
		return domain.TimeRecord{}, err
	}
	if rec.CheckOut, err = decodeNullTime(checkOut); err != nil {
		return domain.TimeRecord{}, err
	}
	if rec.CreatedAt, err = decodeTime(created); err != nil {
		return domain.TimeRecord{}, err
	}
	if rec.UpdatedAt, err = decodeTime(updated); err != nil {
		return domain.TimeRecord{}, err
	}
	return rec, nil
}

func (r *recordsRepo) CreateRecord(ctx context.Context, rec domain.TimeRecord) error {
	_, err := r.q.db.ExecContext(ctx,
		`INSERT INTO time_records (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, encodeTime(rec.CheckIn), encodeTimePtr(rec.CheckOut),
		encodeTime(rec.CreatedAt), encodeTime(rec.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *recordsRepo) GetOpenRecord(ctx context.Context, userID string) (domain.TimeRecord, error) {
	rec, err := scanRecord(r.q.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM time_records
		 WHERE user_id = ? AND check_out IS NULL`, userID))
	if err != nil {
		return domain.TimeRecord{}, mapNotFound(err)
	}
	return rec, nil
}

func (r *recordsRepo) GetLastCompletedRecord(ctx context.Context, userID string) (domain.TimeRecord, error) {
	rec, err := scanRecord(r.q.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM time_records
		 WHERE user_id = ? AND check_out IS NOT NULL
		 ORDER BY check_out DESC, id DESC
		 LIMIT 1`, userID))
	if err != nil {
		return domain.TimeRecord{}, mapNotFound(err)
	}
	return rec, nil
}

func (r *recordsRepo) CloseRecord(ctx context.Context, id string, checkOut time.Time) error {
	ts := encodeTime(checkOut)
	return requireAffected(r.q.db.ExecContext(ctx,
		`UPDATE time_records SET check_out = ?, updated_at = ?
		 WHERE id = ? AND check_out IS NULL`,
		ts, ts, id,
	))
}

func (r *recordsRepo) ListRecords(ctx context.Context, userID string) ([]domain.TimeRecord, error) {
	return r.list(ctx,
		`SELECT `+recordColumns+` FROM time_records
		 WHERE user_id = ?
		 ORDER BY check_in ASC, id ASC`, userID)
}

func (r *recordsRepo) ListRecordsSince(ctx context.Context, userID string, since time.Time) ([]domain.TimeRecord, error) {
	return r.list(ctx,
		`SELECT `+recordColumns+` FROM time_records
		 WHERE user_id = ? AND check_in >= ?
		 ORDER BY check_in ASC, id ASC`, userID, encodeTime(since))
}

func (r *recordsRepo) list(ctx context.Context, query string, args ...any) ([]domain.TimeRecord, error) {
	rows, err := r.q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.TimeRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
