package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
)

const recordColumns = `id, user_id, check_in, check_out, created_at, updated_at`

type recordsRepo struct {
	db DBTX
}

func scanRecord(row scanner) (domain.TimeRecord, error) {
	var rec domain.TimeRecord
	var out sql.NullTime
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.CheckIn, &out, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return domain.TimeRecord{}, err
	}
	rec.CheckOut = nullTimePtr(out)
	return rec, nil
}

func (r *recordsRepo) CreateRecord(ctx context.Context, rec domain.TimeRecord) error {
	var out sql.NullTime
	if rec.CheckOut != nil {
		out = sql.NullTime{Time: rec.CheckOut.UTC(), Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO time_records (`+recordColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.UserID, rec.CheckIn.UTC(), out, rec.CreatedAt.UTC(), rec.UpdatedAt.UTC())
	return mapConstraint(err)
}

func (r *recordsRepo) GetOpenRecord(ctx context.Context, userID string) (domain.TimeRecord, error) {
	rec, err := scanRecord(r.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM time_records
		 WHERE user_id = $1 AND check_out IS NULL`, userID))
	if err != nil {
		return domain.TimeRecord{}, mapNotFound(err)
	}
	return rec, nil
}

func (r *recordsRepo) GetLastCompletedRecord(ctx context.Context, userID string) (domain.TimeRecord, error) {
	rec, err := scanRecord(r.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM time_records
		 WHERE user_id = $1 AND check_out IS NOT NULL
		 ORDER BY check_out DESC, id DESC
		 LIMIT 1`, userID))
	if err != nil {
		return domain.TimeRecord{}, mapNotFound(err)
	}
	return rec, nil
}

func (r *recordsRepo) CloseRecord(ctx context.Context, id string, checkOut time.Time) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE time_records SET check_out = $1, updated_at = $1
		 WHERE id = $2 AND check_out IS NULL`,
		checkOut.UTC(), id))
}

func (r *recordsRepo) ListRecords(ctx context.Context, userID string) ([]domain.TimeRecord, error) {
	return r.list(ctx,
		`SELECT `+recordColumns+` FROM time_records
		 WHERE user_id = $1
		 ORDER BY check_in ASC, id ASC`, userID)
}

func (r *recordsRepo) ListRecordsSince(ctx context.Context, userID string, since time.Time) ([]domain.TimeRecord, error) {
	return r.list(ctx,
		`SELECT `+recordColumns+` FROM time_records
		 WHERE user_id = $1 AND check_in >= $2
		 ORDER BY check_in ASC, id ASC`, userID, since.UTC())
}

func (r *recordsRepo) list(ctx context.Context, query string, args ...any) ([]domain.TimeRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
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
