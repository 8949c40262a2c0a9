package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
)

type passwordResetsRepo struct {
	q *queries
}

func (r *passwordResetsRepo) CreatePasswordReset(ctx context.Context, pr domain.PasswordReset) error {
	_, err := r.q.db.ExecContext(ctx,
		`INSERT INTO password_resets (id, user_id, token_hash, expires_at, used_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		pr.ID, pr.UserID, pr.TokenHash, encodeTime(pr.ExpiresAt), encodeTimePtr(pr.UsedAt), encodeTime(pr.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *passwordResetsRepo) GetPasswordResetByHash(ctx context.Context, hash string) (domain.PasswordReset, error) {
	var pr domain.PasswordReset
	var expires, created string
	var used sql.NullString
	err := r.q.db.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, expires_at, used_at, created_at
		 FROM password_resets WHERE token_hash = ?`, hash,
	).Scan(&pr.ID, &pr.UserID, &pr.TokenHash, &expires, &used, &created)
	if err != nil {
		return domain.PasswordReset{}, mapNotFound(err)
	}

	if pr.ExpiresAt, err = decodeTime(expires); err != nil {
		return domain.PasswordReset{}, err
	}
	if pr.UsedAt, err = decodeNullTime(used); err != nil {
		return domain.PasswordReset{}, err
	}
	if pr.CreatedAt, err = decodeTime(created); err != nil {
		return domain.PasswordReset{}, err
	}
	return pr, nil
}

func (r *passwordResetsRepo) MarkPasswordResetUsed(ctx context.Context, id string, at time.Time) error {
	return requireAffected(r.q.db.ExecContext(ctx,
		`UPDATE password_resets SET used_at = ? WHERE id = ? AND used_at IS NULL`, encodeTime(at), id))
}

func (r *passwordResetsRepo) DeleteExpiredPasswordResets(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.db.ExecContext(ctx,
		`DELETE FROM password_resets WHERE expires_at < ? OR used_at IS NOT NULL`, encodeTime(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
