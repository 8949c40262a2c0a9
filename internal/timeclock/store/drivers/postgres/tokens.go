package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
)

type refreshTokensRepo struct {
	db DBTX
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, session_id, scopes, expires_at, revoked, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.UserID, t.TokenHash, t.SessionID, joinScopes(t.Scopes), t.ExpiresAt.UTC(), t.Revoked, t.CreatedAt.UTC())
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	var t domain.RefreshToken
	var scopes string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, session_id, scopes, expires_at, revoked, created_at
		 FROM refresh_tokens WHERE token_hash = $1`, hash,
	).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.SessionID, &scopes, &t.ExpiresAt, &t.Revoked, &t.CreatedAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	t.Scopes = strings.Fields(scopes)
	return t, nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE token_hash = $1 AND revoked = FALSE`, hash))
}

func (r *refreshTokensRepo) RevokeAllUserRefreshTokens(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND revoked = FALSE`, userID)
	return err
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < $1 OR revoked = TRUE`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type passwordResetsRepo struct {
	db DBTX
}

func (r *passwordResetsRepo) CreatePasswordReset(ctx context.Context, pr domain.PasswordReset) error {
	var used sql.NullTime
	if pr.UsedAt != nil {
		used = sql.NullTime{Time: pr.UsedAt.UTC(), Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO password_resets (id, user_id, token_hash, expires_at, used_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		pr.ID, pr.UserID, pr.TokenHash, pr.ExpiresAt.UTC(), used, pr.CreatedAt.UTC())
	return mapConstraint(err)
}

func (r *passwordResetsRepo) GetPasswordResetByHash(ctx context.Context, hash string) (domain.PasswordReset, error) {
	var pr domain.PasswordReset
	var used sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, expires_at, used_at, created_at
		 FROM password_resets WHERE token_hash = $1`, hash,
	).Scan(&pr.ID, &pr.UserID, &pr.TokenHash, &pr.ExpiresAt, &used, &pr.CreatedAt)
	if err != nil {
		return domain.PasswordReset{}, mapNotFound(err)
	}
	pr.UsedAt = nullTimePtr(used)
	return pr, nil
}

func (r *passwordResetsRepo) MarkPasswordResetUsed(ctx context.Context, id string, at time.Time) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE password_resets SET used_at = $1 WHERE id = $2 AND used_at IS NULL`, at.UTC(), id))
}

func (r *passwordResetsRepo) DeleteExpiredPasswordResets(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM password_resets WHERE expires_at < $1 OR used_at IS NOT NULL`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
