package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
)

type refreshTokensRepo struct {
	q *queries
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.q.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, session_id, scopes, expires_at, revoked, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.TokenHash, t.SessionID, strings.Join(t.Scopes, " "),
		encodeTime(t.ExpiresAt), t.Revoked, encodeTime(t.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	var t domain.RefreshToken
	var scopes, expires, created string
	err := r.q.db.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, session_id, scopes, expires_at, revoked, created_at
		 FROM refresh_tokens WHERE token_hash = ?`, hash,
	).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.SessionID, &scopes, &expires, &t.Revoked, &created)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}

	t.Scopes = splitScopes(scopes)
	if t.ExpiresAt, err = decodeTime(expires); err != nil {
		return domain.RefreshToken{}, err
	}
	if t.CreatedAt, err = decodeTime(created); err != nil {
		return domain.RefreshToken{}, err
	}
	return t, nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	return requireAffected(r.q.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = 1 WHERE token_hash = ? AND revoked = 0`, hash))
}

func (r *refreshTokensRepo) RevokeAllUserRefreshTokens(ctx context.Context, userID string) error {
	_, err := r.q.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = 1 WHERE user_id = ? AND revoked = 0`, userID)
	return err
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < ? OR revoked = 1`, encodeTime(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
