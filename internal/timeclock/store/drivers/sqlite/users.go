package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
)

const userColumns = `id, email, name, password_hash, weekly_hours, badge_secret, created_at, updated_at`

type usersRepo struct {
	q *queries
}

func scanUser(row scanner) (domain.User, error) {
	var u domain.User
	var created, updated string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.WeeklyHours, &u.BadgeSecret, &created, &updated); err != nil {
		return domain.User{}, err
	}
	var err error
	if u.CreatedAt, err = decodeTime(created); err != nil {
		return domain.User{}, err
	}
	if u.UpdatedAt, err = decodeTime(updated); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := scanUser(r.q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM profiles WHERE id = ?`, id))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM profiles WHERE email = ?`, email))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.db.ExecContext(ctx,
		`INSERT INTO profiles (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.WeeklyHours, u.BadgeSecret,
		encodeTime(u.CreatedAt), encodeTime(u.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, userID, name string, weeklyHours int, at time.Time) error {
	return requireAffected(r.q.db.ExecContext(ctx,
		`UPDATE profiles SET name = ?, weekly_hours = ?, updated_at = ? WHERE id = ?`,
		name, weeklyHours, encodeTime(at), userID,
	))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string, at time.Time) error {
	return requireAffected(r.q.db.ExecContext(ctx,
		`UPDATE profiles SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, encodeTime(at), userID,
	))
}

func (r *usersRepo) UpdateBadgeSecret(ctx context.Context, userID, secret string, at time.Time) error {
	return requireAffected(r.q.db.ExecContext(ctx,
		`UPDATE profiles SET badge_secret = ?, updated_at = ? WHERE id = ?`,
		secret, encodeTime(at), userID,
	))
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	return requireAffected(r.q.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, userID))
}
