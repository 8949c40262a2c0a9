package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
)

type usersRepo struct {
	db DBTX
}

func scanUser(row scanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.WeeklyHours, &u.BadgeSecret, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	query :=
		`SELECT id, email, name, password_hash, weekly_hours, badge_secret, created_at, updated_at
		 FROM profiles WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	query :=
		`SELECT id, email, name, password_hash, weekly_hours, badge_secret, created_at, updated_at
		 FROM profiles WHERE email = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	query :=
		`INSERT INTO profiles (id, email, name, password_hash, weekly_hours, badge_secret, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Email, u.Name, u.PasswordHash, u.WeeklyHours, u.BadgeSecret, u.CreatedAt.UTC(), u.UpdatedAt.UTC())
	return mapConstraint(err)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, userID, name string, weeklyHours int, at time.Time) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE profiles SET name = $1, weekly_hours = $2, updated_at = $3 WHERE id = $4`,
		name, weeklyHours, at.UTC(), userID))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string, at time.Time) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE profiles SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		hash, at.UTC(), userID))
}

func (r *usersRepo) UpdateBadgeSecret(ctx context.Context, userID, secret string, at time.Time) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE profiles SET badge_secret = $1, updated_at = $2 WHERE id = $3`,
		secret, at.UTC(), userID))
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, userID))
}
