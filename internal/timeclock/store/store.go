package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement it. Sub-repositories are reached through methods so a
// Tx exposes exactly the same surface and nested transactions cannot be
// started by accident.
type Store interface {
	Users() Users
	Records() Records
	RefreshTokens() RefreshTokens
	PasswordResets() PasswordResets

	ApplyMigrations(ctx context.Context) error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail expects an already normalised (lowercase) email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	UpdateProfile(ctx context.Context, userID, name string, weeklyHours int, at time.Time) error
	UpdatePasswordHash(ctx context.Context, userID, hash string, at time.Time) error
	UpdateBadgeSecret(ctx context.Context, userID, secret string, at time.Time) error

	// DeleteUser cascades to records, refresh tokens and resets.
	DeleteUser(ctx context.Context, userID string) error
}

type Records interface {
	// CreateRecord inserts a record. Inserting a second open record for the
	// same user returns ErrAlreadyExists.
	CreateRecord(ctx context.Context, r domain.TimeRecord) error

	// GetOpenRecord returns the user's open record, or ErrNotFound when they
	// are off shift. There is at most one.
	GetOpenRecord(ctx context.Context, userID string) (domain.TimeRecord, error)

	// GetLastCompletedRecord returns the completed record with the newest check-out.
	GetLastCompletedRecord(ctx context.Context, userID string) (domain.TimeRecord, error)

	// CloseRecord sets check_out on an open record; ErrNotFound when the
	// record is missing or already closed.
	CloseRecord(ctx context.Context, id string, checkOut time.Time) error

	// ListRecords returns every record ordered by check-in ascending.
	ListRecords(ctx context.Context, userID string) ([]domain.TimeRecord, error)

	// ListRecordsSince returns records with check_in >= since, ascending.
	ListRecordsSince(ctx context.Context, userID string, since time.Time) ([]domain.TimeRecord, error)
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, hash string) error
	RevokeAllUserRefreshTokens(ctx context.Context, userID string) error
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

type PasswordResets interface {
	CreatePasswordReset(ctx context.Context, r domain.PasswordReset) error
	GetPasswordResetByHash(ctx context.Context, hash string) (domain.PasswordReset, error)

	// MarkPasswordResetUsed returns ErrNotFound if the reset was already used.
	MarkPasswordResetUsed(ctx context.Context, id string, at time.Time) error
	DeleteExpiredPasswordResets(ctx context.Context, now time.Time) (int64, error)
}
