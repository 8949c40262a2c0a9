package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/store"
)

type txStore struct {
	tx *sql.Tx
	q  *queries
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{
		tx: tx,
		q:  newQueries(tx),
	}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // the outer DB stays open

// Ping is a no-op for transactions; the connection is already held.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users                   { return &usersRepo{q: t.q} }
func (t *txStore) Records() store.Records               { return &recordsRepo{q: t.q} }
func (t *txStore) RefreshTokens() store.RefreshTokens   { return &refreshTokensRepo{q: t.q} }
func (t *txStore) PasswordResets() store.PasswordResets { return &passwordResetsRepo{q: t.q} }

func (t *txStore) ApplyMigrations(context.Context) error { return nil } // applied before any tx
