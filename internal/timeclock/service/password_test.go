package service

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	email, link string
	calls       int
}

func (m *captureMailer) SendPasswordReset(_ context.Context, email, _ string, link string) error {
	m.calls++
	m.email, m.link = email, link
	return nil
}

func (m *captureMailer) token(t *testing.T) string {
	t.Helper()
	u, err := url.Parse(m.link)
	require.NoError(t, err)
	require.Equal(t, "/reset-password", u.Path)
	return u.Query().Get("token")
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	accounts := newAccounts(t, st)
	u := registerUser(t, st, "jane@example.com")

	session, err := accounts.Login(ctx, "jane@example.com", "hunter22")
	require.NoError(t, err)

	mailer := &captureMailer{}
	svc := &PasswordService{Store: st, Mailer: mailer, PublicURL: "https://clock.example.com/"}

	require.NoError(t, svc.RequestReset(ctx, "nobody@example.com"))
	require.Zero(t, mailer.calls)

	require.NoError(t, svc.RequestReset(ctx, "Jane@Example.com"))
	require.Equal(t, 1, mailer.calls)
	require.Equal(t, u.Email, mailer.email)
	token := mailer.token(t)
	require.NotEmpty(t, token)

	require.ErrorIs(t, svc.ResetPassword(ctx, token, "new-secret", "new-secrat"), ErrPasswordMismatch)
	require.ErrorIs(t, svc.ResetPassword(ctx, token, "short", "short"), ErrWeakPassword)
	require.ErrorIs(t, svc.ResetPassword(ctx, "bogus", "new-secret", "new-secret"), ErrInvalidResetToken)

	require.NoError(t, svc.ResetPassword(ctx, token, "new-secret", "new-secret"))
	require.ErrorIs(t, svc.ResetPassword(ctx, token, "other-secret", "other-secret"), ErrInvalidResetToken)

	_, err = accounts.Login(ctx, "jane@example.com", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = accounts.Login(ctx, "jane@example.com", "new-secret")
	require.NoError(t, err)

	// existing sessions are signed out
	_, err = accounts.Refresh(ctx, session.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestPasswordResetExpires(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	registerUser(t, st, "jane@example.com")

	mailer := &captureMailer{}
	issued := time.Now()
	svc := &PasswordService{Store: st, Mailer: mailer, ResetTTL: time.Minute, Clock: fixedClock(issued)}
	require.NoError(t, svc.RequestReset(ctx, "jane@example.com"))

	svc.Clock = fixedClock(issued.Add(2 * time.Minute))
	require.ErrorIs(t, svc.ResetPassword(ctx, mailer.token(t), "new-secret", "new-secret"), ErrInvalidResetToken)
}
