package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/store"
	"github.com/aussiebroadwan/timeclock/pkg/cryptox"
	"github.com/aussiebroadwan/timeclock/pkg/idx"
	"github.com/aussiebroadwan/timeclock/pkg/slogx"
)

// DefaultResetTTL bounds how long a reset link stays valid.
const DefaultResetTTL = time.Hour

// PasswordService handles forgotten passwords.
type PasswordService struct {
	Store  store.Store
	Mailer Mailer

	// PublicURL is the base of the reset link, e.g. https://clock.example.com.
	PublicURL string
	ResetTTL  time.Duration

	Clock func() time.Time
}

func (s *PasswordService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// RequestReset mails a reset link when the email belongs to an account.
// Unknown emails succeed silently so callers cannot probe for accounts.
func (s *PasswordService) RequestReset(ctx context.Context, email string) error {
	now := s.now()
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Debug("password reset for unknown email")
			return nil
		}
		return err
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return err
	}

	ttl := s.ResetTTL
	if ttl <= 0 {
		ttl = DefaultResetTTL
	}

	reset := domain.PasswordReset{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(token),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.Store.PasswordResets().CreatePasswordReset(ctx, reset); err != nil {
		return err
	}

	if s.Mailer == nil {
		return nil
	}
	if err := s.Mailer.SendPasswordReset(ctx, u.Email, u.Name, s.resetLink(token)); err != nil {
		l.Error("failed to send password reset", slog.Any("error", err), slog.String("user_id", u.ID))
		return fmt.Errorf("send reset: %w", err)
	}
	return nil
}

// ResetPassword consumes a reset token and sets a new password. Every
// session of the account is signed out.
func (s *PasswordService) ResetPassword(ctx context.Context, token, newPassword, confirm string) error {
	now := s.now()

	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if len(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	fp := cryptox.FingerprintToken(strings.TrimSpace(token))
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		reset, err := tx.PasswordResets().GetPasswordResetByHash(ctx, fp)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidResetToken
			}
			return err
		}
		if reset.UsedAt != nil || now.After(reset.ExpiresAt) {
			return ErrInvalidResetToken
		}

		if err := tx.PasswordResets().MarkPasswordResetUsed(ctx, reset.ID, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidResetToken
			}
			return err
		}
		if err := tx.Users().UpdatePasswordHash(ctx, reset.UserID, hash, now); err != nil {
			return err
		}
		return tx.RefreshTokens().RevokeAllUserRefreshTokens(ctx, reset.UserID)
	})
}

func (s *PasswordService) resetLink(token string) string {
	base := strings.TrimRight(s.PublicURL, "/")
	return base + "/reset-password?token=" + url.QueryEscape(token)
}
