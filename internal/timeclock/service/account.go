package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/store"
	"github.com/aussiebroadwan/timeclock/pkg/cryptox"
	"github.com/aussiebroadwan/timeclock/pkg/idx"
	"github.com/aussiebroadwan/timeclock/pkg/jwtx"
	"github.com/aussiebroadwan/timeclock/pkg/slogx"
	"github.com/aussiebroadwan/timeclock/pkg/timecalc"
	"github.com/pquerna/otp/totp"
)

// AccountService owns registration, sign-in and the profile.
type AccountService struct {
	Store      store.Store
	KeyManager *jwtx.KeyManager
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// DefaultWeeklyHours is the contract given to new accounts.
	DefaultWeeklyHours int

	Clock func() time.Time
}

func (s *AccountService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// Register creates a new account. The email must be unused.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	now := s.now()
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if name == "" || !validEmail(email) {
		return domain.User{}, ErrInvalidProfile
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	secret, err := newBadgeSecret(email)
	if err != nil {
		return domain.User{}, err
	}

	hours := s.DefaultWeeklyHours
	if !timecalc.ValidWeeklyHours(hours) {
		hours = timecalc.DefaultWeeklyHours
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		WeeklyHours:  hours,
		BadgeSecret:  secret,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("account registered", slog.String("user_id", u.ID))
	return u, nil
}

// Login implements the password grant. Unknown emails and wrong passwords
// both yield ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("password verification failed", slog.String("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	if cryptox.NeedsRehash(u.PasswordHash) {
		if hash, err := cryptox.HashPassword(password); err == nil {
			if err := s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash, s.now()); err != nil {
				l.Warn("failed to upgrade password hash", slog.Any("error", err))
			}
		}
	}

	pair, refresh, err := s.issue(u, idx.New().String(), domain.DefaultScopes)
	if err != nil {
		return nil, err
	}
	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, refresh); err != nil {
		return nil, err
	}
	return pair, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued for the same session.
func (s *AccountService) Refresh(ctx context.Context, refreshOpaque string) (*domain.TokenPair, error) {
	now := s.now()
	fp := cryptox.FingerprintToken(strings.TrimSpace(refreshOpaque))

	var pair *domain.TokenPair
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rt, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}
		if rt.Revoked || now.After(rt.ExpiresAt) {
			return ErrInvalidRefresh
		}

		u, err := tx.Users().GetUserByID(ctx, rt.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}

		scopes := rt.Scopes
		if len(scopes) == 0 {
			scopes = domain.DefaultScopes
		}

		p, next, err := s.issue(u, rt.SessionID, scopes)
		if err != nil {
			return err
		}

		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// lost a race with another refresh of the same token
				return ErrInvalidRefresh
			}
			return err
		}
		if err := tx.RefreshTokens().CreateRefreshToken(ctx, next); err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Revoke signs a session out. Unknown or already revoked tokens are not an
// error.
func (s *AccountService) Revoke(ctx context.Context, refreshOpaque string) error {
	fp := cryptox.FingerprintToken(strings.TrimSpace(refreshOpaque))
	err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, fp)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

func (s *AccountService) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// UpdateProfile applies the non-nil fields of upd.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (domain.User, error) {
	var out domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}

		if upd.Name != nil {
			name := strings.TrimSpace(*upd.Name)
			if name == "" {
				return ErrInvalidProfile
			}
			u.Name = name
		}
		if upd.WeeklyHours != nil {
			if !timecalc.ValidWeeklyHours(*upd.WeeklyHours) {
				return ErrInvalidProfile
			}
			u.WeeklyHours = *upd.WeeklyHours
		}

		u.UpdatedAt = s.now()
		if err := tx.Users().UpdateProfile(ctx, u.ID, u.Name, u.WeeklyHours, u.UpdatedAt); err != nil {
			return err
		}
		out = u
		return nil
	})
	return out, err
}

// DeleteAccount removes the profile and, by cascade, its records and sessions.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("account deleted", slog.String("user_id", userID))
	return nil
}

// issue signs an access token and prepares (but does not store) the paired
// refresh token.
func (s *AccountService) issue(u domain.User, sessionID string, scopes []string) (*domain.TokenPair, domain.RefreshToken, error) {
	now := s.now()

	access, err := s.KeyManager.Sign(jwtx.NewAccessClaims(jwtx.AccessParams{
		Subject: u.ID,
		Session: sessionID,
		Scopes:  scopes,
		Email:   u.Email,
		Name:    u.Name,
		Issuer:  s.Issuer,
		TTL:     s.AccessTTL,
	}, now))
	if err != nil {
		return nil, domain.RefreshToken{}, fmt.Errorf("sign access token: %w", err)
	}

	opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, domain.RefreshToken{}, err
	}

	refreshTTL := s.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = jwtx.DefaultRefreshTokenTTL
	}
	accessTTL := s.AccessTTL
	if accessTTL <= 0 {
		accessTTL = jwtx.DefaultAccessTokenTTL
	}

	rt := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(opaque),
		SessionID: sessionID,
		Scopes:    scopes,
		ExpiresAt: now.Add(refreshTTL),
		CreatedAt: now,
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: opaque,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTTL / time.Second),
		Scope:        strings.Join(scopes, " "),
	}, rt, nil
}

func newBadgeSecret(email string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "timeclock",
		AccountName: email,
	})
	if err != nil {
		return "", fmt.Errorf("generate badge secret: %w", err)
	}
	return key.Secret(), nil
}
