package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/store"
	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	DefaultBadgeSize = 256
	MinBadgeSize     = 64
	MaxBadgeSize     = 1024
)

// BadgeService renders the personal QR badge scanned at a kiosk.
type BadgeService struct {
	Store store.Store

	Clock func() time.Time
}

func (s *BadgeService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// Payload builds the badge content for the user's next toggle.
func (s *BadgeService) Payload(ctx context.Context, userID string) (domain.BadgePayload, error) {
	now := s.now()

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.BadgePayload{}, err
	}

	_, err = s.Store.Records().GetOpenRecord(ctx, userID)
	working := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return domain.BadgePayload{}, err
	}

	code, err := totp.GenerateCodeCustom(u.BadgeSecret, now, totp.ValidateOpts{
		Period:    BadgePeriod,
		Skew:      BadgeSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.BadgePayload{}, fmt.Errorf("badge code: %w", err)
	}

	return domain.BadgePayload{
		UID:    u.ID,
		Action: domain.NextAction(working),
		TS:     now.UnixMilli(),
		OTP:    code,
	}, nil
}

// Render encodes the badge payload as a size x size PNG QR code.
func (s *BadgeService) Render(ctx context.Context, userID string, size int) ([]byte, error) {
	if size == 0 {
		size = DefaultBadgeSize
	}
	if size < MinBadgeSize || size > MaxBadgeSize {
		return nil, ErrInvalidBadge
	}

	p, err := s.Payload(ctx, userID)
	if err != nil {
		return nil, err
	}
	content, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	code, err := qr.Encode(string(content), qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	code, err = barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("scale qr: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Rotate replaces the badge secret. Codes derived from the old secret stop
// validating once they fall outside the accepted skew.
func (s *BadgeService) Rotate(ctx context.Context, userID string) error {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	secret, err := newBadgeSecret(u.Email)
	if err != nil {
		return err
	}
	return s.Store.Users().UpdateBadgeSecret(ctx, userID, secret, s.now())
}
