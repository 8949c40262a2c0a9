package service

import (
	"context"
	"log/slog"
)

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, name, link string) error
}

// LogMailer writes reset links to the log instead of sending mail. It is the
// default for self-hosted installs without an outbound mail relay.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendPasswordReset(ctx context.Context, email, name, link string) error {
	l := m.Logger
	if l == nil {
		l = slog.Default()
	}
	l.InfoContext(ctx, "password reset requested",
		slog.String("email", email),
		slog.String("name", name),
		slog.String("link", link),
	)
	return nil
}
