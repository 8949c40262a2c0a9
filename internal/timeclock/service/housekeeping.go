package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/store"
)

// HousekeepingService periodically deletes expired refresh tokens and
// password resets.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService defaults a non-positive interval to one hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs one pass. Each deletion is independent; a failure in one
// does not stop the other.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	now := time.Now()

	tokens, err := s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired refresh tokens", "error", err)
	}

	resets, err := s.Store.PasswordResets().DeleteExpiredPasswordResets(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired password resets", "error", err)
	}

	s.Logger.Info("housekeeping cleanup completed",
		"refresh_tokens_deleted", tokens,
		"password_resets_deleted", resets,
	)
}
