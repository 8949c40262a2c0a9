package app

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	return Config{
		Issuer:               "timeclock",
		DatabaseDriver:       "sqlite",
		DatabaseFile:         filepath.Join(dir, "timeclock.db"),
		PepperFile:           filepath.Join(dir, "pepper"),
		NumKeys:              1,
		Timezone:             "Australia/Sydney",
		DefaultWeeklyHours:   38,
		KioskToken:           "front-desk",
		PublicURL:            "http://localhost:8080",
		ResetTTL:             time.Hour,
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "text",
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
	}
}

func TestNewWiresServices(t *testing.T) {
	app, err := New(testConfig(t))
	require.NoError(t, err)

	srv := httptest.NewServer(app.router)
	defer srv.Close()

	client := clocksdk.NewClient(srv.URL)
	ctx := context.Background()

	profile, err := client.Register(ctx, clocksdk.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "hunter22"})
	require.NoError(t, err)
	require.Equal(t, 38, profile.WeeklyHours)

	ready, err := client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)

	app.housekeepingService.Start()
	require.NoError(t, app.Shutdown())
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }},
		{"postgres without url", func(c *Config) { c.DatabaseDriver = "postgres" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(&cfg)
			_, err := New(cfg)
			require.Error(t, err)
		})
	}
}
