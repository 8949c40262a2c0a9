package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"TIMECLOCK_DATABASE_DRIVER", "TIMECLOCK_TIMEZONE", "TIMECLOCK_KIOSK_TOKEN", "PORT", "HOUSEKEEPING_INTERVAL"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "timeclock", cfg.Issuer)
	require.Equal(t, "sqlite", cfg.DatabaseDriver)
	require.Equal(t, "UTC", cfg.Timezone)
	require.Equal(t, 40, cfg.DefaultWeeklyHours)
	require.Empty(t, cfg.KioskToken)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, time.Hour, cfg.HousekeepingInterval)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("TIMECLOCK_DATABASE_DRIVER", "postgres")
	t.Setenv("TIMECLOCK_TIMEZONE", "Australia/Sydney")
	t.Setenv("TIMECLOCK_DEFAULT_WEEKLY_HOURS", "38")
	t.Setenv("TIMECLOCK_RESET_TTL", "30")
	t.Setenv("TIMECLOCK_REDIS_DB", "not-a-number")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "3s")

	cfg := LoadConfig()
	require.Equal(t, "postgres", cfg.DatabaseDriver)
	require.Equal(t, "Australia/Sydney", cfg.Timezone)
	require.Equal(t, 38, cfg.DefaultWeeklyHours)
	require.Equal(t, 30*time.Minute, cfg.ResetTTL)
	require.Equal(t, 0, cfg.RedisDB)
	require.Equal(t, 3*time.Second, cfg.ShutdownGracePeriod)
}
