package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer string // Issuer claim for access tokens (default: timeclock)

	DatabaseDriver string // sqlite or postgres (default: sqlite)
	DatabaseFile   string // SQLite database file (default: timeclock.db)
	DatabaseURL    string // Postgres DSN, required when DatabaseDriver is postgres
	PepperFile     string // File holding the password hashing pepper (default: ./pepper)
	NumKeys        int    // Number of signing keys to generate (default: 3)

	Timezone           string // IANA zone weeks and months are anchored in (default: UTC)
	DefaultWeeklyHours int    // Contract given to new accounts (default: 40)
	KioskToken         string // Shared kiosk secret; kiosk routes are off when empty
	PublicURL          string // Base of password reset links
	ResetTTL           time.Duration

	S3Bucket    string // Report archive bucket; archiving is off when empty
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	RedisAddr     string // Shared rate limit backend; in-process when empty
	RedisPassword string
	RedisDB       int

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("TIMECLOCK_ISSUER", "timeclock"),
		DatabaseDriver: getEnvOrDefault("TIMECLOCK_DATABASE_DRIVER", "sqlite"),
		DatabaseFile:   getEnvOrDefault("TIMECLOCK_DATABASE_FILE", "timeclock.db"),
		DatabaseURL:    os.Getenv("TIMECLOCK_DATABASE_URL"),
		PepperFile:     getEnvOrDefault("TIMECLOCK_PEPPER_FILE", "pepper"),
		NumKeys:        getEnvIntOrDefault("TIMECLOCK_NUM_KEYS", 3),

		Timezone:           getEnvOrDefault("TIMECLOCK_TIMEZONE", "UTC"),
		DefaultWeeklyHours: getEnvIntOrDefault("TIMECLOCK_DEFAULT_WEEKLY_HOURS", 40),
		KioskToken:         os.Getenv("TIMECLOCK_KIOSK_TOKEN"),
		PublicURL:          getEnvOrDefault("TIMECLOCK_PUBLIC_URL", "http://localhost:8080"),
		ResetTTL:           getEnvDurationOrDefault("TIMECLOCK_RESET_TTL", time.Hour),

		S3Bucket:    os.Getenv("TIMECLOCK_S3_BUCKET"),
		S3Region:    getEnvOrDefault("TIMECLOCK_S3_REGION", "us-east-1"),
		S3Endpoint:  os.Getenv("TIMECLOCK_S3_ENDPOINT"),
		S3AccessKey: os.Getenv("TIMECLOCK_S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("TIMECLOCK_S3_SECRET_KEY"),

		RedisAddr:     os.Getenv("TIMECLOCK_REDIS_ADDR"),
		RedisPassword: os.Getenv("TIMECLOCK_REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("TIMECLOCK_REDIS_DB", 0),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
