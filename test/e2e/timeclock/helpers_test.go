package timeclock_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup and shared assertions for the time clock end-to-end tests.
 */

const (
	testImageName = "timeclock-test:latest"

	kioskToken   = "e2e-kiosk-token"
	testPassword = "hunter22"
)

// TestMain builds the Docker image once for every test and removes it after.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building timeclock Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up timeclock Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/timeclock/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run()
}

// baseEnv is the service environment shared by every container.
func baseEnv() map[string]string {
	return map[string]string{
		"TIMECLOCK_ISSUER":      "timeclock",
		"TIMECLOCK_NUM_KEYS":    "1",
		"TIMECLOCK_TIMEZONE":    "Australia/Sydney",
		"TIMECLOCK_KIOSK_TOKEN": kioskToken,
		"TIMECLOCK_PUBLIC_URL":  "http://timeclock.test",
		"ENV":                   "test",
		"LOG_LEVEL":             "info",
		"LOG_FORMAT":            "json",
		// Relaxed so tests can fire many requests from one address
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
	}
}

// startService runs the timeclock image with env and returns its base URL.
func startService(t *testing.T, env map[string]string, opts ...testcontainers.CustomizeRequestOption) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/readyz").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	}
	for _, opt := range opts {
		require.NoError(t, opt(&req))
	}

	container, err := testcontainers.GenericContainer(ctx, req)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// setupTimeclockContainer starts the service on its embedded SQLite store.
func setupTimeclockContainer(t *testing.T) string {
	t.Helper()
	env := baseEnv()
	env["TIMECLOCK_DATABASE_FILE"] = "/data/timeclock.db"
	env["TIMECLOCK_PEPPER_FILE"] = "/data/pepper"
	return startService(t, env)
}

// setupTimeclockWithDefaultRateLimits keeps production rate limits so the
// limiter itself can be tested.
func setupTimeclockWithDefaultRateLimits(t *testing.T) string {
	t.Helper()
	env := baseEnv()
	for k := range env {
		if strings.HasPrefix(k, "RATELIMIT_") {
			delete(env, k)
		}
	}
	return startService(t, env)
}

// setupTimeclockWithPostgres starts Postgres and the service on a shared
// network, the service reaching the database by alias.
func setupTimeclockWithPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	nw, err := network.New(ctx)
	require.NoError(t, err)
	testcontainers.CleanupNetwork(t, nw)

	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "timeclock",
				"POSTGRES_PASSWORD": "timeclock",
				"POSTGRES_DB":       "timeclock",
			},
			Networks:       []string{nw.Name},
			NetworkAliases: map[string][]string{nw.Name: {"db"}},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, pg)
	require.NoError(t, err)

	env := baseEnv()
	env["TIMECLOCK_DATABASE_DRIVER"] = "postgres"
	env["TIMECLOCK_DATABASE_URL"] = "postgres://timeclock:timeclock@db:5432/timeclock?sslmode=disable"
	return startService(t, env, network.WithNetwork(nil, nw))
}

// registerAndLogin creates an account and signs it in.
func registerAndLogin(t *testing.T, client *clocksdk.Client, name, email string) *clocksdk.Session {
	t.Helper()
	ctx := context.Background()

	profile, err := client.Register(ctx, clocksdk.RegisterRequest{Name: name, Email: email, Password: testPassword})
	require.NoError(t, err, "Register should succeed")
	require.Equal(t, email, profile.Email)

	session, err := client.Login(ctx, email, testPassword)
	require.NoError(t, err, "Login should succeed")
	require.NotNil(t, session)
	return session
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *clocksdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
