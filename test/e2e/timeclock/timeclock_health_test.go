package timeclock_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/stretchr/testify/require"
)

// TestHealthEndpoints verifies liveness, readiness and JWKS on a fresh service.
func TestHealthEndpoints(t *testing.T) {
	baseURL := setupTimeclockContainer(t)
	client := clocksdk.NewClient(baseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)

	health, err = client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Signer)

	jwks, err := client.GetJWKS(t.Context())
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "EdDSA", jwks.Keys[0].Alg)
}

// TestMetricsEndpoint verifies Prometheus metrics are exposed.
func TestMetricsEndpoint(t *testing.T) {
	baseURL := setupTimeclockContainer(t)
	client := clocksdk.NewClient(baseURL)

	session := registerAndLogin(t, client, "Metric Mary", "mary@example.com")
	_, err := session.Scan(t.Context(), "")
	require.NoError(t, err)

	resp, err := http.Get(baseURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `timeclock_clock_toggles_total{action="in",source="app"} 1`)
	require.Contains(t, string(body), "timeclock_http_requests_total")
	require.Contains(t, string(body), "go_goroutines")
}
