package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/timeclock/pkg/httpx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := httpx.NewMetrics("timeclock", reg)

	cfg := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	mux := http.NewServeMux()
	mux.Handle("GET /v1/records", httpx.Chain(okHandler,
		m.Middleware(),
		httpx.RateLimitByIP(cfg, httpx.WithRateLimitMetrics(m)),
	))

	require.Equal(t, http.StatusOK, serveFrom(mux, "10.0.0.1:1", "/v1/records").Code)
	require.Equal(t, http.StatusTooManyRequests, serveFrom(mux, "10.0.0.1:1", "/v1/records").Code)

	expected := `
# HELP timeclock_http_requests_total Count of processed HTTP requests
# TYPE timeclock_http_requests_total counter
timeclock_http_requests_total{method="GET",route="GET /v1/records",status="200"} 1
timeclock_http_requests_total{method="GET",route="GET /v1/records",status="429"} 1
# HELP timeclock_rate_limit_hits_total Number of rate-limited responses
# TYPE timeclock_rate_limit_hits_total counter
timeclock_rate_limit_hits_total{route="GET /v1/records"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"timeclock_http_requests_total", "timeclock_rate_limit_hits_total"))
}

func TestNewMetricsReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := httpx.NewMetrics("timeclock", reg)
	b := httpx.NewMetrics("timeclock", reg)

	rec := httptest.NewRecorder()
	a.Middleware()(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	b.Middleware()(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	n, err := testutil.GatherAndCount(reg, "timeclock_http_requests_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
