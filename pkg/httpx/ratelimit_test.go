package httpx_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/timeclock/pkg/httpx"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serveFrom(h http.Handler, remote, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIPKeyExtractor(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"remote addr", nil, "192.168.1.1"},
		{"x-forwarded-for first hop", map[string]string{"X-Forwarded-For": "203.0.113.1, 192.168.1.1"}, "203.0.113.1"},
		{"x-real-ip", map[string]string{"X-Real-IP": "203.0.113.2"}, "203.0.113.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.168.1.1:12345"
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tt.want, httpx.IPKeyExtractor(req))
		})
	}
}

func TestFormFieldKeyExtractor(t *testing.T) {
	extractor := httpx.FormFieldKeyExtractor("username")

	t.Run("query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?username=alice", nil)
		require.Equal(t, "alice", extractor(req))
	})

	t.Run("post form", func(t *testing.T) {
		form := url.Values{"username": {"bob@example.com"}}
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		require.Equal(t, "bob@example.com", extractor(req))
	})

	t.Run("missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		require.Equal(t, "", extractor(req))
	})
}

func TestCompositeKeyExtractor(t *testing.T) {
	extractor := httpx.CompositeKeyExtractor(":", httpx.IPKeyExtractor, httpx.FormFieldKeyExtractor("username"))

	req := httptest.NewRequest(http.MethodGet, "/?username=alice", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	require.Equal(t, "192.168.1.1:alice", extractor(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	require.Equal(t, "192.168.1.1", extractor(req))
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("blocks requests over limit", func(t *testing.T) {
		cfg := httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3}
		h := httpx.RateLimitMiddleware(cfg, httpx.IPKeyExtractor)(okHandler)

		for i := range 3 {
			require.Equal(t, http.StatusOK, serveFrom(h, "192.168.1.1:1", "/").Code, "request %d", i+1)
		}
		rec := serveFrom(h, "192.168.1.1:1", "/")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
		require.Contains(t, rec.Body.String(), "rate_limit_exceeded")
	})

	t.Run("different keys are tracked separately", func(t *testing.T) {
		cfg := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		h := httpx.RateLimitByIP(cfg)(okHandler)

		require.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.1:1", "/").Code)
		require.Equal(t, http.StatusTooManyRequests, serveFrom(h, "10.0.0.1:1", "/").Code)
		require.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.2:1", "/").Code)
	})

	t.Run("separate middlewares do not share buckets", func(t *testing.T) {
		cfg := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		a := httpx.RateLimitByIP(cfg)(okHandler)
		b := httpx.RateLimitByIP(cfg)(okHandler)

		require.Equal(t, http.StatusOK, serveFrom(a, "10.0.0.1:1", "/").Code)
		require.Equal(t, http.StatusOK, serveFrom(b, "10.0.0.1:1", "/").Code)
	})

	t.Run("allows request when key extractor returns empty", func(t *testing.T) {
		cfg := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		h := httpx.RateLimitMiddleware(cfg, func(*http.Request) string { return "" })(okHandler)

		for range 3 {
			require.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.1:1", "/").Code)
		}
	})

	t.Run("ip and form field", func(t *testing.T) {
		cfg := httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
		h := httpx.RateLimitByIPAndFormField(cfg, "username")(okHandler)

		for range 2 {
			require.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.1:1", "/?username=alice").Code)
		}
		require.Equal(t, http.StatusTooManyRequests, serveFrom(h, "10.0.0.1:1", "/?username=alice").Code)
		require.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.1:1", "/?username=bob").Code)
	})
}

type countingLimiter struct {
	keys []string
	deny bool
}

func (c *countingLimiter) Allow(_ context.Context, key string, _ httpx.RateLimitConfig) httpx.Decision {
	c.keys = append(c.keys, key)
	return httpx.Decision{Allowed: !c.deny, RetryAfter: 42 * time.Second}
}

func TestRateLimitMiddleware_SharedLimiterScopesByRoute(t *testing.T) {
	backend := &countingLimiter{}
	mux := http.NewServeMux()
	mux.Handle("GET /v1/clock/status", httpx.RateLimitByIP(httpx.LenientLimit, httpx.WithLimiter(backend))(okHandler))

	require.Equal(t, http.StatusOK, serveFrom(mux, "10.0.0.9:1", "/v1/clock/status").Code)
	require.Equal(t, []string{"GET /v1/clock/status|10.0.0.9"}, backend.keys)

	backend.deny = true
	rec := serveFrom(mux, "10.0.0.9:1", "/v1/clock/status")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "42", rec.Header().Get("Retry-After"))
}

func TestMemoryLimiter_RetryAfter(t *testing.T) {
	m := httpx.NewMemoryLimiter()
	cfg := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}

	require.True(t, m.Allow(context.Background(), "k", cfg).Allowed)
	d := m.Allow(context.Background(), "k", cfg)
	require.False(t, d.Allowed)
	require.Greater(t, d.RetryAfter, 30*time.Second)
}

func TestNewRedisLimiter_Unreachable(t *testing.T) {
	_, err := httpx.NewRedisLimiter("127.0.0.1:1", "", 0, nil)
	require.Error(t, err)
}

func TestRateLimitProfiles(t *testing.T) {
	for name, cfg := range map[string]httpx.RateLimitConfig{
		"strict":   httpx.StrictLimit,
		"moderate": httpx.ModerateLimit,
		"lenient":  httpx.LenientLimit,
		"public":   httpx.PublicLimit,
	} {
		t.Run(name, func(t *testing.T) {
			require.Positive(t, cfg.RequestsPerWindow)
			require.Positive(t, cfg.Window)
			require.Positive(t, cfg.Burst)
		})
	}

	require.Less(t, httpx.StrictLimit.RequestsPerWindow, httpx.ModerateLimit.RequestsPerWindow)
	require.Less(t, httpx.ModerateLimit.RequestsPerWindow, httpx.LenientLimit.RequestsPerWindow)
	require.Less(t, httpx.LenientLimit.RequestsPerWindow, httpx.PublicLimit.RequestsPerWindow)
}

func TestParseRateLimitFromEnv(t *testing.T) {
	def := httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}

	t.Run("defaults", func(t *testing.T) {
		require.Equal(t, def, httpx.ParseRateLimitFromEnv("TEST", def))
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("RATELIMIT_TEST_REQUESTS", "200")
		t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "30")
		t.Setenv("RATELIMIT_TEST_BURST", "250")

		cfg := httpx.ParseRateLimitFromEnv("TEST", def)
		require.Equal(t, httpx.RateLimitConfig{RequestsPerWindow: 200, Window: 30 * time.Second, Burst: 250}, cfg)
	})

	t.Run("invalid values use defaults", func(t *testing.T) {
		t.Setenv("RATELIMIT_TEST_REQUESTS", "invalid")
		t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "-10")
		t.Setenv("RATELIMIT_TEST_BURST", "0")

		require.Equal(t, def, httpx.ParseRateLimitFromEnv("TEST", def))
	})
}

func BenchmarkRateLimitManyIPs(b *testing.B) {
	cfg := httpx.RateLimitConfig{RequestsPerWindow: 1000000, Window: time.Minute, Burst: 1000}
	h := httpx.RateLimitMiddleware(cfg, httpx.IPKeyExtractor)(okHandler)

	for i := 0; b.Loop(); i++ {
		serveFrom(h, fmt.Sprintf("192.168.%d.%d:12345", i%255, (i/255)%255), "/")
	}
}
