package httpx

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/timeclock/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the rate limiting parameters.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// Rate limit profiles. Each can be overridden through
// RATELIMIT_{STRICT,MODERATE,LENIENT,PUBLIC}_{REQUESTS,WINDOW_SEC,BURST}.
var (
	// StrictLimit guards credential endpoints against brute force.
	StrictLimit = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	// ModerateLimit for authenticated writes such as scans.
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20}

	LenientLimit = RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100}
	PublicLimit  = RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}
)

func init() {
	StrictLimit = ParseRateLimitFromEnv("STRICT", StrictLimit)
	ModerateLimit = ParseRateLimitFromEnv("MODERATE", ModerateLimit)
	LenientLimit = ParseRateLimitFromEnv("LENIENT", LenientLimit)
	PublicLimit = ParseRateLimitFromEnv("PUBLIC", PublicLimit)
}

// ParseRateLimitFromEnv reads RATELIMIT_{prefix}_{REQUESTS,WINDOW_SEC,BURST}
// over the defaults. Invalid or non-positive values are ignored.
func ParseRateLimitFromEnv(prefix string, defaultConfig RateLimitConfig) RateLimitConfig {
	config := defaultConfig

	if n, ok := positiveEnvInt("RATELIMIT_" + prefix + "_REQUESTS"); ok {
		config.RequestsPerWindow = n
	}
	if n, ok := positiveEnvInt("RATELIMIT_" + prefix + "_WINDOW_SEC"); ok {
		config.Window = time.Duration(n) * time.Second
	}
	if n, ok := positiveEnvInt("RATELIMIT_" + prefix + "_BURST"); ok {
		config.Burst = n
	}
	return config
}

func positiveEnvInt(key string) (int, bool) {
	val := os.Getenv(key)
	if val == "" {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Decision is the outcome of a rate limit check.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter is a rate limit backend. Implementations must be safe for
// concurrent use and should fail open when their storage is unavailable.
type Limiter interface {
	Allow(ctx context.Context, key string, cfg RateLimitConfig) Decision
}

// KeyExtractor derives the rate limit bucket for a request (IP, user ID...).
type KeyExtractor func(*http.Request) string

// IPKeyExtractor extracts the client IP, honouring X-Forwarded-For and
// X-Real-IP for proxied requests.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func UserIDKeyExtractor(r *http.Request) string {
	return UserIDFromContext(r.Context())
}

// CompositeKeyExtractor joins the non-empty results of extractors with sep.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extractor := range extractors {
			if key := extractor(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// FormFieldKeyExtractor extracts a form or query parameter, e.g. the
// username of a password grant.
func FormFieldKeyExtractor(fieldName string) KeyExtractor {
	return func(r *http.Request) string {
		if err := r.ParseForm(); err == nil {
			return r.FormValue(fieldName)
		}
		return ""
	}
}

// MemoryLimiter is an in-process token bucket backend.
type MemoryLimiter struct {
	limiters    sync.Map // map[string]*rate.Limiter
	mu          sync.Mutex
	lastCleanup time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{lastCleanup: time.Now()}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string, cfg RateLimitConfig) Decision {
	limiter := m.get(key, cfg)
	if limiter.Allow() {
		return Decision{Allowed: true}
	}

	// Peek at when the next token lands without consuming it.
	res := limiter.Reserve()
	delay := res.Delay()
	res.Cancel()
	return Decision{Allowed: false, RetryAfter: delay}
}

func (m *MemoryLimiter) get(key string, cfg RateLimitConfig) *rate.Limiter {
	if l, ok := m.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}

	perSecond := float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()
	l, _ := m.limiters.LoadOrStore(key, rate.NewLimiter(rate.Limit(perSecond), cfg.Burst))
	m.maybeCleanup()
	return l.(*rate.Limiter)
}

// maybeCleanup drops idle limiters (full buckets) at most every 5 minutes.
func (m *MemoryLimiter) maybeCleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if time.Since(m.lastCleanup) < 5*time.Minute {
		return
	}
	m.lastCleanup = time.Now()

	m.limiters.Range(func(key, value any) bool {
		l := value.(*rate.Limiter)
		if l.Tokens() >= float64(l.Burst()) {
			m.limiters.Delete(key)
		}
		return true
	})
}

type rateLimitOptions struct {
	limiter Limiter
	metrics *Metrics
}

// RateLimitOption customises RateLimitMiddleware.
type RateLimitOption func(*rateLimitOptions)

// WithLimiter shares a backend (e.g. Redis) across middlewares. Buckets
// are namespaced by the matched route pattern.
func WithLimiter(l Limiter) RateLimitOption {
	return func(o *rateLimitOptions) { o.limiter = l }
}

// WithRateLimitMetrics counts rejected requests.
func WithRateLimitMetrics(m *Metrics) RateLimitOption {
	return func(o *rateLimitOptions) { o.metrics = m }
}

// RateLimitMiddleware rejects requests over config with 429. Without
// WithLimiter every middleware gets its own in-memory backend.
func RateLimitMiddleware(config RateLimitConfig, keyExtractor KeyExtractor, opts ...RateLimitOption) Middleware {
	o := rateLimitOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.limiter == nil {
		o.limiter = NewMemoryLimiter()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			key := keyExtractor(r)
			if key == "" {
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			route := routeLabel(r)
			decision := o.limiter.Allow(ctx, route+"|"+key, config)
			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := max(int(decision.RetryAfter.Seconds()), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", config.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", config.Window.String())

			log.Warn("rate limit exceeded", "key", key, "route", route, "retry_after", retryAfter)
			o.metrics.rateLimited(route)

			WriteJSON(w, http.StatusTooManyRequests, map[string]string{
				"error":             "rate_limit_exceeded",
				"error_description": "Too many requests. Please try again later.",
			})
		})
	}
}

func RateLimitByIP(config RateLimitConfig, opts ...RateLimitOption) Middleware {
	return RateLimitMiddleware(config, IPKeyExtractor, opts...)
}

// RateLimitByUser limits by authenticated user, falling back to IP.
func RateLimitByUser(config RateLimitConfig, opts ...RateLimitOption) Middleware {
	return RateLimitMiddleware(config, CompositeKeyExtractor(":",
		UserIDKeyExtractor,
		IPKeyExtractor,
	), opts...)
}

// RateLimitByIPAndFormField limits by IP plus a form field, such as login
// attempts per IP and username.
func RateLimitByIPAndFormField(config RateLimitConfig, fieldName string, opts ...RateLimitOption) Middleware {
	return RateLimitMiddleware(config, CompositeKeyExtractor(":",
		IPKeyExtractor,
		FormFieldKeyExtractor(fieldName),
	), opts...)
}

func routeLabel(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return "unmatched"
}
