package httpx

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/timeclock/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
)

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

// Metrics holds the HTTP collectors of one service.
type Metrics struct {
	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	rateLimitHits  *prometheus.CounterVec
}

// NewMetrics registers HTTP collectors under namespace with reg. Registering
// twice (tests building several routers) reuses the existing collectors.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		rateLimitHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Number of rate-limited responses",
		}, []string{"route"}),
	}

	m.requestTotal = RegisterOrExisting(reg, m.requestTotal)
	m.requestLatency = RegisterOrExisting(reg, m.requestLatency)
	m.rateLimitHits = RegisterOrExisting(reg, m.rateLimitHits)
	return m
}

// RegisterOrExisting registers c, returning the already registered
// collector of the same type when one exists.
func RegisterOrExisting[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

// Middleware records request count and latency per route pattern. Mount it
// on a route, after the mux has matched, so r.Pattern is populated.
func (m *Metrics) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			rw := slogx.NewResponseWriter(w)
			next.ServeHTTP(rw, r)

			labels := prometheus.Labels{
				"method": r.Method,
				"route":  routeLabel(r),
				"status": strconv.Itoa(rw.Status()),
			}
			m.requestTotal.With(labels).Inc()
			m.requestLatency.With(labels).Observe(time.Since(start).Seconds())
		})
	}
}

func (m *Metrics) rateLimited(route string) {
	if m == nil {
		return
	}
	m.rateLimitHits.WithLabelValues(route).Inc()
}
