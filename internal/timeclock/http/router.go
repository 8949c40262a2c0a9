package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/events"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/service"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/store"
	"github.com/aussiebroadwan/timeclock/pkg/httpx"
	"github.com/aussiebroadwan/timeclock/pkg/jwtx"
	"github.com/aussiebroadwan/timeclock/pkg/slogx"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/timeclock/api/timeclock" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	// Optional infrastructure. A nil Limiter gives every route its own
	// in-memory limiter; a nil Gatherer disables /metrics.
	Metrics    *httpx.Metrics
	Gatherer   prometheus.Gatherer
	Limiter    httpx.Limiter
	KioskToken string
	Hub        *events.Hub

	AccountService  *service.AccountService
	PasswordService *service.PasswordService
	ClockService    *service.ClockService
	SummaryService  *service.SummaryService
	ReportService   *service.ReportService
	BadgeService    *service.BadgeService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOAuth2()
	r.registerAccounts()
	r.registerClock()
	r.registerReports()
	r.registerBadge()
	r.registerKiosk()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Timeclock API
//	@version		0.1.0
//	@description	Employee time tracking: QR check-in/check-out, weekly hours and overtime, PDF reports.
//	@description
//	@description				Access tokens are EdDSA-signed JWTs and can be verified using the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/timeclock
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) rateLimitOpts() []httpx.RateLimitOption {
	opts := []httpx.RateLimitOption{httpx.WithRateLimitMetrics(r.Metrics)}
	if r.Limiter != nil {
		opts = append(opts, httpx.WithLimiter(r.Limiter))
	}
	return opts
}

// secured wraps h with bearer authentication, a scope check and a per-user
// rate limit.
func (r *Router) secured(h http.Handler, limit httpx.RateLimitConfig, scopes ...string) http.Handler {
	return httpx.Chain(h,
		r.Metrics.Middleware(),
		httpx.AuthnMiddleware(r.verifier), // verify JWT (iss/exp)
		httpx.RequireAnyScope(scopes...),  // enforce scopes
		httpx.RateLimitByUser(limit, r.rateLimitOpts()...),
	)
}

func (r *Router) registerOAuth2() {
	// POST /token - strict, keyed by IP and email so one account cannot be
	// brute forced from many addresses sharing a NAT
	tokenHandler := &TokenHandler{AccountService: r.AccountService}
	r.Mux.Handle("POST /v1/oauth2/token",
		httpx.Chain(tokenHandler,
			r.Metrics.Middleware(),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username", r.rateLimitOpts()...),
		),
	)

	revokeHandler := &RevokeHandler{AccountService: r.AccountService}
	r.Mux.Handle("POST /v1/oauth2/revoke",
		httpx.Chain(revokeHandler,
			r.Metrics.Middleware(),
			httpx.RateLimitByIP(httpx.ModerateLimit, r.rateLimitOpts()...),
		),
	)

	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			r.Metrics.Middleware(),
			httpx.RateLimitByIP(httpx.PublicLimit, r.rateLimitOpts()...),
		),
	)
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{AccountService: r.AccountService}
	p := &PasswordHandler{PasswordService: r.PasswordService}

	r.Mux.Handle("POST /v1/accounts",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			r.Metrics.Middleware(),
			httpx.RateLimitByIP(httpx.StrictLimit, r.rateLimitOpts()...),
		),
	)
	r.Mux.Handle("POST /v1/password/forgot",
		httpx.Chain(http.HandlerFunc(p.HandleForgot),
			r.Metrics.Middleware(),
			httpx.RateLimitByIP(httpx.StrictLimit, r.rateLimitOpts()...),
		),
	)
	r.Mux.Handle("POST /v1/password/reset",
		httpx.Chain(http.HandlerFunc(p.HandleReset),
			r.Metrics.Middleware(),
			httpx.RateLimitByIP(httpx.StrictLimit, r.rateLimitOpts()...),
		),
	)

	r.Mux.Handle("GET /v1/me", r.secured(http.HandlerFunc(h.HandleGetProfile), httpx.LenientLimit, domain.ScopeProfileRead))
	r.Mux.Handle("PATCH /v1/me", r.secured(http.HandlerFunc(h.HandleUpdateProfile), httpx.ModerateLimit, domain.ScopeProfileWrite))
	r.Mux.Handle("DELETE /v1/me", r.secured(http.HandlerFunc(h.HandleDelete), httpx.StrictLimit, domain.ScopeProfileWrite))
}

func (r *Router) registerClock() {
	h := &ClockHandler{ClockService: r.ClockService}
	s := &SummaryHandler{SummaryService: r.SummaryService}

	r.Mux.Handle("POST /v1/clock/scan", r.secured(http.HandlerFunc(h.HandleScan), httpx.ModerateLimit, domain.ScopeRecordsWrite))
	r.Mux.Handle("GET /v1/clock/status", r.secured(http.HandlerFunc(h.HandleStatus), httpx.LenientLimit, domain.ScopeRecordsRead))
	r.Mux.Handle("GET /v1/records", r.secured(http.HandlerFunc(h.HandleRecords), httpx.LenientLimit, domain.ScopeRecordsRead))
	r.Mux.Handle("GET /v1/summary/weekly", r.secured(s, httpx.LenientLimit, domain.ScopeRecordsRead))
}

func (r *Router) registerReports() {
	// PDF rendering is the most expensive request, keep it moderate
	h := &ReportHandler{ReportService: r.ReportService}
	r.Mux.Handle("GET /v1/reports", r.secured(h, httpx.ModerateLimit, domain.ScopeReportsRead))
}

func (r *Router) registerBadge() {
	h := &BadgeHandler{BadgeService: r.BadgeService}

	r.Mux.Handle("GET /v1/badge", r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit, domain.ScopeRecordsRead))
	r.Mux.Handle("POST /v1/badge/rotate", r.secured(http.HandlerFunc(h.HandleRotate), httpx.StrictLimit, domain.ScopeRecordsWrite))
}

func (r *Router) registerKiosk() {
	h := &KioskHandler{
		ClockService: r.ClockService,
		Hub:          r.Hub,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Kiosk displays authenticate with a token, not cookies.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	kiosk := httpx.KioskTokenMiddleware(r.KioskToken)

	r.Mux.Handle("POST /v1/kiosk/scan",
		httpx.Chain(http.HandlerFunc(h.HandleScan),
			r.Metrics.Middleware(),
			kiosk,
			httpx.RateLimitByIP(httpx.LenientLimit, r.rateLimitOpts()...),
		),
	)

	if r.Hub != nil {
		r.Mux.Handle("GET /v1/kiosk/events",
			httpx.Chain(http.HandlerFunc(h.HandleEvents),
				kiosk,
				httpx.RateLimitByIP(httpx.ModerateLimit, r.rateLimitOpts()...),
			),
		)
	}
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit, r.rateLimitOpts()...),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit, r.rateLimitOpts()...),
		),
	)

	if r.Gatherer != nil {
		r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.Gatherer, promhttp.HandlerOpts{}))
	}
}
