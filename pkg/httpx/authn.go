package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/timeclock/pkg/cryptox"
	"github.com/aussiebroadwan/timeclock/pkg/jwtx"
	"github.com/aussiebroadwan/timeclock/pkg/slogx"
)

// AuthnMiddleware requires a valid bearer access token and stores its claims
// in the request context.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := bearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				slogx.FromContext(ctx).Warn("jwt verify failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = slogx.With(contextWithAuth(ctx, claims), "user_id", claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// KioskTokenMiddleware admits requests carrying the shared kiosk secret
// either as a bearer token or, for browser websockets, a token query param.
// An empty secret disables the kiosk surface entirely.
func KioskTokenMiddleware(secret string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.NotFound(w, r)
				return
			}

			got, ok := bearerToken(r)
			if !ok {
				got = r.URL.Query().Get("token")
			}
			if got == "" || !cryptox.EqualTokens(got, secret) {
				slogx.FromContext(r.Context()).Warn("kiosk token rejected")
				writeBearerError(w, "invalid kiosk token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	return raw, raw != ""
}

// RFC 6750 error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
