// SPDX-License-Identifier: AGPL-3.0-or-later

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// ChiConfig configures the two outer-edge Chi-ecosystem middlewares this
// server wears ahead of the protocol dispatch tables: CORS (so a
// browser-hosted DAAP/RSP client, not just native desktop and mobile
// clients, can reach this server) and a coarse per-remote-address request
// rate cap. Both are production middleware from the go-chi ecosystem
// rather than hand-rolled, matching the rest of this package.
type ChiConfig struct {
	CORSAllowedOrigins []string
	RateLimitRequests  int
	RateLimitWindow    time.Duration
}

// CORS returns a chi-compatible CORS middleware via go-chi/cors. Empty
// AllowedOrigins (the default) permits no cross-origin requests; native
// clients that don't send an Origin header are unaffected either way.
func CORS(cfg ChiConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           86400,
	})
}

// RateLimit returns a chi-compatible per-remote-address rate limiter via
// go-chi/httprate. This is the whole-surface rate cap that cmd/server
// mounts. internal/dispatch's AbuseGuard is a separate per-address limiter
// and is not mounted by cmd/server.
func RateLimit(cfg ChiConfig) func(http.Handler) http.Handler {
	if cfg.RateLimitRequests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow)
}
