// SPDX-License-Identifier: GPL-2.0-or-later

package dispatch

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// AbuseGuard throttles per-remote-address request rate for whatever handler
// its Middleware wraps. cmd/server does not mount it; the per-address cap
// in effect there is middleware.RateLimit.
type AbuseGuard struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	burst    int
}

// NewAbuseGuard returns a guard allowing r requests per second, per
// remote address, with the given burst.
func NewAbuseGuard(r rate.Limit, burst int) *AbuseGuard {
	return &AbuseGuard{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		burst:    burst,
	}
}

func (g *AbuseGuard) limiterFor(key string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.limiters[key]
	if !ok {
		l = rate.NewLimiter(g.r, g.burst)
		g.limiters[key] = l
	}
	return l
}

// Allow reports whether the request identified by r's remote address may
// proceed.
func (g *AbuseGuard) Allow(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return g.limiterFor(host).Allow()
}

// Middleware wraps next, rejecting requests the guard denies with 429
// before next is invoked.
func (g *AbuseGuard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Allow(r) {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
