package ratelimit

import (
	"net"
	"net/http"

	"github.com/isdelr/keypulse-be/internal/api/respond"
	"github.com/rs/zerolog/log"
)

// Middleware rejects requests over the limiter's budget with 429. Clients are
// keyed by the host part of r.RemoteAddr: the socket peer, unless the router
// runs chi's RealIP for a trusted proxy. Limiter errors are logged and the
// request is let through.
func Middleware(l Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			allowed, err := l.Allow(r.Context(), key)
			if err != nil {
				log.Error().Err(err).Str("client", key).Msg("Rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				log.Warn().Str("client", key).Str("path", r.URL.Path).Msg("Rate limit exceeded")
				respond.Error(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
