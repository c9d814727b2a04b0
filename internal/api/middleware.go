package api

import (
	"errors"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/terra-clan/travel-catalog/internal/ratelimit"
)

// rateLimitMiddleware applies the fixed-window limiter per client address
// and route. When the limiter backend fails the request is let through.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)

		res, err := s.limiter.Allow(r.Context(), key)
		switch {
		case errors.Is(err, ratelimit.ErrLimited):
			retry := int(math.Ceil(time.Until(res.ResetAt).Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(max(retry, 1)))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", "0")
			slog.Warn("rate limit exceeded", "key", key, "remote_addr", r.RemoteAddr)
			respondError(w, http.StatusTooManyRequests, "rate_limited", "too many submissions, try again later")
			return
		case err != nil:
			slog.Error("rate limiter unavailable", "error", err)
		default:
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		}

		next.ServeHTTP(w, r)
	})
}

// clientKey identifies the caller and form. RemoteAddr is already rewritten
// by middleware.RealIP when a proxy header is present.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return host + ":" + r.URL.Path
}
