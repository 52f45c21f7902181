package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
)

// RateLimitMiddleware applies the request governor to every inbound request
// before it reaches any handler. Exempt paths (health probes) bypass the
// window entirely; rejected requests never reach the handler.
func (s *Server) RateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next(w, r)
			return
		}
		if _, ok := s.exempt[r.URL.Path]; ok {
			next(w, r)
			return
		}

		decision := s.limiter.Allow(clientKey(r))

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			s.metrics.RateLimitDecision("rejected")
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeError(w, http.StatusTooManyRequests, fmt.Sprintf(
				"Rate limit exceeded. Maximum %d requests per %.0f seconds.",
				decision.Limit, decision.Window.Seconds()))
			return
		}

		s.metrics.RateLimitDecision("admitted")
		next(w, r)
	}
}
