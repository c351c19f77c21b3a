package ratelimit

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
)

// Message is the body text of a 429 response.
const Message = "Too many requests. Please try again later."

// ClientIP returns the host part of r.RemoteAddr. Run chi's RealIP
// middleware first when the service sits behind a proxy.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware returns an HTTP middleware that limits requests per client IP
// using store.
//
// Rate-limit headers are set on every response:
//
//	X-RateLimit-Limit     maximum requests allowed in the window
//	X-RateLimit-Remaining requests left in the current window
//	X-RateLimit-Reset     Unix timestamp when the allowance is restored
//
// When the limit is exceeded the middleware responds with HTTP 429 and a
// Retry-After header. Store errors let the request through.
func Middleware(store Store, onReject ...func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			d, err := store.Take(r.Context(), ClientIP(r))
			if err != nil {
				slog.Error("rate limit check failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

			if !d.Allowed {
				for _, fn := range onReject {
					fn()
				}
				retry := int(math.Ceil(d.RetryAfter.Seconds()))
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"success": false,
					"message": Message,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
