package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/alecgard/scoutline/internal/identity"
	"github.com/alecgard/scoutline/internal/metrics"
	"github.com/alecgard/scoutline/internal/ratelimit"
	"github.com/alecgard/scoutline/internal/session"
)

// Pinger is implemented by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps holds all dependencies for the API router. Nil DB, Metrics and
// Limiter disable the health probe, the metrics endpoints and rate limiting.
type RouterDeps struct {
	Auth     AuthService
	Sessions *session.Validator
	Profiles ProfileStore
	DB       Pinger
	Metrics  *metrics.Metrics
	Limiter  ratelimit.Store
	// LimiterName labels rate limit rejections in metrics.
	LimiterName    string
	AllowedOrigins []string
	// Production marks the session cookie Secure.
	Production bool
	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP.
	TrustProxy bool
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	if deps.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(requestIDMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(secureHeaders)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(slogRequestLogger)

	r.Get("/health", healthHandler(deps.DB))

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.PrometheusHandler())
		r.Get("/metrics/summary", deps.Metrics.Handler())
	}

	if deps.Auth != nil {
		h := newAuthHandler(deps.Auth, deps.Sessions, deps.Production)

		r.Route("/auth", func(ar chi.Router) {
			ar.Use(corsMiddleware(deps.AllowedOrigins, "POST, OPTIONS"))
			if deps.Limiter != nil {
				var onReject []func()
				if deps.Metrics != nil {
					name := deps.LimiterName
					if name == "" {
						name = "memory"
					}
					onReject = append(onReject, func() { deps.Metrics.IncRateLimitRejection(name) })
				}
				ar.Use(ratelimit.Middleware(deps.Limiter, onReject...))
			}

			ar.Post("/register/player", h.RegisterPlayer)
			ar.Post("/register/coach", h.RegisterCoach)
			ar.Post("/login/player", h.Login(identity.RolePlayer))
			ar.Post("/login/coach", h.Login(identity.RoleCoach))
			ar.Post("/logout", h.Logout)
			if deps.Sessions != nil {
				ar.Get("/session", h.Session)
			}
		})
	}

	if deps.Sessions != nil && deps.Profiles != nil {
		p := newProfileHandler(deps.Profiles)

		r.Route("/api", func(ar chi.Router) {
			ar.Use(corsMiddleware(deps.AllowedOrigins, "GET, OPTIONS"))

			ar.With(session.Require(deps.Sessions, identity.RolePlayer, "id")).
				Get("/players/{id}", p.GetPlayer)
			ar.With(session.Require(deps.Sessions, identity.RoleCoach, "id")).
				Get("/coaches/{id}", p.GetCoach)
		})
	}

	return r
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				slog.Error("health check: database ping failed", "error", err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status":   "degraded",
					"database": "unreachable",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":   "ok",
			"database": "connected",
		})
	}
}
