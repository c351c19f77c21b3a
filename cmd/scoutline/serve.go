package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/alecgard/scoutline/internal/api"
	"github.com/alecgard/scoutline/internal/auth"
	"github.com/alecgard/scoutline/internal/config"
	"github.com/alecgard/scoutline/internal/credential"
	"github.com/alecgard/scoutline/internal/metrics"
	"github.com/alecgard/scoutline/internal/password"
	"github.com/alecgard/scoutline/internal/ratelimit"
	"github.com/alecgard/scoutline/internal/session"
	"github.com/alecgard/scoutline/internal/token"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Scoutline API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		slog.Warn("auth.jwt_secret is not set; logins and session checks will fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	slog.Info("connected to database")

	m := metrics.New()
	m.RegisterDBPoolCollector(func() metrics.PoolStats {
		s := pool.Stat()
		return metrics.PoolStats{
			TotalConns:        s.TotalConns(),
			IdleConns:         s.IdleConns(),
			AcquiredConns:     s.AcquiredConns(),
			MaxConns:          s.MaxConns(),
			AcquireCount:      s.AcquireCount(),
			EmptyAcquireCount: s.EmptyAcquireCount(),
			AcquireDuration:   s.AcquireDuration(),
		}
	})

	store := credential.NewStore(pool)
	tokens := token.NewService(token.Options{Secret: cfg.Auth.JWTSecret, TTL: cfg.Auth.JWTExpiresIn})

	authService := auth.NewService(auth.Deps{
		Store:    store,
		Hasher:   password.NewHasher(cfg.Auth.BcryptCost),
		Tokens:   tokens,
		Recorder: m,
		Logger:   logger,
	})

	sessions := session.NewValidator(tokens).WithObserver(func(d session.Descriptor) {
		m.IncSessionValidation(d.Result())
	})

	limiter, limiterName, closeLimiter, err := newLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}
	defer closeLimiter()

	router := api.NewRouter(api.RouterDeps{
		Auth:           authService,
		Sessions:       sessions,
		Profiles:       store,
		DB:             pool,
		Metrics:        m,
		Limiter:        limiter,
		LimiterName:    limiterName,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Production:     cfg.IsProduction(),
		TrustProxy:     cfg.Server.TrustProxy,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-sigCh:
		slog.Info("shutting down")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}

// newLimiter picks the rate limit store. A nil store disables limiting.
func newLimiter(cfg config.RateLimitConfig) (ratelimit.Store, string, func(), error) {
	if cfg.Requests == 0 {
		slog.Info("rate limiting disabled")
		return nil, "", func() {}, nil
	}
	if cfg.RedisURL == "" {
		return ratelimit.New(cfg.Requests, cfg.Window), "memory", func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, "", nil, fmt.Errorf("parsing rate_limit.redis_url: %w", err)
	}
	client := redis.NewClient(opts)
	slog.Info("rate limit counters in redis", "addr", opts.Addr)
	return ratelimit.NewRedisLimiter(client, cfg.Requests, cfg.Window), "redis", func() { client.Close() }, nil
}
