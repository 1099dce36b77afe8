package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kislikjeka/cointrack/internal/infra/memory"
	"github.com/kislikjeka/cointrack/internal/infra/postgres"
	infraRedis "github.com/kislikjeka/cointrack/internal/infra/redis"
	"github.com/kislikjeka/cointrack/internal/ledger"
	"github.com/kislikjeka/cointrack/internal/module/admin"
	"github.com/kislikjeka/cointrack/internal/module/analytics"
	"github.com/kislikjeka/cointrack/internal/platform/user"
	"github.com/kislikjeka/cointrack/internal/transport/httpapi"
	"github.com/kislikjeka/cointrack/internal/transport/httpapi/handler"
	"github.com/kislikjeka/cointrack/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/cointrack/pkg/config"
	"github.com/kislikjeka/cointrack/pkg/logger"
)

// stores is the storage wiring selected by configuration
type stores struct {
	users      user.Repository
	profiles   ledger.ProfileStore
	broadcasts admin.BroadcastStore
	checks     map[string]handler.Pinger
	closers    []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStores connects the configured backend. Accounts live in PostgreSQL
// whenever DATABASE_URL is set, so a Redis profile backend still keeps
// users across restarts.
func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	s := &stores{checks: map[string]handler.Pinger{}}

	var db *postgres.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		s.checks["postgres"] = handler.PingerFunc(db.Health)
		s.users = postgres.NewUserRepository(db.Pool)
		log.Info("Database connection established")
	} else {
		s.users = memory.NewUserRepository()
		log.Warn("DATABASE_URL not configured, accounts are kept in memory")
	}

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		s.profiles = postgres.NewProfileStore(db.Pool)
		s.broadcasts = postgres.NewBroadcastRepository(db.Pool)

	case config.BackendRedis:
		client, err := infraRedis.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			s.close()
			return nil, err
		}
		s.closers = append(s.closers, func() { client.Close() })
		s.checks["redis"] = handler.PingerFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		s.profiles = infraRedis.NewProfileStoreWithTTL(client, cfg.RedisProfileTTL, log)
		s.broadcasts = infraRedis.NewBroadcastStore(client)
		log.Info("Redis connection established", "profile_ttl", cfg.RedisProfileTTL)

	default:
		s.profiles = memory.NewProfileStore()
		s.broadcasts = memory.NewBroadcastStore()
		log.Warn("Using in-memory profile store, data is lost on restart")
	}

	return s, nil
}

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewDefault(cfg.Env)
	log.Info("Starting CoinTrack API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"store_backend", cfg.StoreBackend,
	)

	loc, err := cfg.Location()
	if err != nil {
		log.Error("Invalid timezone", "error", err)
		os.Exit(1)
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to open stores", "error", err)
		os.Exit(1)
	}
	defer st.close()

	// Services
	userSvc := user.NewService(st.users, log)
	ledgerSvc := ledger.NewService(st.profiles, log)
	analyticsSvc := analytics.NewService(ledgerSvc, cfg.IsPersistent(), loc, log)
	adminSvc := admin.NewService(userSvc, st.profiles, st.broadcasts, log)
	jwtSvc := middleware.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)

	if cfg.AdminUsername != "" {
		if _, err := userSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Error("Failed to create admin account", "error", err)
			os.Exit(1)
		}
		log.Info("Admin account ready", "username", cfg.AdminUsername)
	}

	r := httpapi.NewRouter(httpapi.Config{
		Logger:           log,
		AllowedOrigins:   cfg.AllowedOrigins,
		RateLimitRPS:     cfg.RateLimitRPS,
		RateLimitBurst:   cfg.RateLimitBurst,
		AuthHandler:      handler.NewAuthHandler(userSvc, jwtSvc, ledgerSvc, log),
		LedgerHandler:    handler.NewLedgerHandler(ledgerSvc, log),
		DashboardHandler: handler.NewDashboardHandler(analyticsSvc, log),
		AdminHandler:     handler.NewAdminHandler(adminSvc, log),
		HealthHandler:    handler.NewHealthHandler(st.checks),
		JWTMiddleware:    middleware.JWTMiddleware(jwtSvc),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
