package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kislikjeka/cointrack/internal/transport/httpapi/handler"
	"github.com/kislikjeka/cointrack/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/cointrack/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger           *logger.Logger
	AllowedOrigins   []string
	RateLimitRPS     float64
	RateLimitBurst   int
	AuthHandler      *handler.AuthHandler
	LedgerHandler    *handler.LedgerHandler
	DashboardHandler *handler.DashboardHandler
	AdminHandler     *handler.AdminHandler
	HealthHandler    *handler.HealthHandler
	JWTMiddleware    func(http.Handler) http.Handler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	// Health and metrics (no authentication required)
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public)
		if cfg.AuthHandler != nil {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
		}

		if cfg.JWTMiddleware == nil {
			return
		}

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(cfg.JWTMiddleware)

			if cfg.AuthHandler != nil {
				r.Get("/me", cfg.AuthHandler.Me)
			}

			if cfg.DashboardHandler != nil {
				r.Get("/data", cfg.DashboardHandler.GetData)
			}

			if cfg.LedgerHandler != nil {
				h := cfg.LedgerHandler

				r.Get("/history", h.History)

				r.Post("/transactions", h.AddTransaction)
				r.Put("/transactions/{id}", h.UpdateTransaction)
				r.Delete("/transactions/{id}", h.DeleteTransaction)

				r.Patch("/settings", h.UpdateSettings)
				r.Post("/quick-actions", h.AddQuickAction)
				r.Delete("/quick-actions/{index}", h.DeleteQuickAction)

				r.Get("/export", h.Export)
				r.Post("/import", h.Import)

				r.Get("/profiles", h.ListProfiles)
				r.Post("/profiles", h.CreateProfile)
				r.Post("/profiles/switch", h.SwitchProfile)
			}

			if cfg.AdminHandler != nil {
				r.Get("/broadcast", cfg.AdminHandler.GetBroadcast)

				r.Route("/admin", func(r chi.Router) {
					r.Use(middleware.AdminOnly)

					r.Get("/stats", cfg.AdminHandler.GetStats)
					r.Get("/users", cfg.AdminHandler.GetUsers)
					r.Delete("/users/{id}", cfg.AdminHandler.DeleteUser)
					r.Post("/broadcast", cfg.AdminHandler.SetBroadcast)
				})
			}
		})
	})

	return r
}
