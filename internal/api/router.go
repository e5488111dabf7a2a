package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/keypulse-be/internal/api/handlers"
	"github.com/isdelr/keypulse-be/internal/auth"
	"github.com/isdelr/keypulse-be/internal/ratelimit"
	"github.com/isdelr/keypulse-be/internal/services"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// Options holds the dependencies of the HTTP layer.
type Options struct {
	AccountService services.AccountServiceProvider
	VaultService   services.VaultServiceProvider
	Tokens         auth.TokenValidator
	AuthLimiter    ratelimit.Limiter
	Health         handlers.Pinger
	CORSOrigins    []string
	// TrustProxy enables chi's RealIP, letting forwarding headers set the
	// client address used for rate limiting.
	TrustProxy bool
}

// NewRouter creates and configures a new Chi router.
func NewRouter(opts Options) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	if opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(opts.AccountService)
	vaultHandler := handlers.NewVaultHandler(opts.VaultService)
	healthHandler := handlers.NewHealthHandler(opts.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Get)

		r.Route("/auth", func(r chi.Router) {
			r.Use(ratelimit.Middleware(opts.AuthLimiter))
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/passwords", func(r chi.Router) {
			r.Use(auth.JWTMiddleware(opts.Tokens))
			r.Get("/", vaultHandler.List)
			r.Post("/", vaultHandler.Create)
			r.Put("/{id}", vaultHandler.Update)
			r.Delete("/{id}", vaultHandler.Delete)
		})
	})

	return r
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("HTTP request")
}
