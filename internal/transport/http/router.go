package http

import (
	"context"
	"net/http"

	"github.com/astro-auth-api/internal/config"
	"github.com/astro-auth-api/internal/transport/http/handler"
	appmiddleware "github.com/astro-auth-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds the
// lifetime of background helpers such as the rate limiter sweep.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.Auth)

	// 5 requests/second, burst of 10, on the unauthenticated code endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(deps.Auth)
	detailsH := handler.NewDetailsHandler(deps.Profile)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", healthH.Health)
		r.Get("/health-check/{action}", healthH.Ping)

		r.With(sensitiveRL.Limit).Post("/auth/send-otp", authH.SendOTP)
		r.With(sensitiveRL.Limit).Post("/auth/verify-otp", authH.VerifyOTP)

		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/auth/me", authH.Me)
			r.Get("/auth/verify-token", authH.VerifyToken)
			r.Post("/auth/logout", authH.Logout)

			r.Post("/auth/register-details", detailsH.Register)
			r.Get("/auth/user-details", detailsH.Get)
			r.Put("/auth/user-details", detailsH.Update)
		})

		if deps.DevCodes != nil && !cfg.IsProduction() {
			devH := handler.NewDevOTPHandler(deps.DevCodes)
			r.Get("/dev/otp", devH.Get)
		}
	})

	return r
}
