package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workforce-api/internal/config"
	"workforce-api/internal/handler"
	"workforce-api/internal/middleware"
)

func New(
	cfg *config.Config,
	log *slog.Logger,
	auth *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	sellerHandler *handler.SellerHandler,
	healthHandler *handler.HealthHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM, cfg.TrustedProxies)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging(log))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", healthHandler.Check)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Post("/login", authHandler.Login)
		api.Post("/refresh", authHandler.Refresh)
		api.With(auth.Require()).Delete("/logout", authHandler.Logout)
		api.With(auth.Require(auth.Admin)).Post("/logout", authHandler.Logout)

		api.Route("/auth/token", func(tokens chi.Router) {
			tokens.With(auth.Require()).Get("/valid", authHandler.TokenValid)
			tokens.With(auth.Require(auth.Admin)).Get("/list", authHandler.ListTokens)
			tokens.With(auth.Require(auth.Admin)).Delete("/expired", authHandler.PruneExpired)
			tokens.With(auth.Require(auth.Blocked)).Put("/{id}", authHandler.ModifyToken)
		})

		api.Route("/user", func(users chi.Router) {
			users.Use(auth.Require(auth.Admin))
			users.Post("/", userHandler.Create)
			users.Get("/", userHandler.List)
			users.Get("/{id}", userHandler.Get)
		})

		api.Route("/seller", func(sellers chi.Router) {
			sellers.With(auth.Require(auth.Manager)).Post("/", sellerHandler.Create)
			sellers.With(auth.Require(auth.Admin)).Get("/{id}", sellerHandler.Get)
			sellers.With(auth.Require(auth.Manager)).Delete("/{id}", sellerHandler.Delete)
		})
	})

	return r
}
