package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-wishlist/internal/config"
	"go-wishlist/internal/handler"
	"go-wishlist/internal/middleware"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	friendHandler *handler.FriendHandler,
	presentHandler *handler.PresentHandler,
	docsHandler *handler.DocsHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", healthHandler.Health)
	r.Get("/openapi.yaml", docsHandler.OpenAPI)
	r.Get("/swagger", docsHandler.SwaggerUI)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/sign-up", authHandler.SignUp)
			auth.Post("/sign-in", authHandler.SignIn)
			auth.Post("/refresh", authHandler.Refresh)
		})

		api.Group(func(private chi.Router) {
			private.Use(authMiddleware.RequireAuth)

			private.Get("/users/me", userHandler.Me)
			private.Put("/users/me", userHandler.UpdateMe)
			private.Delete("/users/me", userHandler.DeleteMe)
			private.Put("/users/me/presents/{id}", userHandler.AddPresent)
			private.Delete("/users/me/presents/{id}", userHandler.RemovePresent)

			private.Get("/friends", friendHandler.List)
			private.Get("/friends/{id}", friendHandler.Get)
			private.Post("/friends/{id}", friendHandler.Add)
			private.Delete("/friends/{id}", friendHandler.Remove)

			private.Get("/presents", presentHandler.List)
			private.Post("/presents", presentHandler.Create)
			private.Get("/presents/{id}", presentHandler.Get)
			private.Put("/presents/{id}", presentHandler.Update)
			private.Delete("/presents/{id}", presentHandler.Delete)
		})
	})

	return r
}
