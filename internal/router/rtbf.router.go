package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"rtbf-service/internal/handler"
	"rtbf-service/internal/middleware"
	"rtbf-service/pkg/cache"
)

func SetupRoutes(
	r chi.Router,
	h *handler.RTBFHandler,
	auth *middleware.AuthMiddleware,
	c *cache.Cache,
) chi.Router {
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimiter(c, 60, time.Minute, time.Minute, "global_rtbf"))

	r.Route("/api/v1", func(api chi.Router) {
		// ---------------- Public ----------------
		api.Group(func(pub chi.Router) {
			pub.Get("/rtbf/health", h.Health)
		})

		// ---------------- Authenticated ----------------
		// Deletion is never a hot path; keep the per-user limit tight.
		api.Group(func(g chi.Router) {
			g.Use(auth.Require())
			g.Use(middleware.RateLimiter(c, 5, time.Minute, 5*time.Minute, "rtbf"))
			g.Post("/rtbf/analyze", h.HandleAnalyze)
			g.Post("/rtbf/execute", h.HandleExecute)
		})
	})

	return r
}
