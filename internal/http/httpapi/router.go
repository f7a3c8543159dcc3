package httpapi

import (
	"net/http"
	"time"

	"shopseo/internal/http/handlers"
	"shopseo/internal/infra"
	"shopseo/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the admin API. Session-token auth is enforced on the shop
// routes only when API credentials are configured; in development without
// them the routes are open and act on the configured shop.
func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
	)

	r.Get("/v1/healthz", app.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if cfg.ShopifyAPIKey != "" && cfg.ShopifyAPISecret != "" {
			r.Use(middleware.SessionToken(cfg.ShopifyAPIKey, cfg.ShopifyAPISecret))
		}

		r.Route("/seo", func(r chi.Router) {
			r.Get("/products", app.SEOProducts)
			r.Post("/actions", app.SEOActions)
			r.Post("/session", app.SessionOp("seo"))
		})
		r.Route("/alttext", func(r chi.Router) {
			r.Get("/images", app.AltTextImages)
			r.Post("/actions", app.AltTextActions)
			r.Post("/session", app.SessionOp("alttext"))
		})
		r.Get("/runs", app.BulkRunHistory)
	})

	return r
}
