package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/vendora/api/controllers"
	"github.com/angelmondragon/vendora/api/middleware"
	"github.com/angelmondragon/vendora/internal/app"
	"github.com/angelmondragon/vendora/pkg/metrics"
)

// NewRouter mounts the read-only marketplace API over a wired App. gatherer
// backs /metrics and may be nil to leave the endpoint unmounted.
func NewRouter(a *app.App, gatherer prometheus.Gatherer, httpMetrics *metrics.HTTPMetrics) http.Handler {
	cfg, logg := a.Config, a.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	deps := map[string]controllers.Pinger{"database": a.DB}
	if a.Redis != nil {
		deps["redis"] = a.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(a.Catalog, logg))
			r.Get("/{productID}", controllers.GetProduct(a.Products, logg))
			r.Get("/{productID}/reviews", controllers.ListProductReviews(a.Catalog, logg))
			r.Get("/{productID}/reviews/summary", controllers.ProductReviewSummary(a.Reviews, logg))
		})
		r.Route("/shops", func(r chi.Router) {
			r.Get("/", controllers.ListShops(a.Catalog, logg))
			r.Get("/{shopID}", controllers.GetShop(a.Shops, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(a.Catalog, logg))
			r.Get("/{orderID}", controllers.GetOrder(a.Orders, logg))
			r.Get("/{orderID}/items", controllers.ListOrderItems(a.Catalog, logg))
		})
	})

	return r
}
