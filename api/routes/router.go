package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/olist-dashboard/api/controllers"
	analyticscontrollers "github.com/angelmondragon/olist-dashboard/api/controllers/analytics"
	"github.com/angelmondragon/olist-dashboard/api/middleware"
	"github.com/angelmondragon/olist-dashboard/internal/analytics"
	"github.com/angelmondragon/olist-dashboard/pkg/config"
	"github.com/angelmondragon/olist-dashboard/pkg/logger"
	"github.com/angelmondragon/olist-dashboard/pkg/metrics"
	"github.com/angelmondragon/olist-dashboard/pkg/redis"
)

// NewRouter wires the dashboard API. redisClient is nil when no result cache
// is configured; gatherer may be nil to skip the /metrics endpoint.
// httpMetrics may be nil.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	tables analytics.TableProvider,
	redisClient redis.Pinger,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	dashboardService analytics.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, tables, redisClient))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/dashboard", func(r chi.Router) {
		r.Get("/options", analyticscontrollers.DashboardOptions(dashboardService, logg))
		r.Get("/demand", analyticscontrollers.DashboardDemand(dashboardService, logg))
		r.Get("/gmv", analyticscontrollers.DashboardGMV(dashboardService, logg))
		r.Get("/share", analyticscontrollers.DashboardShare(dashboardService, logg))
		r.Get("/top-cities", analyticscontrollers.DashboardTopCities(dashboardService, logg))
		r.Get("/values/{dimension}", analyticscontrollers.DashboardValues(dashboardService, logg))
		r.Get("/summary", analyticscontrollers.DashboardSummary(dashboardService, logg))
	})

	return r
}
