package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velaria-store/velaria-backend/api/controllers"
	"github.com/velaria-store/velaria-backend/api/middleware"
	"github.com/velaria-store/velaria-backend/internal/discounts"
	"github.com/velaria-store/velaria-backend/internal/gateways"
	"github.com/velaria-store/velaria-backend/internal/orders"
	"github.com/velaria-store/velaria-backend/pkg/config"
	"github.com/velaria-store/velaria-backend/pkg/db"
	"github.com/velaria-store/velaria-backend/pkg/enums"
	"github.com/velaria-store/velaria-backend/pkg/logger"
	"github.com/velaria-store/velaria-backend/pkg/metrics"
	pkgredis "github.com/velaria-store/velaria-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	httpMetrics *metrics.HTTPMetrics,
	ordersSvc orders.Service,
	discountsSvc discounts.Service,
	gatewaysSvc gateways.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/coupons", func(r chi.Router) {
			r.Post("/validate", controllers.CouponValidate(discountsSvc, logg))
			r.Post("/apply", controllers.CouponApply(discountsSvc, logg))
		})

		r.Route("/gateways", func(r chi.Router) {
			r.Post("/{gatewayID}/quote", controllers.GatewayQuote(gatewaysSvc, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, string(enums.StaffRoleAdmin), string(enums.StaffRoleOps)))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.SalesList(ordersSvc, logg))
				r.Patch("/{orderID}/status", controllers.OrderStatusUpdate(ordersSvc, logg))
				r.Post("/{orderID}/reject", controllers.OrderReject(ordersSvc, logg))
				r.Get("/{orderID}/transitions", controllers.OrderTransitions(ordersSvc, logg))
			})

			r.Get("/dashboard/stats", controllers.DashboardStats(ordersSvc, logg))
		})
	})

	return r
}
