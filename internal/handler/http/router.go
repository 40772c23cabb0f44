package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/swagshop/internal/service"
	"github.com/utafrali/swagshop/pkg/health"
	"github.com/utafrali/swagshop/pkg/middleware"
)

// RouterConfig holds the cross-cutting settings for NewRouter.
type RouterConfig struct {
	ServiceName       string
	CORS              middleware.CORSConfig
	PprofAllowedCIDRs []string

	// RateLimiter throttles the API routes per client IP. Nil disables it.
	RateLimiter *middleware.RateLimiter
}

// NewRouter creates a chi router with all swag-shop routes registered.
func NewRouter(
	productService *service.ProductService,
	wishListService *service.WishListService,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.CORS(cfg.CORS))

	// Operational endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	productHandler := NewProductHandler(productService, logger)
	wishListHandler := NewWishListHandler(wishListService, logger)

	r.Group(func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Middleware())
		}

		r.Post("/product", productHandler.CreateProduct)
		r.Get("/product", productHandler.ListProducts)

		r.Get("/wishlist", wishListHandler.ListWishLists)
		r.Post("/wishlist", wishListHandler.CreateWishList)
		r.Put("/wishlist/product/add", wishListHandler.AddProduct)
	})

	return r
}
