package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/fashly/internal/event"
	"github.com/utafrali/fashly/internal/service"
	"github.com/utafrali/fashly/pkg/health"
	"github.com/utafrali/fashly/pkg/middleware"
)

const serviceName = "storefront"

// catalogMaxAge is how long clients may cache catalog responses, in seconds.
const catalogMaxAge = 300

// Services are the application services the router exposes.
type Services struct {
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Wishlist *service.WishlistService
	Checkout *service.CheckoutService
	Hub      *event.Hub
}

// Options tune the cross-cutting middleware.
type Options struct {
	CORS       middleware.CORSConfig
	PprofCIDRs []string
	// RateLimit, when set, is applied to every API route.
	RateLimit func(http.Handler) http.Handler
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(svc Services, healthHandler *health.Handler, logger *slog.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(opts.CORS))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, opts.PprofCIDRs, logger)

	catalogHandler := NewCatalogHandler(svc.Catalog, logger)
	cartHandler := NewCartHandler(svc.Cart, logger)
	wishlistHandler := NewWishlistHandler(svc.Wishlist, logger)
	checkoutHandler := NewCheckoutHandler(svc.Checkout, logger)
	eventsHandler := NewEventsHandler(svc.Hub, logger)

	r.Group(func(r chi.Router) {
		if opts.RateLimit != nil {
			r.Use(opts.RateLimit)
		}

		// The event stream is long-lived and must not be buffered or cut
		// off, so it sits outside the compression and timeout group.
		r.With(middleware.Session(), middleware.RequestLogger(logger), middleware.NoStore).
			Get("/api/v1/events", eventsHandler.Stream)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Compress(5))
			r.Use(chimw.Timeout(30 * time.Second))
			r.Use(ContentTypeJSON)

			r.Route("/api/v1/products", func(r chi.Router) {
				r.Use(middleware.CacheControl(catalogMaxAge))
				r.Get("/", catalogHandler.ListProducts)
				r.Get("/featured", catalogHandler.FeaturedProducts)
				r.Get("/{id}", catalogHandler.GetProduct)
				r.Get("/{id}/related", catalogHandler.RelatedProducts)
			})

			r.Route("/api/v1/categories", func(r chi.Router) {
				r.Use(middleware.CacheControl(catalogMaxAge))
				r.Get("/", catalogHandler.ListCategories)
				r.Get("/{id}", catalogHandler.GetCategory)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Session())
				r.Use(middleware.RequestLogger(logger))
				r.Use(middleware.NoStore)

				r.Route("/api/v1/cart", func(r chi.Router) {
					r.Get("/", cartHandler.GetCart)
					r.Delete("/", cartHandler.ClearCart)

					r.Post("/items", cartHandler.AddItem)
					r.Put("/items/{productId}/{color}/{size}", cartHandler.UpdateItemQuantity)
					r.Delete("/items/{productId}/{color}/{size}", cartHandler.RemoveItem)
				})

				r.Route("/api/v1/wishlist", func(r chi.Router) {
					r.Get("/", wishlistHandler.GetWishlist)
					r.Delete("/", wishlistHandler.ClearWishlist)

					r.Post("/items", wishlistHandler.AddItem)
					r.Get("/items/{productId}", wishlistHandler.Contains)
					r.Delete("/items/{productId}", wishlistHandler.RemoveItem)
				})

				r.Route("/api/v1/checkout", func(r chi.Router) {
					r.Get("/summary", checkoutHandler.Summary)
					r.Post("/", checkoutHandler.PlaceOrder)
				})
			})
		})
	})

	return r
}
