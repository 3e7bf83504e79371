package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daghlis/gallery-backend/api/controllers"
	"github.com/daghlis/gallery-backend/api/middleware"
	"github.com/daghlis/gallery-backend/internal/auth"
	"github.com/daghlis/gallery-backend/internal/catalog"
	"github.com/daghlis/gallery-backend/internal/checkout"
	"github.com/daghlis/gallery-backend/internal/contact"
	"github.com/daghlis/gallery-backend/internal/dashboard"
	"github.com/daghlis/gallery-backend/internal/gateway"
	"github.com/daghlis/gallery-backend/internal/orders"
	"github.com/daghlis/gallery-backend/internal/storefront"
	pkgAuth "github.com/daghlis/gallery-backend/pkg/auth"
	"github.com/daghlis/gallery-backend/pkg/auth/session"
	"github.com/daghlis/gallery-backend/pkg/config"
	"github.com/daghlis/gallery-backend/pkg/enums"
	"github.com/daghlis/gallery-backend/pkg/logger"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type sessionRegistry interface {
	Resolve(id string) (*storefront.Session, bool)
	StartCheckout(s *storefront.Session) (*checkout.Flow, error)
}

type orderLookup interface {
	GetOrder(ctx context.Context, id string) (*gateway.OrderRecord, error)
}

type dashboardSummarizer interface {
	Summary(ctx context.Context, lang enums.Language) (*dashboard.Summary, error)
}

type httpObserver interface {
	Observe(method, route string, status int, elapsed time.Duration)
}

// Dependencies is everything the router hands to controllers and middleware.
// Nil pingers are skipped by the readiness probe; a nil RateLimiter turns
// throttling off.
type Dependencies struct {
	Config  *config.Config
	Logger  *logger.Logger
	Display controllers.Display

	DB    controllers.Pinger
	Redis controllers.Pinger

	RateLimiter    rateLimiter
	AccessSessions session.AccessSessionChecker

	Catalog   *catalog.Store
	Sessions  sessionRegistry
	Gateway   orderLookup
	Auth      auth.Service
	Orders    orders.Service
	Contact   contact.Service
	Dashboard dashboardSummarizer

	HTTPMetrics httpObserver
	Gatherer    prometheus.Gatherer
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		"username",
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	contactPolicy := middleware.NewRateLimitPolicy(
		"contact",
		cfg.AuthRateLimit.ContactWindow,
		cfg.AuthRateLimit.ContactIPLimit,
		"", 0,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"db":    deps.DB,
			"redis": deps.Redis,
		}, logg))
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", controllers.CatalogList(deps.Catalog, deps.Display, logg))
		r.Get("/catalog/{itemId}", controllers.CatalogGet(deps.Catalog, deps.Display, logg))
		r.Get("/orders/{orderId}", controllers.OrderStatus(deps.Gateway, logg))
		r.With(middleware.RateLimit(contactPolicy, deps.RateLimiter, logg)).
			Post("/contact", controllers.ContactSubmit(deps.Contact, deps.Display, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.StorefrontSession(deps.Sessions, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(deps.Display, logg))
				r.Post("/items", controllers.CartAddItem(deps.Catalog, deps.Display, logg))
				r.Put("/items/{itemId}", controllers.CartSetQuantity(deps.Display, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.Display, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", controllers.CheckoutStart(deps.Sessions, logg))
				r.Get("/", controllers.CheckoutGet(logg))
				r.Delete("/", controllers.CheckoutCancel(logg))
				r.Put("/customer", controllers.CheckoutSetCustomer(logg))
				r.Put("/payment", controllers.CheckoutSelectPayment(logg))
				r.Post("/next", controllers.CheckoutNext(logg))
				r.Post("/back", controllers.CheckoutBack(logg))
				r.Get("/review", controllers.CheckoutReview(deps.Display, logg))
				r.Post("/submit", controllers.CheckoutSubmit(logg))
				r.Post("/wallet/return", controllers.CheckoutWalletReturn(logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(loginPolicy, deps.RateLimiter, logg)).
				Post("/login", controllers.AdminAuthLogin(deps.Auth, logg))
			r.Post("/logout", controllers.AdminAuthLogout(deps.Auth, logg))
			r.Post("/refresh", controllers.AdminAuthRefresh(deps.Auth, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.AccessSessions, logg))
			r.Use(middleware.RequireRole(logg, pkgAuth.RoleAdmin))

			r.Route("/artworks", func(r chi.Router) {
				r.Get("/", controllers.AdminArtworkList(deps.Catalog, logg))
				r.Post("/", controllers.AdminArtworkCreate(deps.Catalog, logg))
				r.Put("/{itemId}", controllers.AdminArtworkUpdate(deps.Catalog, logg))
				r.Delete("/{itemId}", controllers.AdminArtworkDelete(deps.Catalog, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminOrderList(deps.Orders, logg))
				r.Get("/{orderId}", controllers.AdminOrderGet(deps.Orders, logg))
				r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(deps.Orders, logg))
				r.Delete("/{orderId}", controllers.AdminOrderDelete(deps.Orders, logg))
			})

			r.Get("/contact-messages", controllers.AdminContactList(deps.Contact, logg))
			r.Get("/dashboard", controllers.AdminDashboard(deps.Dashboard, deps.Display, logg))
		})
	})

	return r
}
