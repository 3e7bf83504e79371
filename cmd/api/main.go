package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/daghlis/gallery-backend/api"
	"github.com/daghlis/gallery-backend/api/controllers"
	"github.com/daghlis/gallery-backend/api/routes"
	"github.com/daghlis/gallery-backend/internal/auth"
	"github.com/daghlis/gallery-backend/internal/cart"
	"github.com/daghlis/gallery-backend/internal/catalog"
	"github.com/daghlis/gallery-backend/internal/checkout"
	"github.com/daghlis/gallery-backend/internal/contact"
	"github.com/daghlis/gallery-backend/internal/dashboard"
	"github.com/daghlis/gallery-backend/internal/gateway"
	"github.com/daghlis/gallery-backend/internal/orders"
	"github.com/daghlis/gallery-backend/internal/pricing"
	"github.com/daghlis/gallery-backend/internal/storefront"
	"github.com/daghlis/gallery-backend/pkg/auth/session"
	"github.com/daghlis/gallery-backend/pkg/config"
	"github.com/daghlis/gallery-backend/pkg/db"
	"github.com/daghlis/gallery-backend/pkg/enums"
	"github.com/daghlis/gallery-backend/pkg/env"
	"github.com/daghlis/gallery-backend/pkg/instance"
	"github.com/daghlis/gallery-backend/pkg/logger"
	"github.com/daghlis/gallery-backend/pkg/metrics"
	"github.com/daghlis/gallery-backend/pkg/migrate"
	"github.com/daghlis/gallery-backend/pkg/money"
	"github.com/daghlis/gallery-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Admin:          cfg.Admin,
		JWTConfig:      cfg.JWT,
		SessionManager: sessionManager,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	unit, err := money.ParseCurrency(cfg.Storefront.Currency)
	if err != nil {
		logg.Error(ctx, "invalid storefront currency", err)
		os.Exit(1)
	}
	defaultLanguage, err := enums.ParseLanguage(cfg.Storefront.DefaultLanguage)
	if err != nil {
		logg.Error(ctx, "invalid default language", err)
		os.Exit(1)
	}

	var seed []catalog.Item
	if cfg.FeatureFlags.SeedCatalog {
		seed = catalog.DefaultCollection()
	}
	catalogStore, err := catalog.NewStore(seed...)
	if err != nil {
		logg.Error(ctx, "failed to seed catalog", err)
		os.Exit(1)
	}

	calculator, err := pricing.NewCalculator(pricing.ConfigFromEnv(cfg.Pricing))
	if err != nil {
		logg.Error(ctx, "failed to build pricing calculator", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(promRegistry)
	httpMetrics := metrics.NewHTTPMetrics(promRegistry)

	gatewayClient, err := gateway.NewClient(cfg.Gateway, logg, checkoutMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create gateway client", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}
	contactService, err := contact.NewService(contact.NewRepository(dbClient.DB()), defaultLanguage, logg)
	if err != nil {
		logg.Error(ctx, "failed to create contact service", err)
		os.Exit(1)
	}
	dashboardService, err := dashboard.NewService(catalogStore, ordersService, unit)
	if err != nil {
		logg.Error(ctx, "failed to create dashboard service", err)
		os.Exit(1)
	}

	registry, err := storefront.NewRegistry(storefront.Options{
		IdleTTL:       cfg.Session.IdleTTL,
		SweepInterval: cfg.Session.SweepInterval,
		Gauge:         checkoutMetrics,
		Logger:        logg,
		NewFlow: func(sessionID string, c *cart.Engine) (*checkout.Flow, error) {
			return checkout.NewFlow(checkout.Deps{
				SessionID: sessionID,
				Cart:      c,
				Pricing:   calculator,
				Gateway:   gatewayClient,
				Wallet:    gatewayClient,
				Recorder:  ordersService,
				Metrics:   checkoutMetrics,
				Logger:    logg,
				Timeout:   cfg.Gateway.Timeout,
				Currency:  unit.String(),
				Language:  defaultLanguage,
			})
		},
	})
	if err != nil {
		logg.Error(ctx, "failed to create session registry", err)
		os.Exit(1)
	}
	registry.Start(ctx)
	defer registry.Stop()

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.ID(),
	})

	handler := routes.NewRouter(routes.Dependencies{
		Config:         cfg,
		Logger:         logg,
		Display:        controllers.Display{DefaultLanguage: defaultLanguage, Currency: unit},
		DB:             dbClient,
		Redis:          redisClient,
		RateLimiter:    redisClient,
		AccessSessions: sessionManager,
		Catalog:        catalogStore,
		Sessions:       registry,
		Gateway:        gatewayClient,
		Auth:           authService,
		Orders:         ordersService,
		Contact:        contactService,
		Dashboard:      dashboardService,
		HTTPMetrics:    httpMetrics,
		Gatherer:       promRegistry,
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logg.Error(ctx, "failed to bind api listener", err)
		os.Exit(1)
	}
	logg.Info(ctx, "starting api server")

	if err := api.Serve(ctx, api.NewServer(addr, handler), ln, logg, api.DefaultDrainTimeout); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}
