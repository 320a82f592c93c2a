package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/velaria-store/velaria-backend/api/routes"
	"github.com/velaria-store/velaria-backend/internal/discounts"
	"github.com/velaria-store/velaria-backend/internal/gateways"
	"github.com/velaria-store/velaria-backend/internal/orders"
	"github.com/velaria-store/velaria-backend/pkg/config"
	"github.com/velaria-store/velaria-backend/pkg/db"
	"github.com/velaria-store/velaria-backend/pkg/logger"
	"github.com/velaria-store/velaria-backend/pkg/metrics"
	"github.com/velaria-store/velaria-backend/pkg/migrate"
	"github.com/velaria-store/velaria-backend/pkg/outbox"
	pkgredis "github.com/velaria-store/velaria-backend/pkg/redis"
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
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	orderMetrics := metrics.NewOrderMetrics(prometheus.DefaultRegisterer)
	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	ordersService, err := orders.NewService(
		orders.NewRepository(dbClient.DB()),
		dbClient,
		outboxService,
		redisClient,
		cfg.Dashboard.StatsCacheTTL,
		orderMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	discountsRepo := discounts.NewRepository(dbClient.DB())
	resolver, err := discounts.NewResolver(discountsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create exclusivity resolver", err)
		os.Exit(1)
	}
	discountsService, err := discounts.NewService(discountsRepo, resolver, dbClient, outboxService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create discounts service", err)
		os.Exit(1)
	}

	gatewaysService, err := gateways.NewService(gateways.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create gateways service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			httpMetrics,
			ordersService,
			discountsService,
			gatewaysService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
