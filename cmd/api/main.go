package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"shopseo/internal/audit"
	"shopseo/internal/batch"
	"shopseo/internal/http/handlers"
	httpapi "shopseo/internal/http/httpapi"
	"shopseo/internal/infra"
	"shopseo/internal/providers/seotext"
	"shopseo/internal/session"
	"shopseo/internal/shopify"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	// Postgres is optional: without it bulk runs are logged but not persisted.
	var recorder *audit.Recorder
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		recorder = audit.NewRecorder(infra.NewSQLRunner(pool, logger), logger)
	} else {
		logger.Warn().Msg("DATABASE_URL not set, bulk run history disabled")
		recorder = audit.NewRecorder(nil, logger)
	}

	catalog, err := shopify.NewClient(shopify.Options{
		ShopDomain:  cfg.ShopDomain,
		AccessToken: cfg.AdminToken,
		APIVersion:  cfg.ShopifyVersion,
		Logger:      &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build admin api client")
	}

	generator, err := seotext.New(cfg.TextProvider, seotext.AzureOptions{
		Endpoint:   cfg.AzureEndpoint,
		APIKey:     cfg.AzureAPIKey,
		APIVersion: cfg.AzureAPIVersion,
		Deployment: cfg.AzureDeployment,
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build text generator")
	}

	app := &handlers.App{
		Logger:          logger,
		Catalog:         catalog,
		Generator:       generator,
		Runner:          batch.New(cfg.BulkBatchSize, cfg.BulkDelay),
		Audit:           recorder,
		Sessions:        session.NewStore(),
		DefaultShop:     cfg.ShopDomain,
		ProductPageSize: cfg.ProductPageSize,
		ImagePageSize:   cfg.ImagePageSize,
	}

	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
