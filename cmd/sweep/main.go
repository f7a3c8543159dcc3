package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"shopseo/internal/audit"
	"shopseo/internal/batch"
	"shopseo/internal/domain/seo"
	"shopseo/internal/infra"
	"shopseo/internal/providers/seotext"
	"shopseo/internal/shopify"
)

// sweep walks the whole catalog once and regenerates SEO text for every unit:
// meta titles and descriptions for products, alt text for images. It is the
// command-line counterpart of the bulkGenerateAndUpdateAll admin action,
// meant for cron or a first-time backfill.
func main() {
	area := flag.String("area", "all", "what to sweep: seo, alttext or all")
	dryRun := flag.Bool("dry-run", false, "generate but do not write back")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if *area != "seo" && *area != "alttext" && *area != "all" {
		logger.Fatal().Str("area", *area).Msg("unknown area")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

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

	var recorder *audit.Recorder
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		recorder = audit.NewRecorder(infra.NewSQLRunner(pool, logger), logger)
	} else {
		recorder = audit.NewRecorder(nil, logger)
	}

	runner := batch.New(cfg.BulkBatchSize, cfg.BulkDelay)
	s := &sweeper{
		catalog:   catalog,
		generator: generator,
		runner:    runner,
		recorder:  recorder,
		logger:    logger,
		shop:      cfg.ShopDomain,
		dryRun:    *dryRun,
	}

	failed := 0
	if *area == "seo" || *area == "all" {
		failed += s.sweepProducts(ctx, cfg.ProductPageSize)
	}
	if *area == "alttext" || *area == "all" {
		failed += s.sweepImages(ctx, cfg.ImagePageSize)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

type sweeper struct {
	catalog   *shopify.Client
	generator seotext.Generator
	runner    *batch.Runner
	recorder  *audit.Recorder
	logger    infra.Logger
	shop      string
	dryRun    bool
}

func (s *sweeper) sweepProducts(ctx context.Context, pageSize int) int {
	products, err := s.catalog.FetchAllProducts(ctx, pageSize)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load products")
		return 1
	}
	units := make([]seo.Unit, len(products))
	for i, p := range products {
		units[i] = p
	}

	op := batch.GenerateThenUpdate(
		func(ctx context.Context, u seo.Unit) seo.Outcome {
			return s.generator.Metadata(ctx, u.(seo.ProductUnit))
		},
		func(ctx context.Context, u seo.Unit, text seo.GeneratedText) seo.Outcome {
			if s.dryRun {
				s.logger.Info().Str("product", string(u.Key())).
					Str("meta_title", text.MetaTitle).Msg("dry run, skipping update")
				return seo.Success(text)
			}
			p := u.(seo.ProductUnit)
			title, desc := text.MetaTitle, text.MetaDescription
			p.EditedMetaTitle = &title
			p.EditedMetaDesc = &desc
			return s.catalog.UpdateProductSEO(ctx, p)
		},
	)

	return s.run(ctx, "seo", units, op)
}

func (s *sweeper) sweepImages(ctx context.Context, pageSize int) int {
	images, err := s.catalog.FetchAllImages(ctx, pageSize)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load images")
		return 1
	}
	units := make([]seo.Unit, len(images))
	for i, img := range images {
		units[i] = img
	}

	op := batch.GenerateThenUpdate(
		func(ctx context.Context, u seo.Unit) seo.Outcome {
			return s.generator.AltText(ctx, u.(seo.ImageUnit))
		},
		func(ctx context.Context, u seo.Unit, text seo.GeneratedText) seo.Outcome {
			if s.dryRun {
				s.logger.Info().Str("image", string(u.Key())).
					Str("alt_text", text.AltText).Msg("dry run, skipping update")
				return seo.Success(text)
			}
			img := u.(seo.ImageUnit)
			alt := text.AltText
			img.EditedAltText = &alt
			return s.catalog.UpdateImageAlt(ctx, img)
		},
	)

	return s.run(ctx, "alttext", units, op)
}

func (s *sweeper) run(ctx context.Context, area string, units []seo.Unit, op batch.Op) int {
	started := time.Now()
	res := s.runner.Run(ctx, units, op)
	failures := res.Failures()

	mode := "generate_update"
	if s.dryRun {
		mode = "generate"
	}
	s.recorder.Record(ctx, audit.BulkRun{
		Shop:      s.shop,
		Area:      area,
		Mode:      mode,
		Total:     len(res.Order),
		Succeeded: res.SuccessCount(),
		Failed:    len(failures),
		Duration:  time.Since(started),
	})

	for _, msg := range res.FailureSummary() {
		s.logger.Error().Str("area", area).Msg(msg)
	}
	return len(failures)
}
