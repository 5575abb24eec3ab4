package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/profitools/listgen/internal/compose"
	"github.com/profitools/listgen/internal/config"
	"github.com/profitools/listgen/internal/fetcher"
	"github.com/profitools/listgen/internal/match"
	"github.com/profitools/listgen/internal/pipeline"
	"github.com/profitools/listgen/internal/scraper"
	"github.com/profitools/listgen/internal/sitemap"
	"github.com/profitools/listgen/internal/storage"
	"github.com/profitools/listgen/internal/translate"
	"github.com/profitools/listgen/internal/types"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "listgen",
		Short: "listgen — sitemap-driven marketplace listing generator",
		Long: `listgen resolves product codes against a storefront's XML sitemap,
scrapes each product detail page, composes a structured English description,
generates a Spanish marketplace rendering, and appends the results to a CSV.

Behavior is fully driven by environment variables (optionally via .env):
SITEMAP_URL (required), INPUT_CSV, OUTPUT_CSV, RECURSIVE, MAX_PRODUCTS,
DEBUG, FORCE_MODE, TRANSLATE_PROVIDER, OPENAI_API_KEY / GEMINI_API_KEY.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "listgen: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := setupLogger(os.Getenv("DEBUG") == "true")

	cfg, err := config.Load(logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	codes, err := storage.ReadCodes(cfg.InputCSV, logger)
	if err != nil {
		return err
	}
	if len(codes) == 0 {
		// Either the file was just created from the template or the user
		// has not filled it in yet. Not an error.
		logger.Info("no product codes to process", "input", cfg.InputCSV)
		return nil
	}

	httpClient := fetcher.New(cfg, logger)
	defer httpClient.Close()

	sink, err := storage.NewAppender(cfg.OutputCSV, logger)
	if err != nil {
		return err
	}
	defer sink.Close()

	runner := pipeline.New(
		cfg,
		httpClient,
		sitemap.NewWalker(httpClient, logger),
		match.New(cfg.Brand, logger),
		scraper.New(httpClient, cfg.Debug, logger),
		compose.New(cfg.Brand),
		translate.New(cfg.Translate, cfg.ListingFooter, logger),
		sink,
		logger,
	)

	logger.Info("starting run",
		"sitemap", cfg.SitemapURL,
		"codes", len(codes),
		"recursive", cfg.Recursive,
		"force_mode", cfg.ForceMode,
		"max_products", cfg.MaxProducts,
	)

	start := time.Now()
	summary, err := runner.Run(context.Background(), codes)
	if err != nil {
		return err
	}

	printSummary(summary, cfg.OutputCSV, time.Since(start))
	return nil
}

func printSummary(s *types.Summary, outputPath string, elapsed time.Duration) {
	fmt.Printf("\n========== PROCESSING SUMMARY ==========\n")
	fmt.Printf("Total products in sitemap(s): %d\n", s.TotalInSitemaps)
	fmt.Printf("Products matching criteria:   %d\n", s.Matched)
	fmt.Printf("Products processed:           %d\n", s.Processed)
	fmt.Printf("Successfully processed:       %d\n", s.Succeeded)
	fmt.Printf("Failed:                       %d\n", s.Failed)

	if failures := s.Failures(); len(failures) > 0 {
		fmt.Println("\nFailed products:")
		for _, r := range failures {
			fmt.Printf("  - %s\n", r)
		}
	}

	fmt.Printf("\nOutput written to %s (%s)\n", outputPath, elapsed.Round(time.Millisecond))
	fmt.Println("=======================================")
}

func setupLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
