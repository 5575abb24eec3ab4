// Package pipeline runs the end-to-end flow: codes → sitemap walk → match →
// scrape → compose → translate → CSV row. Execution is strictly sequential,
// one request in flight at a time, matching the storefront's rate-limiting
// expectations.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/profitools/listgen/internal/compose"
	"github.com/profitools/listgen/internal/config"
	"github.com/profitools/listgen/internal/match"
	"github.com/profitools/listgen/internal/sitemap"
	"github.com/profitools/listgen/internal/types"
)

// Walker traverses the sitemap hierarchy.
type Walker interface {
	Walk(ctx context.Context, rootURL string, recursive bool) (*sitemap.WalkResult, error)
}

// Scraper extracts product fields from a detail page.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*types.ProductFields, error)
}

// Translator produces the Spanish rendering.
type Translator interface {
	Enabled() bool
	Translate(ctx context.Context, rec *types.ProductRecord, english string) (string, error)
}

// RowSink appends output rows.
type RowSink interface {
	Append(row types.OutputRow) error
}

// Runner executes one full pipeline run.
type Runner struct {
	cfg        *config.Config
	fetcher    sitemap.Fetcher
	walker     Walker
	matcher    *match.Matcher
	scraper    Scraper
	composer   *compose.Composer
	translator Translator
	sink       RowSink
	logger     *slog.Logger
}

// New wires a Runner from its collaborators.
func New(
	cfg *config.Config,
	f sitemap.Fetcher,
	walker Walker,
	matcher *match.Matcher,
	scraper Scraper,
	composer *compose.Composer,
	translator Translator,
	sink RowSink,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		cfg:        cfg,
		fetcher:    f,
		walker:     walker,
		matcher:    matcher,
		scraper:    scraper,
		composer:   composer,
		translator: translator,
		sink:       sink,
		logger:     logger.With("component", "pipeline"),
	}
}

// Run processes codes end to end and returns the run summary. Per-product
// and per-sitemap failures are contained and reported in the summary; only
// a root sitemap failure or an output write failure aborts the run.
func (r *Runner) Run(ctx context.Context, codes []string) (*types.Summary, error) {
	summary := &types.Summary{}

	r.sanityCheck(ctx, codes)

	walk, err := r.walker.Walk(ctx, r.cfg.SitemapURL, r.cfg.Recursive)
	if err != nil {
		return nil, err
	}
	summary.TotalInSitemaps = walk.Total()
	r.logger.Info("sitemap walk complete",
		"leaves", len(walk.Leaves),
		"sub_sitemaps", len(walk.CountBySitemap),
	)

	records, missing := r.matcher.Match(codes, walk.Leaves)
	if len(missing) > 0 && r.cfg.ForceMode {
		r.logger.Info("force mode: adding stub records for missing codes", "count", len(missing))
		for _, code := range missing {
			records = append(records, match.Stub(code, r.cfg.SitemapURL))
		}
	}
	summary.Matched = len(records)
	r.logger.Info("codes matched",
		"requested", len(codes),
		"matched", len(records)-boolCount(r.cfg.ForceMode, len(missing)),
		"missing", len(missing),
	)

	if r.cfg.MaxProducts > 0 && len(records) > r.cfg.MaxProducts {
		r.logger.Info("limiting run", "max_products", r.cfg.MaxProducts, "matched", len(records))
		records = records[:r.cfg.MaxProducts]
	}

	if !r.translator.Enabled() {
		r.logger.Warn("translation disabled, Spanish descriptions will be empty")
	}

	for i, rec := range records {
		if i > 0 && r.cfg.RequestDelay > 0 {
			time.Sleep(r.cfg.RequestDelay)
		}
		r.logger.Info("processing product",
			"index", i+1,
			"total", len(records),
			"code", rec.Code,
			"url", rec.URL,
		)

		result, err := r.processOne(ctx, rec)
		if err != nil {
			// Only output write failures propagate here.
			return summary, err
		}
		summary.Add(result)
	}

	return summary, nil
}

// processOne runs one product through scrape → compose → translate → write.
// The returned error is fatal; everything recoverable lands in the Result.
func (r *Runner) processOne(ctx context.Context, rec *types.ProductRecord) (types.Result, error) {
	fields, err := r.scraper.Scrape(ctx, rec.URL)
	if err != nil {
		r.logger.Warn("product page failed", "code", rec.Code, "url", rec.URL, "error", err)
		if rec.NotFound {
			// Force-mode stub: emit the row anyway, empty name and image
			// signal "not found".
			row := types.OutputRow{Code: rec.Code, URL: rec.URL}
			if werr := r.sink.Append(row); werr != nil {
				return types.Result{}, werr
			}
		}
		return types.Result{Code: rec.Code, URL: rec.URL, Stage: types.StageScrape, Err: err}, nil
	}

	rec.Fields = *fields
	if fields.Name != "" {
		rec.Name = fields.Name
	}
	if fields.ImageURL != "" {
		rec.ImageURL = fields.ImageURL
	}

	english := r.composer.Compose(rec)

	var spanish string
	var translateErr error
	if r.translator.Enabled() {
		spanish, translateErr = r.translator.Translate(ctx, rec, english)
		if translateErr != nil {
			r.logger.Warn("translation failed, writing row with empty description",
				"code", rec.Code, "error", translateErr)
			spanish = ""
		}
	}

	row := types.OutputRow{
		Code:               rec.Code,
		Name:               rec.Name,
		ImageURL:           rec.ImageURL,
		URL:                rec.URL,
		SpanishDescription: spanish,
	}
	if err := r.sink.Append(row); err != nil {
		return types.Result{}, err
	}

	if translateErr != nil {
		return types.Result{Code: rec.Code, URL: rec.URL, Stage: types.StageTranslate, Err: translateErr}, nil
	}
	return types.Result{Code: rec.Code, URL: rec.URL, Stage: types.StageDone}, nil
}

// sanityCheck greps the requested codes in the raw XML of the first
// leaf-bearing sitemap and logs how many appear verbatim. Purely diagnostic;
// failures here never affect the run.
func (r *Runner) sanityCheck(ctx context.Context, codes []string) {
	if len(codes) == 0 {
		return
	}

	body, err := r.fetcher.Get(ctx, r.cfg.SitemapURL)
	if err != nil {
		r.logger.Debug("sanity check skipped", "error", err)
		return
	}

	// If the root is an index, grep the first child instead.
	if strings.Contains(string(body), "<sitemapindex") {
		nodes, err := sitemap.Fetch(ctx, r.fetcher, r.cfg.SitemapURL, r.logger)
		if err != nil || len(nodes) == 0 {
			r.logger.Debug("sanity check skipped, no sub-sitemaps", "error", err)
			return
		}
		body, err = r.fetcher.Get(ctx, nodes[0].URL)
		if err != nil {
			r.logger.Debug("sanity check skipped", "error", err)
			return
		}
	}

	xml := string(body)
	found := 0
	var notFound []string
	for _, code := range codes {
		if strings.Contains(xml, code) {
			found++
		} else {
			notFound = append(notFound, code)
		}
	}
	r.logger.Info("sanity check", "found", found, "requested", len(codes))
	if len(notFound) > 0 && len(notFound) <= 10 {
		r.logger.Info("codes absent from first sitemap", "codes", notFound)
	}
}

func boolCount(b bool, n int) int {
	if b {
		return n
	}
	return 0
}
