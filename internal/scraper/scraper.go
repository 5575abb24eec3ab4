// Package scraper extracts product fields from detail pages. Selectors cover
// the common storefront themes; optional fields degrade to empty containers.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/profitools/listgen/internal/types"
)

// Fetcher is the HTTP dependency; satisfied by fetcher.Client.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

var descriptionSelectors = []string{
	".product-single__description",
	".product__description",
	".product-description",
	".description",
	"[itemprop=\"description\"]",
	".product-detail",
}

var specSelectors = []string{
	".product-single__specs-table",
	".specs-table",
	".product-specs",
	".specifications",
	"table.specs",
	"[itemprop=\"additionalProperty\"]",
}

var setItemSelectors = []string{
	".product-single__set-items",
	".set-items",
	".product-set",
	".package-contents",
	".included-items",
}

var nameSelectors = []string{
	"h1.product-single__title",
	"h1.product-title",
	"h1[itemprop=\"name\"]",
	"h1",
}

// applicationHints mark description text that mentions use cases.
var applicationHints = []string{
	"ideal for", "perfect for", "used for", "designed for", "suitable for", "applications",
}

// Scraper fetches and parses product detail pages.
type Scraper struct {
	fetcher Fetcher
	logger  *slog.Logger
	debug   bool
}

// New creates a Scraper. With debug enabled the raw HTML of each page is
// dumped to debug_html.html for selector troubleshooting.
func New(f Fetcher, debug bool, logger *slog.Logger) *Scraper {
	return &Scraper{fetcher: f, debug: debug, logger: logger.With("component", "scraper")}
}

// Scrape fetches url and extracts name, image, description, specifications,
// set contents and application hints. A page without a product name returns
// a *types.ScrapeError; everything else resolves to empty containers.
func (s *Scraper) Scrape(ctx context.Context, url string) (*types.ProductFields, error) {
	body, err := s.fetcher.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	if s.debug {
		if err := os.WriteFile("debug_html.html", body, 0o644); err != nil {
			s.logger.Warn("debug HTML dump failed", "error", err)
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &types.ParseError{URL: url, Err: err}
	}

	fields := &types.ProductFields{
		Specs:        []types.SpecEntry{},
		SetItems:     []string{},
		Applications: []string{},
	}

	fields.Name = s.extractName(doc)
	fields.ImageURL = s.extractImage(doc)
	fields.Description = s.extractDescription(doc, fields)
	s.extractSpecs(doc, fields)
	s.extractSetItems(doc, fields)
	s.applyJSONLD(doc, fields)

	// Definition lists often carry specs on themes without a spec table.
	if len(fields.Specs) == 0 {
		s.extractDefinitionLists(doc, fields)
	}

	// Last resort for pages with no recognizable description block.
	if fields.Description == "" && len(fields.Specs) == 0 {
		doc.Find(".product-info, .product-details, .product-information, .product-data").EachWithBreak(
			func(_ int, sel *goquery.Selection) bool {
				if text := normalize(sel.Text()); text != "" {
					fields.Description = text
					return false
				}
				return true
			})
	}

	if fields.Name == "" {
		return nil, &types.ScrapeError{URL: url, Field: "name", Err: types.ErrNameMissing}
	}

	s.logger.Debug("page scraped",
		"url", url,
		"specs", len(fields.Specs),
		"set_items", len(fields.SetItems),
		"applications", len(fields.Applications),
		"has_description", fields.Description != "",
	)

	return fields, nil
}

func (s *Scraper) extractName(doc *goquery.Document) string {
	for _, sel := range nameSelectors {
		if name := normalize(doc.Find(sel).First().Text()); name != "" {
			return name
		}
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && og != "" {
		return normalize(og)
	}
	return normalize(doc.Find("title").First().Text())
}

func (s *Scraper) extractImage(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && og != "" {
		return og
	}
	var src string
	doc.Find(".product-single__photo img, img[itemprop=\"image\"], .product-image img").EachWithBreak(
		func(_ int, sel *goquery.Selection) bool {
			if v, ok := sel.Attr("src"); ok && v != "" {
				src = v
				return false
			}
			return true
		})
	return src
}

func (s *Scraper) extractDescription(doc *goquery.Document, fields *types.ProductFields) string {
	for _, sel := range descriptionSelectors {
		block := doc.Find(sel).First()
		if block.Length() == 0 {
			continue
		}
		text := normalize(block.Text())
		if text == "" {
			continue
		}
		lower := strings.ToLower(text)
		for _, hint := range applicationHints {
			if strings.Contains(lower, hint) {
				fields.Applications = append(fields.Applications, text)
				break
			}
		}
		return text
	}
	return ""
}

func (s *Scraper) extractSpecs(doc *goquery.Document, fields *types.ProductFields) {
	for _, sel := range specSelectors {
		tables := doc.Find(sel)
		if tables.Length() == 0 {
			continue
		}
		tables.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 2 {
				return
			}
			key := normalize(cells.Eq(0).Text())
			value := normalize(cells.Eq(1).Text())
			if key == "" {
				return
			}
			fields.Specs = append(fields.Specs, types.SpecEntry{Key: key, Value: value})

			lower := strings.ToLower(key)
			for _, hint := range []string{"application", "use", "usage", "suitable"} {
				if strings.Contains(lower, hint) {
					fields.Applications = append(fields.Applications, key+": "+value)
					break
				}
			}
		})
		return
	}
}

func (s *Scraper) extractDefinitionLists(doc *goquery.Document, fields *types.ProductFields) {
	doc.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		keys := dl.Find("dt")
		values := dl.Find("dd")
		n := keys.Length()
		if values.Length() < n {
			n = values.Length()
		}
		for i := 0; i < n; i++ {
			key := normalize(keys.Eq(i).Text())
			if key == "" {
				continue
			}
			fields.Specs = append(fields.Specs, types.SpecEntry{
				Key:   key,
				Value: normalize(values.Eq(i).Text()),
			})
		}
	})
}

func (s *Scraper) extractSetItems(doc *goquery.Document, fields *types.ProductFields) {
	for _, sel := range setItemSelectors {
		block := doc.Find(sel).First()
		if block.Length() == 0 {
			continue
		}
		block.Find(".set-item, .item, li").Each(func(_ int, item *goquery.Selection) {
			name := item.Find(".set-item__name, .item-name, .name").First()
			text := normalize(name.Text())
			if text == "" {
				text = normalize(item.Text())
			}
			if text != "" {
				fields.SetItems = append(fields.SetItems, text)
			}
		})
		return
	}
}

// applyJSONLD fills gaps from schema.org product metadata.
func (s *Scraper) applyJSONLD(doc *goquery.Document, fields *types.ProductFields) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var data map[string]any
		if err := json.Unmarshal([]byte(sel.Text()), &data); err != nil {
			s.logger.Debug("JSON-LD block skipped", "error", err)
			return
		}
		if desc, ok := data["description"].(string); ok && fields.Description == "" {
			fields.Description = normalize(desc)
		}
		if fields.Name == "" {
			if name, ok := data["name"].(string); ok {
				fields.Name = normalize(name)
			}
		}
		props, ok := data["additionalProperty"].([]any)
		if !ok {
			return
		}
		for _, p := range props {
			prop, ok := p.(map[string]any)
			if !ok {
				continue
			}
			name, _ := prop["name"].(string)
			value, _ := prop["value"].(string)
			if name != "" && fields.Spec(name) == "" {
				fields.Specs = append(fields.Specs, types.SpecEntry{Key: name, Value: value})
			}
		}
	})
}

// normalize collapses all runs of whitespace to single spaces.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
