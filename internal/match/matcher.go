// Package match resolves product codes to their canonical product URLs using
// the aggregated sitemap leaves.
package match

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/profitools/listgen/internal/sitemap"
	"github.com/profitools/listgen/internal/types"
)

// Matcher binds product codes to sitemap leaves.
type Matcher struct {
	brand  string
	logger *slog.Logger
}

// New creates a Matcher. brand enables the image-caption rule for sitemaps
// that carry "<brand> <code> <name>" captions; empty disables it.
func New(brand string, logger *slog.Logger) *Matcher {
	return &Matcher{brand: brand, logger: logger.With("component", "matcher")}
}

// Match resolves each code against the leaves in aggregation order,
// first match wins. Matched codes come back as ProductRecords in input
// order; codes with no matching leaf are returned in missing.
//
// A leaf matches a code when the code case-insensitively equals the final
// path segment of the URL, or the trailing dash-separated token of that
// segment (URLs like .../products/tool-name-12345), or when the leaf's
// image caption names the code after the brand.
func (m *Matcher) Match(codes []string, leaves []sitemap.Node) (records []*types.ProductRecord, missing []string) {
	for _, code := range codes {
		rec := m.matchOne(code, leaves)
		if rec == nil {
			m.logger.Warn("no sitemap match for code", "code", code)
			missing = append(missing, code)
			continue
		}
		records = append(records, rec)
	}
	return records, missing
}

func (m *Matcher) matchOne(code string, leaves []sitemap.Node) *types.ProductRecord {
	for _, leaf := range leaves {
		if !m.leafMatches(code, leaf) {
			continue
		}
		rec := &types.ProductRecord{
			Code:     code,
			URL:      leaf.URL,
			ImageURL: leaf.ImageURL,
		}
		if _, name, ok := m.splitCaption(leaf.Caption); ok {
			rec.Name = name
		}
		return rec
	}
	return nil
}

func (m *Matcher) leafMatches(code string, leaf sitemap.Node) bool {
	segment := finalSegment(leaf.URL)
	if strings.EqualFold(segment, code) {
		return true
	}
	if i := strings.LastIndex(segment, "-"); i >= 0 && strings.EqualFold(segment[i+1:], code) {
		return true
	}
	if capCode, _, ok := m.splitCaption(leaf.Caption); ok && strings.EqualFold(capCode, code) {
		return true
	}
	return false
}

// splitCaption parses "<brand> <code> <name>" captions.
func (m *Matcher) splitCaption(caption string) (code, name string, ok bool) {
	if m.brand == "" || caption == "" {
		return "", "", false
	}
	marker := m.brand + " "
	i := strings.Index(caption, marker)
	if i < 0 {
		return "", "", false
	}
	rest := strings.TrimSpace(caption[i+len(marker):])
	code, name, _ = strings.Cut(rest, " ")
	if code == "" {
		return "", "", false
	}
	return code, strings.TrimSpace(name), true
}

// finalSegment returns the last path segment of a URL, ignoring any
// trailing slash.
func finalSegment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	path := strings.TrimSuffix(u.Path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Stub synthesizes a force-mode record for a code with no sitemap match.
// The URL is guessed from the sitemap base, mirroring the storefront's
// /products/<code> convention; scraping it may still fail, in which case the
// output row keeps empty name and image to signal "not found".
func Stub(code, sitemapURL string) *types.ProductRecord {
	base := sitemapURL
	if i := strings.Index(base, "/sitemap"); i >= 0 {
		base = base[:i]
	}
	return &types.ProductRecord{
		Code:     code,
		URL:      fmt.Sprintf("%s/products/%s", base, code),
		Name:     fmt.Sprintf("Product %s", code),
		NotFound: true,
	}
}
