package sitemap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/profitools/listgen/internal/config"
	"github.com/profitools/listgen/internal/fetcher"
	"github.com/profitools/listgen/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestClient(t *testing.T) *fetcher.Client {
	t.Helper()
	return fetcher.New(config.DefaultConfig(), testLogger)
}

// fakeFetcher serves canned bodies per URL.
type fakeFetcher struct {
	bodies map[string]string
	errs   map[string]error
}

func (f *fakeFetcher) Get(_ context.Context, url string) ([]byte, error) {
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	body, ok := f.bodies[url]
	if !ok {
		return nil, &types.FetchError{URL: url, StatusCode: 404, Err: errors.New("not found")}
	}
	return []byte(body), nil
}

func leafSitemap(urls ...string) string {
	out := `<?xml version="1.0" encoding="UTF-8"?><urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`
	for _, u := range urls {
		out += "<url><loc>" + u + "</loc></url>"
	}
	return out + "</urlset>"
}

func indexSitemap(urls ...string) string {
	out := `<?xml version="1.0" encoding="UTF-8"?><sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`
	for _, u := range urls {
		out += "<sitemap><loc>" + u + "</loc></sitemap>"
	}
	return out + "</sitemapindex>"
}

func TestFetchTagsChildren(t *testing.T) {
	f := &fakeFetcher{bodies: map[string]string{
		"https://example.com/sitemap.xml":      indexSitemap("https://example.com/s1.xml", "https://example.com/s2.xml"),
		"https://example.com/sitemap_leaf.xml": leafSitemap("https://example.com/products/111", "https://example.com/products/222"),
	}}

	nodes, err := Fetch(context.Background(), f, "https://example.com/sitemap.xml", testLogger)
	if err != nil {
		t.Fatalf("fetch index: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 index children, got %d", len(nodes))
	}
	for _, n := range nodes {
		if n.Kind != NodeIndex {
			t.Errorf("expected NodeIndex, got %v for %s", n.Kind, n.URL)
		}
	}

	nodes, err = Fetch(context.Background(), f, "https://example.com/sitemap_leaf.xml", testLogger)
	if err != nil {
		t.Fatalf("fetch leaf: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 leaves, got %d", len(nodes))
	}
	for _, n := range nodes {
		if n.Kind != NodeLeaf {
			t.Errorf("expected NodeLeaf, got %v for %s", n.Kind, n.URL)
		}
	}
}

func TestFetchImageExtension(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9" xmlns:image="http://www.google.com/schemas/sitemap-image/1.1">
  <url>
    <loc>https://example.com/products/driver-26199</loc>
    <image:image>
      <image:loc>https://cdn.example.com/26199.jpg</image:loc>
      <image:caption>Wiha 26199 SlimLine Screwdriver</image:caption>
    </image:image>
  </url>
</urlset>`
	f := &fakeFetcher{bodies: map[string]string{"https://example.com/s.xml": body}}

	nodes, err := Fetch(context.Background(), f, "https://example.com/s.xml", testLogger)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected 1 leaf, got %d", len(nodes))
	}
	if nodes[0].ImageURL != "https://cdn.example.com/26199.jpg" {
		t.Errorf("image URL = %q", nodes[0].ImageURL)
	}
	if nodes[0].Caption != "Wiha 26199 SlimLine Screwdriver" {
		t.Errorf("caption = %q", nodes[0].Caption)
	}
}

func TestFetchMalformedXML(t *testing.T) {
	f := &fakeFetcher{bodies: map[string]string{
		"https://example.com/bad.xml": "<urlset><url><loc>https://example.com/p</loc></url>",
	}}

	_, err := Fetch(context.Background(), f, "https://example.com/bad.xml", testLogger)
	var parseErr *types.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestWalkAggregation(t *testing.T) {
	f := &fakeFetcher{bodies: map[string]string{
		"https://example.com/sitemap.xml": indexSitemap(
			"https://example.com/s1.xml",
			"https://example.com/s2.xml",
		),
		"https://example.com/s1.xml": leafSitemap(
			"https://example.com/products/a-1",
			"https://example.com/products/b-2",
		),
		"https://example.com/s2.xml": leafSitemap(
			"https://example.com/products/c-3",
			"https://example.com/products/d-4",
			"https://example.com/products/e-5",
		),
	}}

	w := NewWalker(f, testLogger)
	result, err := w.Walk(context.Background(), "https://example.com/sitemap.xml", true)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	if len(result.Leaves) != 5 {
		t.Errorf("expected 5 leaves, got %d", len(result.Leaves))
	}
	if result.Total() != 5 {
		t.Errorf("counts sum = %d, want 5", result.Total())
	}
	if result.CountBySitemap["https://example.com/s1.xml"] != 2 {
		t.Errorf("s1 count = %d, want 2", result.CountBySitemap["https://example.com/s1.xml"])
	}
	if result.CountBySitemap["https://example.com/s2.xml"] != 3 {
		t.Errorf("s2 count = %d, want 3", result.CountBySitemap["https://example.com/s2.xml"])
	}

	// Aggregation preserves document order.
	urls := result.LeafURLs()
	if urls[0] != "https://example.com/products/a-1" || urls[4] != "https://example.com/products/e-5" {
		t.Errorf("unexpected leaf order: %v", urls)
	}
}

func TestWalkNonRecursive(t *testing.T) {
	f := &fakeFetcher{bodies: map[string]string{
		"https://example.com/sitemap.xml": indexSitemap("https://example.com/s1.xml"),
		"https://example.com/s1.xml":      leafSitemap("https://example.com/products/a-1"),
	}}

	w := NewWalker(f, testLogger)
	result, err := w.Walk(context.Background(), "https://example.com/sitemap.xml", false)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(result.Leaves) != 0 {
		t.Errorf("non-recursive walk of an index must yield 0 leaves, got %d", len(result.Leaves))
	}
}

func TestWalkRootIsLeafSitemap(t *testing.T) {
	f := &fakeFetcher{bodies: map[string]string{
		"https://example.com/s1.xml": leafSitemap(
			"https://example.com/products/a-1",
			"https://example.com/products/b-2",
		),
	}}

	w := NewWalker(f, testLogger)
	result, err := w.Walk(context.Background(), "https://example.com/s1.xml", false)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(result.Leaves) != 2 {
		t.Errorf("expected 2 direct leaves, got %d", len(result.Leaves))
	}
	if result.CountBySitemap["https://example.com/s1.xml"] != 2 {
		t.Errorf("root count = %d, want 2", result.CountBySitemap["https://example.com/s1.xml"])
	}
}

func TestWalkSubSitemapFailureSkips(t *testing.T) {
	f := &fakeFetcher{
		bodies: map[string]string{
			"https://example.com/sitemap.xml": indexSitemap(
				"https://example.com/broken.xml",
				"https://example.com/s2.xml",
			),
			"https://example.com/s2.xml": leafSitemap("https://example.com/products/a-1"),
		},
		errs: map[string]error{
			"https://example.com/broken.xml": &types.FetchError{URL: "https://example.com/broken.xml", StatusCode: 500, Err: errors.New("boom")},
		},
	}

	w := NewWalker(f, testLogger)
	result, err := w.Walk(context.Background(), "https://example.com/sitemap.xml", true)
	if err != nil {
		t.Fatalf("walk should tolerate sub-sitemap failure: %v", err)
	}
	if len(result.Leaves) != 1 {
		t.Errorf("expected 1 leaf from the healthy sub-sitemap, got %d", len(result.Leaves))
	}
	if result.CountBySitemap["https://example.com/broken.xml"] != 0 {
		t.Errorf("failed sub-sitemap must contribute zero leaves")
	}
}

func TestWalkRootFailureIsFatal(t *testing.T) {
	f := &fakeFetcher{}
	w := NewWalker(f, testLogger)
	if _, err := w.Walk(context.Background(), "https://example.com/missing.xml", true); err == nil {
		t.Fatal("expected error for unreachable root sitemap")
	}
}

func TestWalkCycleGuard(t *testing.T) {
	f := &fakeFetcher{bodies: map[string]string{
		"https://example.com/a.xml": indexSitemap("https://example.com/b.xml"),
		"https://example.com/b.xml": indexSitemap("https://example.com/a.xml"),
	}}

	w := NewWalker(f, testLogger)
	result, err := w.Walk(context.Background(), "https://example.com/a.xml", true)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(result.Leaves) != 0 {
		t.Errorf("cyclic index walk should terminate with 0 leaves, got %d", len(result.Leaves))
	}
}

func TestWalkAgainstHTTPServer(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(indexSitemap(srv.URL + "/sitemap_products_1.xml")))
	})
	mux.HandleFunc("/sitemap_products_1.xml", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(leafSitemap(
			srv.URL+"/products/slim-driver-12345",
			srv.URL+"/products/slim-driver-99999",
		)))
	})

	fc := newTestClient(t)
	w := NewWalker(fc, testLogger)
	result, err := w.Walk(context.Background(), srv.URL+"/sitemap.xml", true)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(result.Leaves) != 2 {
		t.Fatalf("expected 2 leaves, got %d", len(result.Leaves))
	}
}
