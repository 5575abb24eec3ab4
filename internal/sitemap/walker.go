package sitemap

import (
	"context"
	"log/slog"
)

// WalkResult aggregates a traversal: every leaf in document order plus a
// per-sub-sitemap leaf count. The total leaf count equals the sum of the
// counts map.
type WalkResult struct {
	Leaves         []Node
	CountBySitemap map[string]int
}

// LeafURLs returns just the page URLs, preserving aggregation order.
func (r *WalkResult) LeafURLs() []string {
	urls := make([]string, len(r.Leaves))
	for i, n := range r.Leaves {
		urls[i] = n.URL
	}
	return urls
}

// Total returns the aggregated leaf count.
func (r *WalkResult) Total() int {
	total := 0
	for _, c := range r.CountBySitemap {
		total += c
	}
	return total
}

// Walker traverses sitemap hierarchies.
type Walker struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewWalker creates a Walker using the given HTTP client.
func NewWalker(f Fetcher, logger *slog.Logger) *Walker {
	return &Walker{fetcher: f, logger: logger.With("component", "walker")}
}

// Walk fetches the root sitemap and aggregates its leaves. When the root is
// an index and recursive is true, each child sitemap is visited in listed
// order; a failure on one child is logged and that child contributes zero
// leaves. Only a failure on the root itself fails the walk.
//
// Cycles are not expected in well-formed sitemaps; a visited set guards
// against them anyway without changing behavior for well-formed input.
func (w *Walker) Walk(ctx context.Context, rootURL string, recursive bool) (*WalkResult, error) {
	result := &WalkResult{CountBySitemap: make(map[string]int)}
	visited := map[string]bool{rootURL: true}

	nodes, err := Fetch(ctx, w.fetcher, rootURL, w.logger)
	if err != nil {
		return nil, err
	}

	var pending []Node
	for _, n := range nodes {
		switch n.Kind {
		case NodeLeaf:
			result.Leaves = append(result.Leaves, n)
			result.CountBySitemap[rootURL]++
		case NodeIndex:
			pending = append(pending, n)
		}
	}

	if !recursive {
		for _, n := range pending {
			w.logger.Info("index child listed but not descended", "url", n.URL)
		}
		return result, nil
	}

	for len(pending) > 0 {
		child := pending[0]
		pending = pending[1:]

		if visited[child.URL] {
			w.logger.Warn("sitemap cycle detected, skipping", "url", child.URL)
			continue
		}
		visited[child.URL] = true

		children, err := Fetch(ctx, w.fetcher, child.URL, w.logger)
		if err != nil {
			w.logger.Warn("sub-sitemap failed, contributing zero leaves", "url", child.URL, "error", err)
			result.CountBySitemap[child.URL] = 0
			continue
		}

		count := 0
		var nested []Node
		for _, n := range children {
			switch n.Kind {
			case NodeLeaf:
				result.Leaves = append(result.Leaves, n)
				count++
			case NodeIndex:
				nested = append(nested, n)
			}
		}
		result.CountBySitemap[child.URL] = count

		// Nested indexes are visited before later siblings to preserve
		// document order of the hierarchy.
		pending = append(nested, pending...)

		w.logger.Info("sub-sitemap processed", "url", child.URL, "leaves", count)
	}

	return result, nil
}
