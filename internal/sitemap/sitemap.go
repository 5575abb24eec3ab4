// Package sitemap fetches XML sitemaps and walks sitemap-of-sitemaps
// hierarchies into a flat, document-ordered list of page URLs.
package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"log/slog"

	"github.com/profitools/listgen/internal/types"
)

// NodeKind tags a sitemap child as another sitemap or a concrete page URL.
type NodeKind int

const (
	// NodeIndex is a <sitemap> entry pointing at another sitemap document.
	NodeIndex NodeKind = iota
	// NodeLeaf is a <url> entry pointing at a concrete page.
	NodeLeaf
)

// Node is one child entry of a sitemap document. Leaf entries carry the
// Google image-sitemap extension fields when the document provides them;
// Shopify product sitemaps put "<Brand> <code> <name>" in the caption.
type Node struct {
	URL      string
	Kind     NodeKind
	ImageURL string
	Caption  string
}

// Fetcher is the HTTP dependency; satisfied by fetcher.Client.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type urlEntry struct {
	Loc   string `xml:"loc"`
	Image struct {
		Loc     string `xml:"loc"`
		Caption string `xml:"caption"`
	} `xml:"image"`
}

// Fetch retrieves one sitemap document and returns its children in document
// order. <sitemap> entries become NodeIndex, <url> entries NodeLeaf.
// Transport failures surface as *types.FetchError, malformed XML as
// *types.ParseError.
func Fetch(ctx context.Context, f Fetcher, url string, logger *slog.Logger) ([]Node, error) {
	body, err := f.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	nodes, err := parse(body)
	if err != nil {
		return nil, &types.ParseError{URL: url, Err: err}
	}
	logger.Debug("sitemap fetched", "url", url, "children", len(nodes))
	return nodes, nil
}

// parse streams the XML token-wise; no schema validation beyond
// well-formedness.
func parse(body []byte) ([]Node, error) {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	var nodes []Node

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "sitemap":
			var entry urlEntry
			if err := decoder.DecodeElement(&entry, &se); err != nil {
				return nil, err
			}
			if entry.Loc != "" {
				nodes = append(nodes, Node{URL: entry.Loc, Kind: NodeIndex})
			}
		case "url":
			var entry urlEntry
			if err := decoder.DecodeElement(&entry, &se); err != nil {
				return nil, err
			}
			if entry.Loc != "" {
				nodes = append(nodes, Node{
					URL:      entry.Loc,
					Kind:     NodeLeaf,
					ImageURL: entry.Image.Loc,
					Caption:  entry.Image.Caption,
				})
			}
		}
	}

	return nodes, nil
}
