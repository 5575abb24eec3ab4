package types

import "encoding/json"

// SpecEntry is a single key/value pair from a product specification table.
// Specs are kept as a slice so document order survives into the composed
// description and the translation payload.
type SpecEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ProductFields holds everything extracted from one product detail page.
// Optional fields resolve to empty containers, never nil panics.
type ProductFields struct {
	Name         string      `json:"name"`
	ImageURL     string      `json:"image_url"`
	Description  string      `json:"description"`
	Specs        []SpecEntry `json:"specifications"`
	SetItems     []string    `json:"items_in_set"`
	Applications []string    `json:"applications"`
}

// Spec returns the value for a specification key, or "" when absent.
func (f *ProductFields) Spec(key string) string {
	for _, s := range f.Specs {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// ProductRecord is one matched product flowing through the pipeline.
// Fields are populated incrementally: the matcher sets Code/URL (and
// Name/ImageURL when the sitemap carried them), the scraper fills the rest.
type ProductRecord struct {
	Code     string `json:"code"`
	URL      string `json:"product_url"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Fields   ProductFields
	NotFound bool `json:"-"` // force-mode stub with no sitemap match
}

// TranslationPayload is the structured product data sent alongside the
// English reference text to the translation service.
func (r *ProductRecord) TranslationPayload() ([]byte, error) {
	return json.MarshalIndent(struct {
		Code           string      `json:"code"`
		Name           string      `json:"name"`
		RawDescription string      `json:"raw_description"`
		Specifications []SpecEntry `json:"specifications"`
		ItemsInSet     []string    `json:"items_in_set"`
	}{
		Code:           r.Code,
		Name:           r.Name,
		RawDescription: r.Fields.Description,
		Specifications: r.Fields.Specs,
		ItemsInSet:     r.Fields.SetItems,
	}, "", "  ")
}

// OutputRow is one line of the output CSV, in column order.
type OutputRow struct {
	Code               string
	Name               string
	ImageURL           string
	URL                string
	SpanishDescription string
}

// Strings returns the row as CSV fields in the fixed column order.
func (r OutputRow) Strings() []string {
	return []string{r.Code, r.Name, r.ImageURL, r.URL, r.SpanishDescription}
}
