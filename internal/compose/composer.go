// Package compose turns scraped product fields into a structured English
// description. Pure string formatting: same input, byte-identical output.
package compose

import (
	"fmt"
	"strings"

	"github.com/profitools/listgen/internal/types"
)

// skipSpecKeys are identifier specs that add nothing to a feature list.
var skipSpecKeys = map[string]bool{
	"product code": true,
	"sku":          true,
	"upc":          true,
}

// Composer renders English descriptions with an optional brand voice.
type Composer struct {
	brand string
}

// New creates a Composer. An empty brand produces brand-neutral phrasing.
func New(brand string) *Composer {
	return &Composer{brand: brand}
}

// Compose assembles the fixed section template: title, overview, features,
// applications, set contents, additional information, closing.
func (c *Composer) Compose(rec *types.ProductRecord) string {
	f := &rec.Fields
	name := rec.Name
	if name == "" {
		name = f.Name
	}

	var sections []string

	sections = append(sections, c.titleLine(rec.Code, name), "")
	sections = append(sections, c.overview(name, f.Description), "")
	sections = append(sections, strings.Join(c.features(f), "\n"))

	if len(f.Applications) > 0 {
		lines := []string{"\nApplications:"}
		for _, app := range f.Applications {
			lines = append(lines, "- "+app)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(f.SetItems) > 0 {
		lines := []string{"\nThis set includes:"}
		for _, item := range f.SetItems {
			lines = append(lines, "- "+item)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	sections = append(sections, strings.Join(c.additionalInfo(rec.Code), "\n"), "")
	sections = append(sections, c.closing(name))

	out := strings.Join(sections, "\n")
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return out
}

func (c *Composer) titleLine(code, name string) string {
	if c.brand != "" {
		return fmt.Sprintf("%s %s - %s", c.brand, code, name)
	}
	return fmt.Sprintf("%s - %s", code, name)
}

func (c *Composer) overview(name, description string) string {
	subject := name
	if c.brand != "" {
		subject = c.brand + " " + name
	}
	intro := fmt.Sprintf("The %s is a premium quality tool designed for professional use and demanding applications. ", subject)
	if description != "" {
		return intro + description
	}
	return intro + "Engineered for exceptional durability, precision, and ergonomic comfort during extended use."
}

func (c *Composer) features(f *types.ProductFields) []string {
	lines := []string{"Features:"}
	for _, spec := range f.Specs {
		if skipSpecKeys[strings.ToLower(spec.Key)] {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", spec.Key, spec.Value))
	}
	if len(lines) == 1 {
		lines = append(lines,
			"- Premium engineering and construction",
			"- Ergonomic design for comfortable use",
			"- Made from high-quality materials for durability",
			"- Professional-grade tool lineup",
		)
	}
	return lines
}

func (c *Composer) additionalInfo(code string) []string {
	lines := []string{"\nAdditional Information:"}
	if c.brand != "" {
		lines = append(lines, "- Brand: "+c.brand)
	}
	lines = append(lines,
		"- Model: "+code,
		"- Professional-grade quality",
	)
	return lines
}

func (c *Composer) closing(name string) string {
	return fmt.Sprintf("The %s delivers the reliability and performance that professionals demand. "+
		"Elevate your work with tools engineered to meet the highest standards.", name)
}
