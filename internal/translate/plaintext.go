package translate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const poundsToKg = 0.453592

var (
	mdHeader   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	mdItalic   = regexp.MustCompile(`\*(.+?)\*`)
	mdBoldU    = regexp.MustCompile(`__(.+?)__`)
	mdItalicU  = regexp.MustCompile(`_(.+?)_`)
	mdLink     = regexp.MustCompile(`\[(.+?)\]\(.+?\)`)
	mdBacktick = regexp.MustCompile("`+")

	// Matches "1.5 lb", "2lbs", "3 pounds" etc.
	poundsRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:lbs?|pounds?)\b`)
)

// StripMarkdown removes the markdown characters the service may emit despite
// being instructed not to.
func StripMarkdown(s string) string {
	s = mdHeader.ReplaceAllString(s, "")
	s = mdBold.ReplaceAllString(s, "$1")
	s = mdItalic.ReplaceAllString(s, "$1")
	s = mdBoldU.ReplaceAllString(s, "$1")
	s = mdItalicU.ReplaceAllString(s, "$1")
	s = mdLink.ReplaceAllString(s, "$1")
	s = mdBacktick.ReplaceAllString(s, "")
	return s
}

// ConvertPounds rewrites every pound weight in the text to kilograms using
// kg = lb * 0.453592, rounded to 2 decimals. The original pound value does
// not survive the rewrite.
func ConvertPounds(s string) string {
	return poundsRe.ReplaceAllStringFunc(s, func(match string) string {
		groups := poundsRe.FindStringSubmatch(match)
		raw := strings.ReplaceAll(groups[1], ",", ".")
		lb, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return match
		}
		return fmt.Sprintf("%.2f kg", lb*poundsToKg)
	})
}
