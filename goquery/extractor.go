// Package goquery extracts bibliographic records from search result pages
// using CSS selectors.
package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scholarly"
	"golang.org/x/net/html"
)

// Ensure Extractor implements scholarly.Extractor at compile time.
var _ scholarly.Extractor = (*Extractor)(nil)

// Selectors for the result list markup.
const (
	resultSelector   = "div.gs_r.gs_or.gs_scl"
	headingSelector  = "h3.gs_rt"
	anchorSelector   = "h3.gs_rt a"
	actionsSelector  = "div.gs_fl a"
	documentSelector = "div.gs_or_ggsm a"
	bylineSelector   = "div.gs_a"
)

// markers maps display languages to the text of the "cited by" action link.
var markers = map[string]string{
	"fr": "Cité",
	"en": "Cited by",
	"de": "Zitiert von",
	"es": "Citado por",
	"it": "Citato da",
	"pt": "Citado por",
	"nl": "Geciteerd door",
}

// MarkerForLanguage returns the cited-by marker for a display language.
// Unknown languages fall back to the English marker.
func MarkerForLanguage(lang string) string {
	if m, ok := markers[strings.ToLower(lang)]; ok {
		return m
	}
	return markers["en"]
}

var nonDigits = regexp.MustCompile(`[^0-9]+`)

// Extractor extracts records from result pages. Each field has a primary
// rule and a fallback; a malformed field never fails the page.
type Extractor struct {
	marker string
}

// NewExtractor creates an Extractor recognising citation counts by the
// given cited-by marker, which depends on the page display language.
func NewExtractor(marker string) *Extractor {
	return &Extractor{marker: marker}
}

// Extract returns one record per result block, in page order.
func (e *Extractor) Extract(page string) []*scholarly.Record {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil
	}

	blocks := doc.Find(resultSelector)
	records := make([]*scholarly.Record, 0, blocks.Length())
	blocks.Each(func(_ int, block *goquery.Selection) {
		records = append(records, &scholarly.Record{
			Title:     extractTitle(block),
			Link:      attrOr(block.Find(anchorSelector).First(), "href", scholarly.Placeholder),
			Citations: e.extractCitations(block),
			Document:  attrOr(block.Find(documentSelector).First(), "href", scholarly.Placeholder),
			Year:      extractYear(block),
		})
	})
	return records
}

// extractTitle reads the heading anchor text. Entries without an outbound
// link (pure citations) carry a type label first, so the title is the
// heading's second text-bearing child.
func extractTitle(block *goquery.Selection) string {
	if a := block.Find(anchorSelector).First(); a.Length() > 0 {
		return normalize(a.Text())
	}

	heading := block.Find(headingSelector).First()
	if heading.Length() == 0 {
		return ""
	}

	var parts []string
	for c := heading.Get(0).FirstChild; c != nil; c = c.NextSibling {
		if text := normalize(nodeText(c)); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) >= 2 {
		return parts[1]
	}
	return normalize(heading.Text())
}

// extractCitations parses the first action link containing the marker.
func (e *Extractor) extractCitations(block *goquery.Selection) int {
	count := 0
	block.Find(actionsSelector).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		text := a.Text()
		if !strings.Contains(text, e.marker) {
			return true
		}
		digits := nonDigits.ReplaceAllString(strings.ReplaceAll(text, " ", ""), "")
		if n, err := strconv.Atoi(digits); err == nil {
			count = n
		}
		return false
	})
	return count
}

// extractYear parses the byline "Authors - Venue, 2019 - host": the last
// comma-separated token, up to its first dash.
func extractYear(block *goquery.Selection) scholarly.Year {
	byline := block.Find(bylineSelector).First()
	if byline.Length() == 0 {
		return scholarly.YearUnknown
	}

	tokens := strings.Split(byline.Text(), ",")
	last := tokens[len(tokens)-1]
	token := strings.TrimSpace(strings.SplitN(last, "-", 2)[0])

	year, err := strconv.Atoi(token)
	if err != nil || year < 1000 || year > 9999 {
		return scholarly.YearUnknown
	}
	return scholarly.Year(year)
}

func attrOr(sel *goquery.Selection, name, fallback string) string {
	if v, ok := sel.Attr(name); ok && v != "" {
		return v
	}
	return fallback
}

// nodeText concatenates the text nodes below n.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}

// normalize trims the text and collapses inner whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
