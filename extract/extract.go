// Package extract turns a stabilized search-results DOM into normalized
// product records.
//
// Each retailer is a variant of one selector-fallback strategy: ordered
// card-container selectors tried until one matches, then per-field
// fallback lists where the first non-empty hit wins. Markup shifts degrade
// individual fields (or cards) rather than failing the request.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/totalome/shelfscout/models"
	"github.com/totalome/shelfscout/money"
)

// MaxProducts caps one extraction. Card order beyond the cap is the
// site's ranking order and is preserved for the kept prefix.
const MaxProducts = 24

// Extractor emits normalized products from a rendered document.
type Extractor interface {
	Extract(doc *goquery.Document) []models.Product
}

// ForRetailer dispatches to the retailer's extraction variant. Unknown
// retailers get an extractor that always returns an empty result.
func ForRetailer(r models.Retailer) Extractor {
	switch r {
	case models.RetailerHomeDepot:
		return homeDepot
	case models.RetailerWayfair:
		return wayfair
	case models.RetailerIKEA:
		return ikea
	default:
		return unknown{}
	}
}

// unknown is the no-op variant for unrecognized retailers.
type unknown struct{}

func (unknown) Extract(*goquery.Document) []models.Product {
	return []models.Product{}
}

// attrProbe resolves a field from an attribute instead of a text node,
// e.g. an aria-label on a link when the card has no title element.
type attrProbe struct {
	sel  cascadia.Selector
	attr string
}

// variant is one retailer's selector-fallback configuration. All variants
// share the same walk in Extract.
type variant struct {
	retailer models.Retailer

	// cards are tried in order; the first selector yielding at least
	// one match supplies the card set.
	cards []cascadia.Selector

	// cardIsLink marks variants whose card container is itself the
	// product anchor (the href is read off the card, not a child).
	cardIsLink bool

	title      []cascadia.Selector
	titleAttrs []attrProbe
	links      []cascadia.Selector
	images     []attrProbe
	prices     []cascadia.Selector
}

// Extract walks the first matching card set, resolving each field through
// its fallback list. A card is kept only when it has a title or a URL;
// everything else is silently dropped.
func (v *variant) Extract(doc *goquery.Document) []models.Product {
	products := []models.Product{}

	cards := firstMatch(doc.Selection, v.cards)
	if cards == nil {
		return products
	}

	origin := v.retailer.Origin()
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		p := models.Product{Retailer: v.retailer}

		p.Title = firstText(card, v.title)
		if p.Title == "" {
			p.Title = firstAttr(card, v.titleAttrs)
		}

		if v.cardIsLink {
			p.URL = absoluteURL(origin, card.AttrOr("href", ""))
		}
		if p.URL == "" {
			for _, sel := range v.links {
				if href, ok := card.FindMatcher(sel).First().Attr("href"); ok && href != "" {
					p.URL = absoluteURL(origin, href)
					break
				}
			}
		}

		p.Image = absoluteURL(origin, firstAttr(card, v.images))
		p.Price = cardPrice(card, v.prices)

		if p.Viable() {
			products = append(products, p)
		}
		return len(products) < MaxProducts
	})

	return products
}

// firstMatch returns the matches of the first selector that yields at
// least one node, or nil when none do.
func firstMatch(root *goquery.Selection, fallbacks []cascadia.Selector) *goquery.Selection {
	for _, sel := range fallbacks {
		if m := root.FindMatcher(sel); m.Length() > 0 {
			return m
		}
	}
	return nil
}

// firstText returns the trimmed text of the first selector whose first
// match has any, later selectors are never consulted once one hits.
func firstText(card *goquery.Selection, fallbacks []cascadia.Selector) string {
	for _, sel := range fallbacks {
		if t := strings.TrimSpace(card.FindMatcher(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

// firstAttr is firstText for attribute-sourced fields.
func firstAttr(card *goquery.Selection, probes []attrProbe) string {
	for _, p := range probes {
		if v := strings.TrimSpace(card.FindMatcher(p.sel).First().AttrOr(p.attr, "")); v != "" {
			return v
		}
	}
	return ""
}

// absoluteURL rewrites site-relative hrefs against the retailer origin.
// Already-absolute URLs pass through untouched.
func absoluteURL(origin, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "/") && origin != "" {
		return origin + href
	}
	return href
}

// cardPrice resolves a price from the dedicated price elements, falling
// back to scanning the card's full visible text for the first
// currency-like value.
func cardPrice(card *goquery.Selection, priceSels []cascadia.Selector) *float64 {
	for _, sel := range priceSels {
		if v, ok := money.Parse(card.FindMatcher(sel).First().Text()); ok {
			return &v
		}
	}
	if v, ok := money.Parse(card.Text()); ok {
		return &v
	}
	return nil
}

// probe compiles a single attribute probe.
func probe(pattern, attr string) attrProbe {
	return attrProbe{sel: cascadia.MustCompile(pattern), attr: attr}
}

// sels compiles a selector fallback list. Selector lists are static, so
// a bad pattern is a programming error.
func sels(patterns ...string) []cascadia.Selector {
	out := make([]cascadia.Selector, len(patterns))
	for i, p := range patterns {
		out[i] = cascadia.MustCompile(p)
	}
	return out
}
