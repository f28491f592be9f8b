// Package searchurl maps a (query, retailer) pair to the retailer's
// search results URL.
package searchurl

import (
	"net/url"

	"github.com/totalome/shelfscout/models"
)

// Build returns the search URL for the given query and retailer. The query
// is percent-encoded per URL query-component rules (spaces become '+').
// Unrecognized retailers fall back to a generic shopping search.
func Build(query string, r models.Retailer) string {
	q := url.QueryEscape(query)
	switch r {
	case models.RetailerHomeDepot:
		return "https://www.homedepot.com/s/" + q
	case models.RetailerWayfair:
		return "https://www.wayfair.com/keyword.php?keyword=" + q
	case models.RetailerIKEA:
		return "https://www.ikea.com/us/en/search?q=" + q
	default:
		return "https://duckduckgo.com/?q=" + q + "&iax=shopping&ia=shopping"
	}
}
