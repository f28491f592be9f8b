package models

import "strings"

// Retailer identifies which storefront a search targets.
type Retailer string

const (
	RetailerHomeDepot Retailer = "homedepot"
	RetailerWayfair   Retailer = "wayfair"
	RetailerIKEA      Retailer = "ikea"
	RetailerUnknown   Retailer = "unknown"
)

// ParseRetailer maps a user-supplied retailer name to a known Retailer.
// Unrecognized names map to RetailerUnknown; the search URL builder has a
// generic fallback for those, so they are served rather than rejected.
func ParseRetailer(s string) Retailer {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "homedepot", "home_depot", "home-depot":
		return RetailerHomeDepot
	case "wayfair":
		return RetailerWayfair
	case "ikea":
		return RetailerIKEA
	default:
		return RetailerUnknown
	}
}

// Origin returns the canonical site origin used to absolutize relative
// product links. Empty for RetailerUnknown.
func (r Retailer) Origin() string {
	switch r {
	case RetailerHomeDepot:
		return "https://www.homedepot.com"
	case RetailerWayfair:
		return "https://www.wayfair.com"
	case RetailerIKEA:
		return "https://www.ikea.com"
	default:
		return ""
	}
}

// Product is one normalized search result card. Price is a pointer so that
// a card without a resolvable price serializes as "price": null rather
// than 0.
type Product struct {
	Title    string   `json:"title"`
	Price    *float64 `json:"price"`
	Image    string   `json:"image,omitempty"`
	URL      string   `json:"url"`
	Retailer Retailer `json:"retailer"`
}

// Viable reports whether the record carries enough identity to be emitted.
// A card needs a title OR a URL; one missing field shrinks the record,
// both missing drops it.
func (p Product) Viable() bool {
	return p.Title != "" || p.URL != ""
}
