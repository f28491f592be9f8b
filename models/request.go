package models

// SearchRequest is the inbound query for GET /search, constructed once by
// the handler and read-only afterwards.
type SearchRequest struct {
	// Query is the free-text product search. Required.
	Query string

	// Retailer selects the extraction variant and search URL template.
	Retailer Retailer

	// Debug asks for the diagnostic envelope instead of the plain list.
	Debug bool

	// WantScreenshot asks for a full-page screenshot of the rendered page.
	WantScreenshot bool
}
