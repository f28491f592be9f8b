package extract

import "github.com/totalome/shelfscout/models"

// homeDepot targets the product-pod grid on homedepot.com search results.
// The data-testid form is the current markup; the automation attribute and
// the two class forms cover older revisions still served from cache.
var homeDepot = &variant{
	retailer: models.RetailerHomeDepot,
	cards: sels(
		`[data-testid^="product-pod"]`,
		`[data-automation*="product-pod"]`,
		`div.product-pod--padding`,
		`div.pod-inner`,
	),
	title: sels(
		`[data-automation="product-title"]`,
		`a[aria-label]`,
		`a`,
	),
	titleAttrs: []attrProbe{
		probe(`a[aria-label]`, "aria-label"),
	},
	links: sels(`a[href]`),
	images: []attrProbe{
		probe(`img[src]`, "src"),
	},
	prices: sels(
		`[data-automation="product-price"]`,
		`[class*="price"]`,
	),
}
