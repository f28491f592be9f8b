package extract

import "github.com/totalome/shelfscout/models"

// ikea targets the product listing page fragments on ikea.com/us/en.
var ikea = &variant{
	retailer: models.RetailerIKEA,
	cards: sels(
		`div.plp-fragment-wrapper`,
		`div.plp-mastercard`,
		`[data-testid="plp-product-card"]`,
	),
	title: sels(
		`span.plp-price-module__product-name`,
		`.plp-mastercard__item .notranslate`,
		`a[aria-label]`,
	),
	titleAttrs: []attrProbe{
		probe(`a[aria-label]`, "aria-label"),
	},
	links: sels(
		`a.plp-product__image-link`,
		`a[href]`,
	),
	images: []attrProbe{
		probe(`img[src]`, "src"),
	},
	prices: sels(
		`.plp-price__sr-text`,
		`span.plp-price__integer`,
		`[class*="price"]`,
	),
}
