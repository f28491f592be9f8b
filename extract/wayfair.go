package extract

import "github.com/totalome/shelfscout/models"

// wayfair cards are anchors wrapping the whole product tile, so the card
// itself carries the href. Wayfair rotates its hashed class names often;
// the enzyme id and the /product/ href shape are the stable signals.
var wayfair = &variant{
	retailer:   models.RetailerWayfair,
	cardIsLink: true,
	cards: sels(
		`a[data-enzyme-id*="ProductCard"]`,
		`a.ProductCard`,
		`a[data-hb-id*="ProductCard"]`,
		`a[href*="/product/"]`,
	),
	title: sels(
		`[data-enzyme-id*="ProductName"]`,
		`h2`,
		`h3`,
		`p`,
		`span`,
	),
	titleAttrs: []attrProbe{
		probe(`img[alt]`, "alt"),
	},
	links: sels(`a[href]`),
	images: []attrProbe{
		probe(`img[src]`, "src"),
	},
	prices: sels(
		`[data-enzyme-id*="PriceDisplay"]`,
		`[class*="Price"]`,
	),
}
