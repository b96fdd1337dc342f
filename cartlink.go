package main

import (
	"fmt"
	"regexp"
	"strings"
)

// Best-effort add-to-cart URL synthesis. When a scraper gives us a product
// detail link but no cart deep link, we can rebuild one for the chains
// whose storefront we know. The Cencosud banners (Jumbo, Disco, Vea) and
// Carrefour all run VTEX, which accepts a plain checkout cart-add URL with
// the SKU. Anything unrecognized stays without a link.

type cartLinkStrategy struct {
	hostToken string
	build     func(sku string) string
}

func vtexCartAdd(host string) func(string) string {
	return func(sku string) string {
		return fmt.Sprintf("https://%s/checkout/cart/add?sku=%s&qty=1&seller=1&sc=1", host, sku)
	}
}

var cartLinkStrategies = []cartLinkStrategy{
	{hostToken: "jumbo.com.ar", build: vtexCartAdd("www.jumbo.com.ar")},
	{hostToken: "disco.com.ar", build: vtexCartAdd("www.disco.com.ar")},
	{hostToken: "vea.com.ar", build: vtexCartAdd("www.vea.com.ar")},
	{hostToken: "carrefour.com.ar", build: vtexCartAdd("www.carrefour.com.ar")},
	{hostToken: "masonline.com.ar", build: vtexCartAdd("www.masonline.com.ar")},
}

var skuPattern = regexp.MustCompile(`\d{3,}`)

// extractSKU picks the longest digit run in the URL; product slugs carry
// weight tokens like "200g", but the SKU is the long trailing id. Later
// runs win ties.
func extractSKU(s string) string {
	best := ""
	for _, run := range skuPattern.FindAllString(s, -1) {
		if len(run) >= len(best) {
			best = run
		}
	}
	return best
}

// SynthesizeCartLink rebuilds a cart-add URL from a product detail URL.
// Returns "" when the host is unknown or no SKU token can be extracted.
func SynthesizeCartLink(productURL string) string {
	if productURL == "" {
		return ""
	}
	lower := strings.ToLower(productURL)
	for _, s := range cartLinkStrategies {
		if !strings.Contains(lower, s.hostToken) {
			continue
		}
		sku := extractSKU(strings.TrimPrefix(strings.TrimPrefix(lower, "https://"), "http://"))
		if sku == "" {
			return ""
		}
		return s.build(sku)
	}
	return ""
}
