package main

import (
	"math"
	"strconv"
	"strings"
)

// Offer is one supermarket's priced listing for a product instance.
type Offer struct {
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Store        string  `json:"store"`
	EAN          string  `json:"ean"`
	ExactWeight  string  `json:"exactWeight"`
	InStock      bool    `json:"inStock"`
	URL          string  `json:"url"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	Brand        string  `json:"brand,omitempty"`
	AddToCartURL string  `json:"addToCartUrl,omitempty"`
}

// Sentinel values the scrapers emit when a field is intentionally missing.
const (
	SentinelUnknown = "UNKNOWN"
	SentinelNoEAN   = "NO_EAN"
)

func isSentinel(v string) bool {
	return v == "" || v == SentinelUnknown || v == SentinelNoEAN
}

// OfferFallback carries record-level values inherited by per-store entries
// that lack their own.
type OfferFallback struct {
	ProductID   string
	Name        string
	EAN         string
	ExactWeight string
	Brand       string
	ImageURL    string
}

// Field candidate chains, tried in order. The scrapers disagree on key
// names per store and per workflow version, so the fallback order lives in
// one declarative table instead of scattered conditionals.
var (
	priceFields = []string{"precio", "price", "min_price", "max_price", "best_price"}
	storeFields = []string{"supermercado", "super", "store", "market", "name"}
	imageFields = []string{"imageUrl", "imageurl", "imgUrl", "image_url", "image"}
	cartFields  = []string{
		"addToCartLink", "add_to_cart_link", "addToCart", "add_to_cart",
		"cartLink", "cart_link", "add_to_cart_url", "addToCartUrl",
	}
	nameFields   = []string{"name", "nombre", "title", "producto"}
	eanFields    = []string{"ean", "canonid", "canonical_id"}
	weightFields = []string{"exact_weight", "exactWeight", "weight", "peso"}
	urlFields    = []string{"url", "link", "product_url", "productUrl"}
	idFields     = []string{"canonid", "productId", "product_id", "id"}
)

// MapRecord converts one raw record into canonical offers, one per usable
// supermarket entry. Entries without a positive price or a store name are
// dropped here and never reach the grouper.
func MapRecord(rec RawRecord) []Offer {
	fb := fallbackFrom(rec)
	entries, ok := asArray(rec.Fields["supermarkets"])
	if !ok {
		return nil
	}
	offers := make([]Offer, 0, len(entries))
	for _, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if offer := MapOffer(entry, fb); offer != nil {
			offers = append(offers, *offer)
		}
	}
	return offers
}

// MapOffer converts one raw supermarket entry into a canonical Offer.
// Returns nil when the entry cannot be priced or store-named.
func MapOffer(entry map[string]any, fb OfferFallback) *Offer {
	price, ok := firstNumber(entry, priceFields)
	if !ok || price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil
	}
	store := firstString(entry, storeFields)
	if strings.TrimSpace(store) == "" {
		return nil
	}

	offer := Offer{
		ProductID:   stringOr(entry, idFields, fb.ProductID),
		Name:        stringOr(entry, []string{"product_name", "nombre_producto"}, fb.Name),
		Price:       price,
		Store:       store,
		EAN:         stringOr(entry, eanFields, fb.EAN),
		ExactWeight: stringOr(entry, weightFields, fb.ExactWeight),
		InStock:     boolOr(entry, []string{"inStock", "in_stock", "stock", "available"}, true),
		URL:         firstString(entry, urlFields),
		ImageURL:    stringOr(entry, imageFields, fb.ImageURL),
		Brand:       stringOr(entry, []string{"brand", "marca"}, fb.Brand),
	}
	if offer.EAN == "" {
		offer.EAN = SentinelNoEAN
	}
	if offer.ExactWeight == "" {
		offer.ExactWeight = SentinelUnknown
	}
	offer.AddToCartURL = resolveCartLink(entry, offer.URL)
	return &offer
}

// resolveCartLink hunts for an add-to-cart deep link under its many
// spellings, at the entry top level and inside a nested sellers array,
// before falling back to synthesizing one from the product URL. Empty
// result means no link could be produced, which is fine.
func resolveCartLink(entry map[string]any, productURL string) string {
	if link := firstString(entry, cartFields); link != "" {
		return link
	}
	if sellers, ok := asArray(entry["sellers"]); ok {
		for _, raw := range sellers {
			seller, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if link := firstString(seller, cartFields); link != "" {
				return link
			}
		}
	}
	return SynthesizeCartLink(productURL)
}

func fallbackFrom(rec RawRecord) OfferFallback {
	fb := OfferFallback{
		ProductID:   firstString(rec.Fields, idFields),
		Name:        firstString(rec.Fields, nameFields),
		EAN:         firstString(rec.Fields, eanFields),
		ExactWeight: firstString(rec.Fields, weightFields),
		Brand:       firstString(rec.Fields, []string{"brand", "marca"}),
		ImageURL:    firstString(rec.Fields, imageFields),
	}
	// Meta blocks from enclosing payload nodes fill whatever the record
	// itself is missing.
	if meta := rec.Context.Meta; meta != nil {
		if fb.ProductID == "" {
			fb.ProductID = firstString(meta, idFields)
		}
		if fb.EAN == "" {
			fb.EAN = firstString(meta, eanFields)
		}
		if fb.Brand == "" {
			fb.Brand = firstString(meta, []string{"brand", "marca"})
		}
	}
	if fb.EAN == "" {
		fb.EAN = SentinelNoEAN
	}
	if fb.ExactWeight == "" {
		fb.ExactWeight = SentinelUnknown
	}
	return fb
}

// firstString returns the first non-empty string under the candidate keys.
func firstString(m map[string]any, keys []string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

func stringOr(m map[string]any, keys []string, fallback string) string {
	if s := firstString(m, keys); s != "" {
		return s
	}
	return fallback
}

// firstNumber returns the first coercible number under the candidate keys.
// String prices come through with currency symbols and comma decimals.
func firstNumber(m map[string]any, keys []string) (float64, bool) {
	for _, key := range keys {
		v, ok := m[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t, true
		case int:
			return float64(t), true
		case string:
			if f, ok := parseNumber(t); ok {
				return f, true
			}
		}
	}
	return 0, false
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// "1.234,56" style: thousands dots, comma decimal.
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
		}
		s = strings.ReplaceAll(s, ",", ".")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func boolOr(m map[string]any, keys []string, fallback bool) bool {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return fallback
}
