package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Display derivations for a product group: brand-prefixed names, weight
// normalization and price-per-unit strings. All pure; the rendering layer
// calls these per item as it draws.

// FormattedName returns "{Brand} - {name}" when the group has a usable
// brand, else the raw display name. "sin marca" placeholders from the
// scrapers do not count as a brand.
func FormattedName(g *ProductGroup) string {
	brand := strings.TrimSpace(g.Brand)
	if brand == "" || strings.EqualFold(brand, "sin marca") || isSentinel(brand) {
		return g.DisplayName
	}
	pretty := capitalizeWords(brand)
	if strings.HasPrefix(strings.ToLower(g.DisplayName), strings.ToLower(brand)) {
		return g.DisplayName
	}
	return pretty + " - " + g.DisplayName
}

var weightValuePattern = regexp.MustCompile(`(?i)^\s*(\d+(?:[.,]\d+)?)\s*(ml|lt|l|kg|gr|g)\s*$`)

// NormalizedWeight parses a free-form weight token and converts it to a
// base unit: kg→g, l/lt→ml. Returns ok=false for unit-counted or
// unparsable weights.
func NormalizedWeight(weight string) (value float64, unit string, ok bool) {
	m := weightValuePattern.FindStringSubmatch(weight)
	if m == nil {
		return 0, "", false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil || v <= 0 {
		return 0, "", false
	}
	switch strings.ToLower(m[2]) {
	case "kg":
		return v * 1000, "g", true
	case "g", "gr":
		return v, "g", true
	case "l", "lt":
		return v * 1000, "ml", true
	case "ml":
		return v, "ml", true
	}
	return 0, "", false
}

// PricePerUnit renders the price per 100g/100ml for a group, or "" when
// the weight cannot be normalized.
func PricePerUnit(g *ProductGroup) string {
	weight := g.ExactWeight
	if isSentinel(weight) {
		if m := weightTokenPattern.FindStringSubmatch(g.DisplayName); m != nil {
			weight = m[1] + m[2]
		}
	}
	value, unit, ok := NormalizedWeight(weight)
	if !ok {
		return ""
	}
	per100 := g.MinPrice / value * 100
	return fmt.Sprintf("$%.2f x 100%s", per100, unit)
}

func capitalizeWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
