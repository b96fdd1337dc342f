package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormattedName(t *testing.T) {
	cases := []struct {
		name  string
		group ProductGroup
		want  string
	}{
		{
			name:  "brand prefixed",
			group: ProductGroup{Brand: "la serenisima", DisplayName: "Leche Entera 1L"},
			want:  "La Serenisima - Leche Entera 1L",
		},
		{
			name:  "no brand",
			group: ProductGroup{DisplayName: "Leche Entera 1L"},
			want:  "Leche Entera 1L",
		},
		{
			name:  "sin marca placeholder",
			group: ProductGroup{Brand: "Sin Marca", DisplayName: "Leche Entera 1L"},
			want:  "Leche Entera 1L",
		},
		{
			name:  "sentinel brand",
			group: ProductGroup{Brand: SentinelUnknown, DisplayName: "Leche Entera 1L"},
			want:  "Leche Entera 1L",
		},
		{
			name:  "name already starts with brand",
			group: ProductGroup{Brand: "Coca-Cola", DisplayName: "coca-cola zero 500ml"},
			want:  "coca-cola zero 500ml",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormattedName(&tc.group))
		})
	}
}

func TestNormalizedWeight(t *testing.T) {
	cases := []struct {
		in    string
		value float64
		unit  string
		ok    bool
	}{
		{"500g", 500, "g", true},
		{"500 gr", 500, "g", true},
		{"1kg", 1000, "g", true},
		{"1.5lt", 1500, "ml", true},
		{"1,5l", 1500, "ml", true},
		{"2.25 L", 2250, "ml", true},
		{"330ml", 330, "ml", true},
		{"6 unidades", 0, "", false},
		{"", 0, "", false},
		{SentinelUnknown, 0, "", false},
		{"0g", 0, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			value, unit, ok := NormalizedWeight(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.value, value)
				assert.Equal(t, tc.unit, unit)
			}
		})
	}
}

func TestPricePerUnit(t *testing.T) {
	g := &ProductGroup{ExactWeight: "500g", MinPrice: 1000}
	assert.Equal(t, "$200.00 x 100g", PricePerUnit(g))

	g = &ProductGroup{ExactWeight: "1.5lt", MinPrice: 3000}
	assert.Equal(t, "$200.00 x 100ml", PricePerUnit(g))

	// Weight recovered from the display name when the scraped one is missing.
	g = &ProductGroup{ExactWeight: SentinelUnknown, DisplayName: "Coca Cola Zero 500ml", MinPrice: 1500}
	assert.Equal(t, "$300.00 x 100ml", PricePerUnit(g))

	g = &ProductGroup{ExactWeight: "6 unidades", MinPrice: 2000}
	assert.Empty(t, PricePerUnit(g))
}
