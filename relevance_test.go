package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testScorer() *Scorer {
	return NewScorer(DefaultVocabulary())
}

func TestScoreVetoKeywords(t *testing.T) {
	s := testScorer()

	assert.Zero(t, s.Score("Alimento para perro adulto 3kg", "", "pollo"))
	assert.Zero(t, s.Score("Detergente concentrado limon 750ml", "", "limon"))
	assert.Zero(t, s.Score("Heladera no frost 300L", "", "heladera"))
}

func TestScoreFoodQueryNeverSurfacesNonFood(t *testing.T) {
	s := testScorer()

	assert.Zero(t, s.Score("Hueso juguete perro", "", "pollo"))
	assert.Zero(t, s.Score("Jabon liquido ropa", "", "leche"))

	// Non-food queries are free to match non-food products.
	assert.Positive(t, s.Score("Servilletas blancas x100", "", "servilletas"))
}

func TestScoreSubstringMatches(t *testing.T) {
	s := testScorer()

	assert.Equal(t, 100.0, s.Score("Coca Cola Zero 500ml", "", "coca cola"))
	assert.Equal(t, 90.0, s.Score("Gaseosa lima limon", "Sprite", "sprite"))
}

func TestScoreWordLevelWithClusterBonus(t *testing.T) {
	s := testScorer()

	// One exact word (85/2) plus one partial (35/2) plus the lacteos
	// cluster bonus.
	assert.InDelta(t, 75.0, s.Score("Yogurisimo bebible frutilla", "", "yogur bebible"), 1e-9)
}

func TestScoreNoisePenaltyClampsAtZero(t *testing.T) {
	s := testScorer()

	assert.Zero(t, s.Score("Cinta adhesiva embalaje transparente rollo grande", "", "pollo"))
}

func TestScoreEmptyQuery(t *testing.T) {
	assert.Zero(t, testScorer().Score("Coca Cola Zero 500ml", "Coca-Cola", ""))
}

func TestScoreNeverExceedsBounds(t *testing.T) {
	s := testScorer()

	names := []string{
		"Pollo entero fresco por kg",
		"Milanesa de pollo congelada",
		"Leche entera La Serenisima 1L",
		"Gaseosa cola retornable 2L",
	}
	for _, name := range names {
		got := s.Score(name, "", "pollo")
		assert.GreaterOrEqual(t, got, 0.0, name)
		assert.LessOrEqual(t, got, 100.0, name)
	}
}

func TestGroupScoreTakesBestMember(t *testing.T) {
	s := testScorer()

	g := &ProductGroup{
		DisplayName: "Gaseosa sabor cola 2L",
		Offers: []Offer{
			{Name: "Gaseosa sabor cola 2L"},
			{Name: "Coca Cola 2L"},
		},
	}
	assert.Equal(t, s.Score("Coca Cola 2L", "", "coca cola"), s.GroupScore(g, "coca cola"))
	assert.Equal(t, 100.0, s.GroupScore(g, "coca cola"))
}
