package main

import (
	"sort"
	"unicode/utf8"
)

// Group ranking. Without a query the cheapest groups come first. With a
// query, relevance dominates, but two groups within a small relevance
// band are treated as tied and broken by stock, store breadth and price,
// so a marginally-better-matching group never beats a clearly cheaper,
// better-stocked one.

// relevanceTieBand is the absolute score difference under which two
// groups count as equally relevant.
const relevanceTieBand = 5.0

// Rank sorts groups for display. The sort is stable and returns the same
// slice.
func (s *Scorer) Rank(groups []*ProductGroup, query string) []*ProductGroup {
	if utf8.RuneCountInString(query) < minQueryLen {
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].MinPrice < groups[j].MinPrice
		})
		return groups
	}

	scores := make(map[*ProductGroup]float64, len(groups))
	for _, g := range groups {
		scores[g] = s.GroupScore(g, query)
	}
	return rankScored(groups, scores)
}

func rankScored(groups []*ProductGroup, scores map[*ProductGroup]float64) []*ProductGroup {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		diff := scores[a] - scores[b]
		if diff > relevanceTieBand {
			return true
		}
		if diff < -relevanceTieBand {
			return false
		}
		if a.HasStock != b.HasStock {
			return a.HasStock
		}
		if a.StoreCount() != b.StoreCount() {
			return a.StoreCount() > b.StoreCount()
		}
		return a.MinPrice < b.MinPrice
	})
	return groups
}
