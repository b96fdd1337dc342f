package main

import "strings"

// Relevance scoring of a product against a search query, 0 to 100.
// A hard veto list keeps obviously off-category products (pet food,
// cleaning, appliances) out of any result, and a food query never
// surfaces a non-food product. Above that, substring and word-level
// matches build the score, same-cluster semantic hits add a bonus, and
// names dominated by tokens unrelated to the query lose points.

const (
	substringNameScore = 100.0
	substringBrand     = 90.0
	exactWordWeight    = 85.0
	partialWordWeight  = 35.0
	clusterBonus       = 15.0
	noisePenalty       = 20.0
	maxNoiseTokens     = 3
	minPartialTokenLen = 4
)

// Scorer computes query relevance using the injected vocabulary.
type Scorer struct {
	vocab *Vocabulary
}

// NewScorer builds a scorer over the given vocabulary.
func NewScorer(vocab *Vocabulary) *Scorer {
	return &Scorer{vocab: vocab}
}

// Score rates how well a product name (and optional brand) matches the
// query. Vetoed products score exactly 0.
func (s *Scorer) Score(name, brand, query string) float64 {
	lname := strings.ToLower(name)
	lquery := strings.ToLower(strings.TrimSpace(query))

	if s.vetoed(lname, lquery) {
		return 0
	}

	score := 0.0
	if lquery != "" && strings.Contains(lname, lquery) {
		score = substringNameScore
	} else if brand != "" && lquery != "" && strings.Contains(strings.ToLower(brand), lquery) {
		score = substringBrand
	}

	queryWords := queryWords(lquery)
	nameTokens := tokenizeWords(lname)
	if len(queryWords) > 0 && len(nameTokens) > 0 {
		exact, partial := 0, 0
		for _, w := range queryWords {
			matched := false
			for _, tok := range nameTokens {
				if tok == w {
					exact++
					matched = true
					break
				}
			}
			if matched {
				continue
			}
			for _, tok := range nameTokens {
				if len(tok) >= minPartialTokenLen && (strings.Contains(tok, w) || strings.Contains(w, tok)) {
					partial++
					break
				}
			}
		}
		total := float64(len(queryWords))
		wordScore := float64(exact)/total*exactWordWeight + float64(partial)/total*partialWordWeight
		if wordScore > score {
			score = wordScore
		}
	}

	score += s.semanticBonus(lquery, lname)

	if len(queryWords) > 0 && s.noiseTokens(nameTokens, queryWords) > maxNoiseTokens {
		score -= noisePenalty
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// GroupScore is the maximum relevance over every member offer's name and
// the group's own display name.
func (s *Scorer) GroupScore(g *ProductGroup, query string) float64 {
	best := s.Score(g.DisplayName, g.Brand, query)
	for _, o := range g.Offers {
		if sc := s.Score(o.Name, o.Brand, query); sc > best {
			best = sc
		}
	}
	return best
}

// vetoed applies the hard irrelevance rules.
func (s *Scorer) vetoed(lname, lquery string) bool {
	for _, kw := range s.vocab.IrrelevantKeywords {
		if strings.Contains(lname, kw) {
			return true
		}
	}
	if lquery != "" && containsAny(lquery, s.vocab.FoodKeywords) && containsAny(lname, s.vocab.NonFoodKeywords) {
		return true
	}
	return false
}

// semanticBonus adds a fixed bonus per cluster hit by both query and name.
func (s *Scorer) semanticBonus(lquery, lname string) float64 {
	if lquery == "" {
		return 0
	}
	bonus := 0.0
	for _, keywords := range s.vocab.SemanticClusters {
		if containsAny(lquery, keywords) && containsAny(lname, keywords) {
			bonus += clusterBonus
		}
	}
	return bonus
}

// noiseTokens counts name tokens with no substring relationship to any
// query word.
func (s *Scorer) noiseTokens(nameTokens, queryWords []string) int {
	noise := 0
	for _, tok := range nameTokens {
		related := false
		for _, w := range queryWords {
			if strings.Contains(tok, w) || strings.Contains(w, tok) {
				related = true
				break
			}
		}
		if !related {
			noise++
		}
	}
	return noise
}

func queryWords(lquery string) []string {
	var out []string
	for _, w := range strings.Fields(lquery) {
		if len(w) > 1 {
			out = append(out, w)
		}
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
