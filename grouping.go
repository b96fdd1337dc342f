package main

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Product identity grouping. Offers for the same physical product arrive
// from different supermarkets under different names and with unreliable
// barcodes, so grouping runs a layered key strategy per offer: strict
// EAN+weight+brand, then multi-brand pack signature, then EAN+weight,
// then a name key for barcode-less offers, and finally fuzzy name
// similarity against existing groups. The group map lives inside a single
// Group call and is discarded at return; every search rebuilds its groups
// from scratch.

// ProductGroup is a cluster of offers believed to be the same product.
type ProductGroup struct {
	Key              string   `json:"key"`
	EAN              string   `json:"ean"`
	ExactWeight      string   `json:"exactWeight"`
	Brand            string   `json:"brand,omitempty"`
	Offers           []Offer  `json:"offers"`
	MinPrice         float64  `json:"minPrice"`
	MaxPrice         float64  `json:"maxPrice"`
	BestOffer        Offer    `json:"bestOffer"`
	DisplayName      string   `json:"displayName"`
	AlternativeNames []string `json:"alternativeNames,omitempty"`
	HasStock         bool     `json:"hasStock"`
	ImageURL         string   `json:"imageUrl,omitempty"`
}

// StoreCount returns the number of distinct stores carrying the group.
// Offers are capped at one per store, so this is just the member count.
func (g *ProductGroup) StoreCount() int {
	return len(g.Offers)
}

// Thresholds tuned against real search traffic; see the similarity and
// pre-filter checks below.
const (
	fuzzyMergeThreshold = 0.5
	packSimilarity      = 0.9
	sharedBrandBonus    = 0.3
	preFilterMinScore   = 25.0
	minQueryLen         = 2
	noBrandKey          = "no_brand"
	packKeySuffix       = "_pack"
	minPackBrands       = 2
)

// Grouper partitions canonical offers into product groups.
type Grouper struct {
	vocab  *Vocabulary
	scorer *Scorer
}

// NewGrouper builds a grouper over the given vocabulary.
func NewGrouper(vocab *Vocabulary) *Grouper {
	return &Grouper{vocab: vocab, scorer: NewScorer(vocab)}
}

// Group partitions offers into product groups. When a query of at least
// two characters is given, offers scoring below the relevance floor are
// discarded before grouping begins.
func (gr *Grouper) Group(offers []Offer, query string) []*ProductGroup {
	if utf8.RuneCountInString(query) >= minQueryLen {
		kept := make([]Offer, 0, len(offers))
		for _, o := range offers {
			if gr.scorer.Score(o.Name, o.Brand, query) >= preFilterMinScore {
				kept = append(kept, o)
			}
		}
		offers = kept
	}

	byKey := make(map[string]*ProductGroup)
	var groups []*ProductGroup

	for _, offer := range offers {
		weightKey := gr.weightKey(offer)
		brandKey := gr.brandKey(offer.Brand)
		packKey := gr.packKey(offer.Name)

		if g := gr.findGroup(byKey, groups, offer, weightKey, brandKey, packKey); g != nil {
			gr.addOfferToGroup(g, offer)
			continue
		}

		g := gr.newGroup(offer, weightKey, brandKey, packKey)
		groups = append(groups, g)
		for _, alias := range gr.aliasKeys(offer, weightKey, brandKey, packKey) {
			if _, taken := byKey[alias]; !taken {
				byKey[alias] = g
			}
		}
	}

	return groups
}

// findGroup tries the candidate keys in order, then falls back to fuzzy
// name similarity against every existing group's display name.
func (gr *Grouper) findGroup(byKey map[string]*ProductGroup, groups []*ProductGroup, offer Offer, weightKey, brandKey, packKey string) *ProductGroup {
	if !isSentinel(offer.EAN) {
		if g, ok := byKey[strictKey(offer.EAN, weightKey, brandKey)]; ok {
			return g
		}
	}
	if packKey != "" {
		if g, ok := byKey[packKey]; ok {
			return g
		}
	}
	if !isSentinel(offer.EAN) {
		if g, ok := byKey[relaxedKey(offer.EAN, weightKey)]; ok {
			return g
		}
	}
	if isSentinel(offer.EAN) {
		if g, ok := byKey[nameKey(offer.Name, brandKey)]; ok {
			return g
		}
	}

	var best *ProductGroup
	bestSim := 0.0
	for _, g := range groups {
		sim := gr.Similarity(offer.Name, g.DisplayName)
		if sim > bestSim {
			bestSim = sim
			best = g
		}
	}
	if bestSim > fuzzyMergeThreshold {
		return best
	}
	return nil
}

func (gr *Grouper) newGroup(offer Offer, weightKey, brandKey, packKey string) *ProductGroup {
	key := packKey
	if key == "" {
		if isSentinel(offer.EAN) {
			key = nameKey(offer.Name, brandKey)
		} else {
			key = strictKey(offer.EAN, weightKey, brandKey)
		}
	}
	return &ProductGroup{
		Key:              key,
		EAN:              offer.EAN,
		ExactWeight:      offer.ExactWeight,
		Brand:            offer.Brand,
		Offers:           []Offer{offer},
		MinPrice:         offer.Price,
		MaxPrice:         offer.Price,
		BestOffer:        offer,
		DisplayName:      offer.Name,
		AlternativeNames: []string{offer.Name},
		HasStock:         offer.InStock,
		ImageURL:         offer.ImageURL,
	}
}

// aliasKeys registers every key under which later offers may find this
// group, so each lookup strategy stays a plain map hit.
func (gr *Grouper) aliasKeys(offer Offer, weightKey, brandKey, packKey string) []string {
	var keys []string
	if packKey != "" {
		keys = append(keys, packKey)
	}
	if !isSentinel(offer.EAN) {
		keys = append(keys, strictKey(offer.EAN, weightKey, brandKey), relaxedKey(offer.EAN, weightKey))
	} else {
		keys = append(keys, nameKey(offer.Name, brandKey))
	}
	return keys
}

// addOfferToGroup merges an offer into a group. A second offer from an
// already-represented store is a no-op: first seen wins.
func (gr *Grouper) addOfferToGroup(g *ProductGroup, offer Offer) {
	for _, existing := range g.Offers {
		if strings.EqualFold(existing.Store, offer.Store) {
			return
		}
	}
	g.Offers = append(g.Offers, offer)

	g.MinPrice, g.MaxPrice = g.Offers[0].Price, g.Offers[0].Price
	g.BestOffer = g.Offers[0]
	for _, o := range g.Offers {
		if o.Price <= 0 {
			continue
		}
		if o.Price < g.MinPrice {
			g.MinPrice = o.Price
			g.BestOffer = o
		}
		if o.Price > g.MaxPrice {
			g.MaxPrice = o.Price
		}
	}

	if offer.InStock {
		g.HasStock = true
	}
	if g.ImageURL == "" && offer.ImageURL != "" {
		g.ImageURL = offer.ImageURL
	}
	if isSentinel(g.EAN) && !isSentinel(offer.EAN) {
		g.EAN = offer.EAN
	}
	if isSentinel(g.ExactWeight) && !isSentinel(offer.ExactWeight) {
		g.ExactWeight = offer.ExactWeight
	}
	if g.Brand == "" && offer.Brand != "" {
		g.Brand = offer.Brand
	}

	seen := false
	for _, n := range g.AlternativeNames {
		if n == offer.Name {
			seen = true
			break
		}
	}
	if !seen {
		g.AlternativeNames = append(g.AlternativeNames, offer.Name)
	}
	g.DisplayName = gr.chooseDisplayName(g.AlternativeNames)
}

// chooseDisplayName prefers names carrying a recognized brand token, then
// the longest raw name.
func (gr *Grouper) chooseDisplayName(names []string) string {
	best := ""
	bestBranded := false
	for _, name := range names {
		branded := len(gr.brandTokens(name)) > 0
		switch {
		case best == "":
			best, bestBranded = name, branded
		case branded && !bestBranded:
			best, bestBranded = name, branded
		case branded == bestBranded && len(name) > len(best):
			best = name
		}
	}
	return best
}

// --- key derivation ---

func strictKey(ean, weightKey, brandKey string) string {
	return ean + "_" + weightKey + "_" + brandKey
}

func relaxedKey(ean, weightKey string) string {
	return ean + "_" + weightKey
}

func nameKey(name, brandKey string) string {
	return "name_" + slugify(name) + "_" + brandKey
}

var weightTokenPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(ml|lt|kg|g|gr)\b`)

// weightKey uses the scraped weight verbatim when real, falls back to a
// weight token pulled from the name, and finally to the slugified name.
func (gr *Grouper) weightKey(offer Offer) string {
	if !isSentinel(offer.ExactWeight) {
		return offer.ExactWeight
	}
	if m := weightTokenPattern.FindStringSubmatch(offer.Name); m != nil {
		return strings.ToLower(m[1] + m[2])
	}
	return slugify(offer.Name)
}

func (gr *Grouper) brandKey(brand string) string {
	slug := slugify(brand)
	if slug == "" {
		return noBrandKey
	}
	return slug
}

// packKey returns the sorted-brand pack signature for multi-brand bundle
// names ("Sprite 1.5L + Coca Cola 1.5L" → "coca_sprite_pack"), or "".
func (gr *Grouper) packKey(name string) string {
	if !strings.Contains(name, "+") {
		return ""
	}
	brands := gr.brandTokens(name)
	if len(brands) < minPackBrands {
		return ""
	}
	return strings.Join(brands, "_") + packKeySuffix
}

// brandTokens returns the sorted set of recognized brand tokens in a name.
func (gr *Grouper) brandTokens(name string) []string {
	seen := map[string]struct{}{}
	for _, tok := range tokenizeWords(name) {
		if _, ok := gr.vocab.Brands[tok]; ok {
			seen[tok] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for tok := range seen {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// --- fuzzy similarity ---

// Similarity scores two product names in [0,1]. Pack names are compared by
// brand-set containment; everything else by substring-overlap token
// intersection over the larger token count, with a bonus when both names
// share a recognized brand.
func (gr *Grouper) Similarity(name1, name2 string) float64 {
	if strings.Contains(name1, "+") && strings.Contains(name2, "+") {
		b1, b2 := gr.brandTokens(name1), gr.brandTokens(name2)
		if len(b1) > 0 && len(b2) > 0 && smallerCovered(b1, b2) {
			return packSimilarity
		}
	}

	t1 := gr.keywords(name1)
	t2 := gr.keywords(name2)
	if len(t1) == 0 || len(t2) == 0 {
		return 0
	}

	matched := 0
	for _, a := range t1 {
		for _, b := range t2 {
			if strings.Contains(a, b) || strings.Contains(b, a) {
				matched++
				break
			}
		}
	}
	maxLen := len(t1)
	if len(t2) > maxLen {
		maxLen = len(t2)
	}
	sim := float64(matched) / float64(maxLen)

	if gr.shareBrand(name1, name2) {
		sim += sharedBrandBonus
		if sim > 1.0 {
			sim = 1.0
		}
	}
	return sim
}

// keywords tokenizes a name for similarity: type synonyms rewritten first,
// then punctuation stripped, short tokens and stopwords dropped.
func (gr *Grouper) keywords(name string) []string {
	lower := strings.ToLower(name)
	for phrase, canonical := range gr.vocab.TypeSynonyms {
		lower = strings.ReplaceAll(lower, phrase, canonical)
	}
	var out []string
	for _, tok := range tokenizeWords(lower) {
		if _, stop := gr.vocab.Stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func (gr *Grouper) shareBrand(name1, name2 string) bool {
	b2 := gr.brandTokens(name2)
	if len(b2) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(b2))
	for _, b := range b2 {
		set[b] = struct{}{}
	}
	for _, b := range gr.brandTokens(name1) {
		if _, ok := set[b]; ok {
			return true
		}
	}
	return false
}

func smallerCovered(a, b []string) bool {
	small, big := a, b
	if len(small) > len(big) {
		small, big = big, small
	}
	set := make(map[string]struct{}, len(big))
	for _, t := range big {
		set[t] = struct{}{}
	}
	for _, t := range small {
		if _, ok := set[t]; !ok {
			return false
		}
	}
	return true
}

// --- text helpers ---

var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9ñáéíóúü]+`)

// tokenizeWords lowercases, strips punctuation and drops tokens of two
// characters or fewer.
func tokenizeWords(s string) []string {
	cleaned := nonAlnumPattern.ReplaceAllString(strings.ToLower(s), " ")
	var out []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) <= 2 {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// slugify lowercases, strips non-alphanumerics and joins words with
// underscores.
func slugify(s string) string {
	cleaned := nonAlnumPattern.ReplaceAllString(strings.ToLower(s), " ")
	return strings.Join(strings.Fields(cleaned), "_")
}
