package main

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Pipeline ties the stages together: raw payload → records → offers →
// groups → ranked groups. Each call works over its own snapshot and
// returns a fresh result; nothing is shared between calls, so concurrent
// searches need no locking and a superseded search is discarded by simply
// dropping its slice.
type Pipeline struct {
	grouper *Grouper
	scorer  *Scorer
}

// NewPipeline builds a pipeline over the given vocabulary.
func NewPipeline(vocab *Vocabulary) *Pipeline {
	return &Pipeline{
		grouper: NewGrouper(vocab),
		scorer:  NewScorer(vocab),
	}
}

// Run normalizes, maps, groups and ranks one backend payload. A nil
// payload is a programmer error and panics; a malformed one returns an
// empty, non-nil slice.
func (p *Pipeline) Run(payload []byte, query string) []*ProductGroup {
	if payload == nil {
		panic("pipeline: nil payload")
	}
	offers := p.Offers(payload)
	groups := p.grouper.Group(offers, query)
	ranked := p.scorer.Rank(groups, query)
	log.Debug().
		Str("query", query).
		Int("offers", len(offers)).
		Int("groups", len(ranked)).
		Msg("pipeline run")
	if ranked == nil {
		ranked = []*ProductGroup{}
	}
	return ranked
}

// Offers maps a payload to canonical offers without grouping. The indexer
// uses this to build autocomplete documents.
func (p *Pipeline) Offers(payload []byte) []Offer {
	var node any
	if err := json.Unmarshal(payload, &node); err != nil {
		log.Debug().Err(err).Msg("payload is not valid JSON, yielding no offers")
		return nil
	}
	if node == nil {
		return nil
	}
	var offers []Offer
	for _, rec := range NormalizePayload(node) {
		offers = append(offers, MapRecord(rec)...)
	}
	return offers
}
