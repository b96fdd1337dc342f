package main

import (
	"encoding/json"
	"fmt"

	meilisearch "github.com/meilisearch/meilisearch-go"
)

// Autocomplete index. Mapped offers are pushed into a Meilisearch index
// as flat documents so the search box can suggest titles without hitting
// the scraping backend.

const suggestIndexName = "offers"

type SuggestIndex struct {
	client meilisearch.ServiceManager
}

// Suggestion is one autocomplete hit.
type Suggestion struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Store string  `json:"store"`
	Price float64 `json:"price"`
	Brand string  `json:"brand,omitempty"`
	Image string  `json:"image,omitempty"`
}

// NewSuggestIndex builds a client for the configured Meilisearch instance.
func NewSuggestIndex(url, apiKey string) *SuggestIndex {
	return &SuggestIndex{client: meilisearch.New(url, meilisearch.WithAPIKey(apiKey))}
}

// IndexOffers upserts one document per offer. Document ids combine the
// slugified name and the store so re-indexing the same offer overwrites
// instead of duplicating.
func (s *SuggestIndex) IndexOffers(offers []Offer) (int, error) {
	if len(offers) == 0 {
		return 0, nil
	}
	_, _ = s.client.CreateIndex(&meilisearch.IndexConfig{Uid: suggestIndexName, PrimaryKey: "id"})

	docs := make([]map[string]interface{}, 0, len(offers))
	for _, o := range offers {
		docs = append(docs, map[string]interface{}{
			"id":    slugify(o.Name) + "_" + slugify(o.Store),
			"title": o.Name,
			"store": o.Store,
			"price": o.Price,
			"brand": o.Brand,
			"image": o.ImageURL,
		})
	}

	index := s.client.Index(suggestIndexName)
	if _, err := index.AddDocuments(docs, nil); err != nil {
		return 0, fmt.Errorf("indexing offers: %w", err)
	}
	return len(docs), nil
}

// Suggest returns autocomplete hits for a partial query.
func (s *SuggestIndex) Suggest(query string, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = 10
	}
	index := s.client.Index(suggestIndexName)
	res, err := index.Search(query, &meilisearch.SearchRequest{Limit: int64(limit)})
	if err != nil {
		return nil, fmt.Errorf("suggest %q: %w", query, err)
	}

	// Round-trip through JSON: Meilisearch hits are schemaless.
	b, err := json.Marshal(res.Hits)
	if err != nil {
		return nil, err
	}
	var suggestions []Suggestion
	if err := json.Unmarshal(b, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}
