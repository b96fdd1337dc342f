package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexOffersNothingToIndex(t *testing.T) {
	idx := NewSuggestIndex("http://127.0.0.1:7700", "")

	count, err := idx.IndexOffers(nil)
	require.NoError(t, err)
	assert.Zero(t, count, "no offers means no round-trip to the index")
}
