package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var node any
	require.NoError(t, json.Unmarshal([]byte(raw), &node))
	return node
}

func TestNormalizePayloadPreGroupedArray(t *testing.T) {
	payload := decode(t, `[
		{"name": "Leche Entera", "supermarkets": [{"supermercado": "jumbo", "precio": 1500}]},
		{"name": "Leche Descremada", "supermarkets": [{"supermercado": "disco", "precio": 1400}]}
	]`)

	records := NormalizePayload(payload)
	require.Len(t, records, 2)
	assert.Equal(t, "Leche Entera", records[0].Fields["name"])
	assert.Equal(t, "Leche Descremada", records[1].Fields["name"])
}

func TestNormalizePayloadItemsWithProducts(t *testing.T) {
	payload := decode(t, `{
		"items": [{
			"query": "leche",
			"meta": {"canonid": "7790001", "brand": "La Serenisima"},
			"products": [
				{"name": "Leche Entera 1L", "supermarkets": [{"supermercado": "vea", "precio": 1450}]}
			]
		}]
	}`)

	records := NormalizePayload(payload)
	require.Len(t, records, 1)
	assert.Equal(t, "leche", records[0].Context.Query)
	require.NotNil(t, records[0].Context.Meta)
	assert.Equal(t, "7790001", records[0].Context.Meta["canonid"])
}

func TestNormalizePayloadItemsWithoutProducts(t *testing.T) {
	payload := decode(t, `{
		"items": [
			{"name": "Pan Lactal", "supermarkets": [{"supermercado": "coto", "precio": 2100}]}
		]
	}`)

	records := NormalizePayload(payload)
	require.Len(t, records, 1)
	assert.Equal(t, "Pan Lactal", records[0].Fields["name"])
}

func TestNormalizePayloadDataWrapper(t *testing.T) {
	for _, key := range []string{"data", "results", "popular_products"} {
		payload := decode(t, `{"status": "ok", "`+key+`": [
			{"name": "Yerba", "supermarkets": [{"supermercado": "dia", "precio": 3800}]}
		]}`)

		records := NormalizePayload(payload)
		require.Len(t, records, 1, "wrapper key %q", key)
	}
}

func TestNormalizePayloadProductsWithMeta(t *testing.T) {
	payload := decode(t, `{
		"query": "galletitas",
		"meta": {"brand": "Bagley"},
		"products": [
			{"name": "Criollitas", "supermarkets": [{"supermercado": "jumbo", "precio": 900}]}
		]
	}`)

	records := NormalizePayload(payload)
	require.Len(t, records, 1)
	assert.Equal(t, "galletitas", records[0].Context.Query)
	assert.Equal(t, "Bagley", records[0].Context.Meta["brand"])
}

func TestNormalizePayloadTerminalRecord(t *testing.T) {
	payload := decode(t, `{"name": "Fideos Matarazzo", "supermarkets": [{"supermercado": "vea", "precio": 1100}]}`)

	records := NormalizePayload(payload)
	require.Len(t, records, 1)
	assert.Equal(t, "Fideos Matarazzo", records[0].Fields["name"])
}

func TestNormalizePayloadN8NEnvelope(t *testing.T) {
	payload := decode(t, `[{"json": {"data": [
		{"name": "Arroz Gallo", "supermarkets": [{"supermercado": "carrefour", "precio": 1700}]}
	]}}]`)

	records := NormalizePayload(payload)
	require.Len(t, records, 1)
}

func TestNormalizePayloadNestedPlainArrays(t *testing.T) {
	payload := decode(t, `[[{"name": "Azucar Ledesma", "supermarkets": [{"supermercado": "dia", "precio": 1300}]}]]`)

	records := NormalizePayload(payload)
	require.Len(t, records, 1)
}

func TestNormalizePayloadMalformedDegradesToEmpty(t *testing.T) {
	assert.Empty(t, NormalizePayload(decode(t, `{"foo": "bar"}`)))
	assert.Empty(t, NormalizePayload(decode(t, `"just a string"`)))
	assert.Empty(t, NormalizePayload(decode(t, `42`)))
	assert.Empty(t, NormalizePayload(decode(t, `{"items": "not an array"}`)))
}

func TestNormalizePayloadNilPanics(t *testing.T) {
	assert.Panics(t, func() { NormalizePayload(nil) })
}
