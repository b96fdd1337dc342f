package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T, backendHandler http.HandlerFunc) *App {
	t.Helper()
	backend := httptest.NewServer(backendHandler)
	t.Cleanup(backend.Close)

	return &App{
		cfg:      &Config{},
		backend:  NewBackendClient(backend.URL, 5*time.Second, 0),
		pipeline: NewPipeline(DefaultVocabulary()),
	}
}

func TestHandleHealth(t *testing.T) {
	app := testApp(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	app.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestHandleSearch(t *testing.T) {
	app := testApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "coca cola", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchFixture))
	})

	rec := httptest.NewRecorder()
	app.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=coca+cola", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "coca cola", resp.Query)
	require.Equal(t, 2, resp.Total)

	top := resp.Groups[0]
	assert.Equal(t, "Coca Cola Zero 500ml", top.DisplayName)
	assert.Equal(t, "Coca-cola - Coca Cola Zero 500ml", top.FormattedName)
	assert.Equal(t, "$220.00 x 100g", top.PricePerUnit)
	assert.Equal(t, 2, top.StoreCount)
}

func TestHandleSearchBackendDown(t *testing.T) {
	app := testApp(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	app.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=coca", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleSearchMalformedBackendPayload(t *testing.T) {
	app := testApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected": "shape"}`))
	})

	rec := httptest.NewRecorder()
	app.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=coca", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Total)
	assert.NotNil(t, resp.Groups)
}

func TestHandleSuggestWithoutIndex(t *testing.T) {
	app := testApp(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	app.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/suggest?q=coc", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandlePriceChangesWithoutHistory(t *testing.T) {
	app := testApp(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	app.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/price-changes", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestBackendClientRetries(t *testing.T) {
	calls := 0
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "transient", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer backend.Close()

	client := NewBackendClient(backend.URL, 5*time.Second, 1)
	body, err := client.Search(t.Context(), "coca")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), body)
	assert.Equal(t, 2, calls)
}
