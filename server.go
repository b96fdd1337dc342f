package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// HTTP surface for the mobile client. Every search response is a complete
// ranked snapshot; the client replaces whatever it was showing with the
// new one.

// App wires the pipeline to its collaborators. history and suggest may be
// nil when not configured.
type App struct {
	cfg      *Config
	backend  *BackendClient
	pipeline *Pipeline
	suggest  *SuggestIndex
	history  *HistoryStore
}

// GroupView is the wire shape of one ranked group, with the display
// derivations precomputed for the client.
type GroupView struct {
	*ProductGroup
	FormattedName string `json:"formattedName"`
	PricePerUnit  string `json:"pricePerUnit,omitempty"`
	StoreCount    int    `json:"storeCount"`
}

type searchResponse struct {
	Query  string      `json:"query"`
	Groups []GroupView `json:"groups"`
	Total  int         `json:"total"`
}

func (a *App) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", a.handleHealth)
	r.Get("/api/search", a.handleSearch)
	r.Get("/api/suggest", a.handleSuggest)
	r.Get("/api/price-changes", a.handlePriceChanges)

	return cors.AllowAll().Handler(r)
}

// Serve runs the API over h2c so plain-text clients still get HTTP/2.
func (a *App) Serve(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(a.router(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info().Str("addr", addr).Msg("listening")
	return srv.ListenAndServe()
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (a *App) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	payload, err := a.backend.Search(r.Context(), query)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("backend search failed")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "backend unavailable"})
		return
	}

	groups := a.pipeline.Run(payload, query)

	if a.history != nil && query != "" {
		if err := a.history.RecordSearch(r.Context(), query, groups); err != nil {
			log.Warn().Err(err).Msg("recording search history failed")
		}
	}

	views := make([]GroupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, GroupView{
			ProductGroup:  g,
			FormattedName: FormattedName(g),
			PricePerUnit:  PricePerUnit(g),
			StoreCount:    g.StoreCount(),
		})
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Groups: views, Total: len(views)})
}

func (a *App) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if a.suggest == nil {
		writeJSON(w, http.StatusOK, []Suggestion{})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	suggestions, err := a.suggest.Suggest(r.URL.Query().Get("q"), limit)
	if err != nil {
		log.Error().Err(err).Msg("suggest failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "suggest unavailable"})
		return
	}
	if suggestions == nil {
		suggestions = []Suggestion{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (a *App) handlePriceChanges(w http.ResponseWriter, r *http.Request) {
	if a.history == nil {
		writeJSON(w, http.StatusOK, []PriceChange{})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	changes, err := a.history.PriceChanges(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("price changes query failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
		return
	}
	if changes == nil {
		changes = []PriceChange{}
	}
	writeJSON(w, http.StatusOK, changes)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("encoding response")
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
