package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	setupLogging(cfg.App.LogLevel)

	app := newApp(cfg)
	defer app.close()

	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "serve":
		if err := app.Serve(cfg.App.Addr); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	case "search":
		runSearch(app, argOr(2, "coca cola"))
	case "index":
		runIndex(app, argOr(2, ""))
	case "stats":
		runStats(app)
	case "changes":
		runChanges(app)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (serve|search|index|stats|changes)\n", command)
		os.Exit(2)
	}
}

func newApp(cfg *Config) *App {
	app := &App{
		cfg:      cfg,
		backend:  NewBackendClient(cfg.Backend.URL, cfg.Backend.Timeout(), cfg.Backend.Retries),
		pipeline: NewPipeline(DefaultVocabulary()),
	}
	if cfg.Meili.URL != "" {
		app.suggest = NewSuggestIndex(cfg.Meili.URL, cfg.Meili.APIKey)
	}
	if cfg.DB.DSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		history, err := OpenHistory(ctx, cfg.DB.DSN)
		if err != nil {
			log.Warn().Err(err).Msg("price history disabled")
		} else {
			app.history = history
		}
	}
	return app
}

func (a *App) close() {
	if a.history != nil {
		a.history.Close()
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = log.Level(lvl)
	if os.Getenv("LOG_FORMAT") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
}

func argOr(i int, fallback string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return fallback
}

// runSearch fetches, groups and prints one query from the command line.
func runSearch(app *App, query string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	payload, err := app.backend.Search(ctx, query)
	if err != nil {
		log.Fatal().Err(err).Msg("search failed")
	}
	groups := app.pipeline.Run(payload, query)

	fmt.Printf("Resultados para %q: %d grupos\n\n", query, len(groups))
	fmt.Println("Rank | Producto                                          | Tiendas | Mejor precio")
	fmt.Println("-----|---------------------------------------------------|---------|-------------")
	for i, g := range groups {
		if i >= 15 {
			fmt.Printf("\n... y %d grupos mas\n", len(groups)-i)
			break
		}
		fmt.Printf("%-4d | %-49.49s | %7d | $%.2f (%s)\n",
			i+1, FormattedName(g), g.StoreCount(), g.MinPrice, g.BestOffer.Store)
	}
}

// runIndex fetches a query and pushes its offers into the autocomplete
// index.
func runIndex(app *App, query string) {
	if app.suggest == nil {
		log.Fatal().Msg("meilisearch not configured")
	}
	if query == "" {
		log.Fatal().Msg("usage: gondola index <query>")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	payload, err := app.backend.Search(ctx, query)
	if err != nil {
		log.Fatal().Err(err).Msg("fetch failed")
	}
	offers := app.pipeline.Offers(payload)
	count, err := app.suggest.IndexOffers(offers)
	if err != nil {
		log.Fatal().Err(err).Msg("indexing failed")
	}
	log.Info().Int("indexed", count).Str("query", query).Msg("index updated")
}

func runStats(app *App) {
	if app.history == nil {
		log.Fatal().Msg("price history not configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := app.history.Stats(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("stats failed")
	}
	fmt.Println("Historial de precios")
	fmt.Println("====================")
	fmt.Printf("Registros:  %d\n", stats.Entries)
	fmt.Printf("Grupos:     %d\n", stats.Groups)
	fmt.Printf("Busquedas:  %d\n", stats.Searches)
	fmt.Printf("Tiendas:    %d\n", stats.StoresSeen)
}

func runChanges(app *App) {
	if app.history == nil {
		log.Fatal().Msg("price history not configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	changes, err := app.history.PriceChanges(ctx, 50)
	if err != nil {
		log.Fatal().Err(err).Msg("price changes failed")
	}
	fmt.Printf("Cambios de precio: %d\n", len(changes))
	for _, c := range changes {
		fmt.Printf("%s | %.2f -> %.2f | %s\n", c.DisplayName, c.OldPrice, c.NewPrice, c.Store)
	}
}
