package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// Price history store. After a search the best price of each group can be
// recorded, which over time gives the price-change report the app shows
// on the history screen. The store is optional: without a configured DSN
// the rest of the service works normally.

type HistoryStore struct {
	db *sql.DB
}

// PriceChange is one group whose latest recorded best price differs from
// the one before it.
type PriceChange struct {
	GroupKey    string    `json:"groupKey"`
	DisplayName string    `json:"displayName"`
	Store       string    `json:"store"`
	OldPrice    float64   `json:"oldPrice"`
	NewPrice    float64   `json:"newPrice"`
	SeenAt      time.Time `json:"seenAt"`
}

// HistoryStats summarizes the stored history.
type HistoryStats struct {
	Entries    int `json:"entries"`
	Groups     int `json:"groups"`
	Searches   int `json:"searches"`
	StoresSeen int `json:"storesSeen"`
}

// OpenHistory connects to Postgres and ensures the schema exists.
func OpenHistory(ctx context.Context, dsn string) (*HistoryStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging history db: %w", err)
	}
	h := &HistoryStore{db: db}
	if err := h.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

func (h *HistoryStore) Close() error {
	return h.db.Close()
}

func (h *HistoryStore) ensureSchema(ctx context.Context) error {
	_, err := h.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS price_history (
			id           BIGSERIAL PRIMARY KEY,
			search_id    UUID NOT NULL,
			query        TEXT NOT NULL,
			group_key    TEXT NOT NULL,
			display_name TEXT NOT NULL,
			store        TEXT NOT NULL,
			price        DOUBLE PRECISION NOT NULL,
			seen_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS price_history_group_idx
			ON price_history (group_key, seen_at DESC)`)
	if err != nil {
		return fmt.Errorf("ensuring history schema: %w", err)
	}
	return nil
}

// RecordSearch stores the best price of every group in one ranked result
// set under a fresh search id.
func (h *HistoryStore) RecordSearch(ctx context.Context, query string, groups []*ProductGroup) error {
	if len(groups) == 0 {
		return nil
	}
	searchID := uuid.NewString()

	stmt, err := h.db.PrepareContext(ctx, `
		INSERT INTO price_history (search_id, query, group_key, display_name, store, price)
		VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return fmt.Errorf("preparing history insert: %w", err)
	}
	defer stmt.Close()

	for _, g := range groups {
		if _, err := stmt.ExecContext(ctx, searchID, query, g.Key, g.DisplayName, g.BestOffer.Store, g.MinPrice); err != nil {
			return fmt.Errorf("recording group %q: %w", g.Key, err)
		}
	}
	return nil
}

// PriceChanges reports groups whose two most recent recordings disagree
// on price, newest first.
func (h *HistoryStore) PriceChanges(ctx context.Context, limit int) ([]PriceChange, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := h.db.QueryContext(ctx, `
		WITH ordered AS (
			SELECT group_key, display_name, store, price, seen_at,
			       LAG(price) OVER (PARTITION BY group_key ORDER BY seen_at) AS prev_price,
			       ROW_NUMBER() OVER (PARTITION BY group_key ORDER BY seen_at DESC) AS rn
			FROM price_history
		)
		SELECT group_key, display_name, store, prev_price, price, seen_at
		FROM ordered
		WHERE rn = 1 AND prev_price IS NOT NULL AND prev_price <> price
		ORDER BY seen_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying price changes: %w", err)
	}
	defer rows.Close()

	var changes []PriceChange
	for rows.Next() {
		var c PriceChange
		if err := rows.Scan(&c.GroupKey, &c.DisplayName, &c.Store, &c.OldPrice, &c.NewPrice, &c.SeenAt); err != nil {
			return nil, fmt.Errorf("scanning price change: %w", err)
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

// Stats returns row counts for the stats subcommand.
func (h *HistoryStore) Stats(ctx context.Context) (HistoryStats, error) {
	var s HistoryStats
	err := h.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(DISTINCT group_key),
		       COUNT(DISTINCT search_id),
		       COUNT(DISTINCT store)
		FROM price_history`).
		Scan(&s.Entries, &s.Groups, &s.Searches, &s.StoresSeen)
	if err != nil {
		return HistoryStats{}, fmt.Errorf("querying history stats: %w", err)
	}
	return s, nil
}
