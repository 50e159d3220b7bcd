// internal/words/postgres.go
package words

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LoadPostgres connects to the database named by connStr and loads the full
// wordlist from the words table into an in-memory List. The pool is closed
// before returning; word lookup never touches the database after startup, so
// no lobby transition ever holds its lock across database I/O.
func LoadPostgres(ctx context.Context, connStr string) (*List, error) {
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("words: parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("words: create pgx pool: %w", err)
	}
	defer pool.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("words: db ping: %w", err)
	}

	q := `
		SELECT word, difficulty, translation_sv, translation_fr, COALESCE(alternates, '{}'::jsonb)
		FROM words
		WHERE word <> ''
	`
	rows, err := pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("words: query words table: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var rec wordRecord
		var altsRaw []byte
		if err := rows.Scan(&rec.Word, &rec.Difficulty, &rec.TranslationSV, &rec.TranslationFR, &altsRaw); err != nil {
			return nil, fmt.Errorf("words: scan word row: %w", err)
		}
		if len(altsRaw) > 0 {
			// Malformed alternates only cost the alternates, not the word.
			_ = json.Unmarshal(altsRaw, &rec.Alternates)
		}
		entries = append(entries, recordToEntry(rec))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("words: iterate word rows: %w", err)
	}
	return NewList(entries)
}
