// Package ledger persists completed-match results to Postgres via pgx,
// grounded on scripts/import_cards.go's pgxpool usage pattern (connect,
// ping, batched transactional writes) and on the match-result shape the
// teacher's tournament.Tournament.RecordMatchResult tracks in memory
// (player1/player2/winner/win counts), generalized into a durable,
// queryable record per completed game rather than an in-memory-only
// tournament bracket.
package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardforge/rulesforge/internal/kernel/ids"
)

// Result is one completed match's outcome, the unit of record spec §6's
// engine entry points produce (run_until_game_over returns an Outcome;
// the ledger is where a caller durably records it).
type Result struct {
	MatchID     string
	Player1Deck string
	Player2Deck string
	Winner      ids.PlayerSlot
	IsDraw      bool
	TurnCount   int
	Seed        uint64
}

// Ledger writes and queries completed-match Results.
type Ledger struct {
	pool *pgxpool.Pool
}

// Open connects to Postgres and verifies the connection, grounded on
// import_cards.go's pgxpool.New + Ping pair.
func Open(ctx context.Context, dsn string) (*Ledger, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("ledger: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ledger: ping: %w", err)
	}
	return &Ledger{pool: pool}, nil
}

// Close releases the connection pool.
func (l *Ledger) Close() { l.pool.Close() }

// EnsureSchema creates the match_results table if it does not already
// exist, so a fresh database is usable without a separate migration
// step.
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	_, err := l.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS match_results (
			match_id     TEXT PRIMARY KEY,
			player1_deck TEXT NOT NULL,
			player2_deck TEXT NOT NULL,
			winner       SMALLINT NOT NULL,
			is_draw      BOOLEAN NOT NULL,
			turn_count   INTEGER NOT NULL,
			seed         BIGINT NOT NULL,
			recorded_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("ledger: ensure schema: %w", err)
	}
	return nil
}

// Record inserts one completed match's result.
func (l *Ledger) Record(ctx context.Context, r Result) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO match_results (match_id, player1_deck, player2_deck, winner, is_draw, turn_count, seed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (match_id) DO NOTHING
	`, r.MatchID, r.Player1Deck, r.Player2Deck, int(r.Winner), r.IsDraw, r.TurnCount, int64(r.Seed))
	if err != nil {
		return fmt.Errorf("ledger: record %s: %w", r.MatchID, err)
	}
	return nil
}

// WinRate reports how many of a deck's recorded matches it won, for
// quick sanity-checking a batch of simulated matches.
func (l *Ledger) WinRate(ctx context.Context, deckName string) (wins, total int, err error) {
	err = l.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE NOT is_draw AND (
				(player1_deck = $1 AND winner = 0) OR
				(player2_deck = $1 AND winner = 1)
			)),
			COUNT(*)
		FROM match_results
		WHERE player1_deck = $1 OR player2_deck = $1
	`, deckName).Scan(&wins, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("ledger: win rate for %s: %w", deckName, err)
	}
	return wins, total, nil
}
