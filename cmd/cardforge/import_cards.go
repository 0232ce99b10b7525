package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importCSVPath   string
	importBatchSize int
)

var importCardsCmd = &cobra.Command{
	Use:   "import-cards",
	Short: "Load a card CSV export into the cards table",
	RunE:  importCards,
}

func init() {
	importCardsCmd.Flags().StringVar(&importCSVPath, "csv", "data/cards_export.csv", "path to the card CSV export")
	importCardsCmd.Flags().IntVar(&importBatchSize, "batch-size", 1000, "rows per transaction")
	rootCmd.AddCommand(importCardsCmd)
}

// cardRow mirrors one record of the CSV export this reads and the cards
// table it writes, grounded on scripts/import_cards.go's CardImport
// struct and column layout.
type cardRow struct {
	name       string
	setCode    string
	cardNumber string
	className  string
	power      string
	toughness  string
	rarity     string
	types      string
	subtypes   string
	supertypes string
	manaCosts  string
	rules      string
}

func importCards(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	file, err := os.Open(importCSVPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", importCSVPath, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return fmt.Errorf("%s: no data rows", importCSVPath)
	}

	rows := parseRows(records[1:], logger)
	logger.Info("parsed cards", zap.Int("count", len(rows)))

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}

	if err := ensureCardsTable(ctx, pool); err != nil {
		return err
	}

	imported, failed := writeBatches(ctx, pool, rows, importBatchSize, logger)
	logger.Info("import complete", zap.Int("imported", imported), zap.Int("failed", failed))
	return nil
}

func parseRows(records [][]string, logger *zap.Logger) []cardRow {
	out := make([]cardRow, 0, len(records))
	for i, record := range records {
		if len(record) < 15 {
			logger.Warn("skipping row with insufficient columns", zap.Int("row", i+2))
			continue
		}
		out = append(out, cardRow{
			name:       record[0],
			setCode:    record[1],
			cardNumber: record[2],
			className:  record[3],
			power:      record[4],
			toughness:  record[5],
			rarity:     record[9],
			types:      record[10],
			subtypes:   record[11],
			supertypes: record[12],
			manaCosts:  record[13],
			rules:      record[14],
		})
	}
	return out
}

func ensureCardsTable(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS cards (
			id              BIGSERIAL PRIMARY KEY,
			card_number     TEXT,
			set_code        TEXT,
			name            TEXT NOT NULL,
			card_type       TEXT,
			mana_cost       TEXT,
			power           TEXT,
			toughness       TEXT,
			rules_text      TEXT,
			flavor_text     TEXT,
			original_text   TEXT,
			original_type   TEXT,
			cn              INTEGER,
			card_name       TEXT,
			rarity          TEXT,
			card_class_name TEXT,
			ability_codes   TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure cards table: %w", err)
	}
	return nil
}

func writeBatches(ctx context.Context, pool *pgxpool.Pool, rows []cardRow, batchSize int, logger *zap.Logger) (imported, failed int) {
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		tx, err := pool.Begin(ctx)
		if err != nil {
			logger.Warn("begin transaction failed", zap.Error(err))
			failed += len(batch)
			continue
		}

		for _, r := range batch {
			cardType := buildCardType(r.types, r.subtypes, r.supertypes)
			_, err := tx.Exec(ctx, `
				INSERT INTO cards (
					card_number, set_code, name, card_type, mana_cost,
					power, toughness, rules_text, flavor_text, original_text,
					original_type, cn, card_name, rarity, card_class_name
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			`, r.cardNumber, r.setCode, r.name, cardType, r.manaCosts,
				r.power, r.toughness, r.rules, "", "", "", 0, r.name, r.rarity, r.className)
			if err != nil {
				logger.Warn("insert card failed", zap.String("name", r.name), zap.Error(err))
				failed++
				continue
			}
			imported++
		}

		if err := tx.Commit(ctx); err != nil {
			logger.Warn("commit batch failed", zap.Error(err))
			tx.Rollback(ctx)
			failed += len(batch)
		}
	}
	return imported, failed
}

func buildCardType(types, subtypes, supertypes string) string {
	var parts []string
	if supertypes != "" {
		parts = append(parts, supertypes)
	}
	if types != "" {
		parts = append(parts, types)
	}
	result := strings.Join(parts, " ")
	if subtypes != "" {
		result += " — " + subtypes
	}
	return result
}
