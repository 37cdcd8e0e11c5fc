package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/settleops/tradeflow/internal/models"
)

const settlementTable = "settlement_price_temp"

// SettlementRepository backs the settlement-price import: it asks the
// database which feed tickers need prices for a date and loads the fetched
// prices back through the settlement staging table.
type SettlementRepository struct {
	pool *pgxpool.Pool
}

// NewSettlementRepository creates a new SettlementRepository
func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{pool: pool}
}

// FetchTickers returns the feed tickers the settlement database wants priced
// for the given date.
func (r *SettlementRepository) FetchTickers(ctx context.Context, date time.Time) ([]models.SettlementTicker, error) {
	rows, err := r.pool.Query(ctx, `SELECT security_code, bloomberg_code, field, price_date FROM settlement_price_tickers($1)`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlement tickers: %w", err)
	}
	defer rows.Close()

	var result []models.SettlementTicker
	for rows.Next() {
		var t models.SettlementTicker
		if err := rows.Scan(&t.SecurityCode, &t.BloombergCode, &t.Field, &t.Date); err != nil {
			return nil, fmt.Errorf("failed to scan settlement ticker: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// LoadAndImport truncates the settlement staging table, bulk-inserts the
// fetched prices and invokes the import function for the date, returning its
// result lines. One transaction, same contract as the trade staging load.
func (r *SettlementRepository) LoadAndImport(ctx context.Context, prices []models.SettlementPrice, date time.Time) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, settlementTable); err != nil {
		return nil, fmt.Errorf("failed to acquire settlement staging lock: %w", err)
	}

	ident := pgx.Identifier{settlementTable}
	if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+ident.Sanitize()); err != nil {
		return nil, fmt.Errorf("failed to truncate settlement staging table: %w", err)
	}

	if len(prices) > 0 {
		copied, err := tx.CopyFrom(ctx, ident, []string{"securitycode", "price", "sdate"},
			pgx.CopyFromSlice(len(prices), func(i int) ([]any, error) {
				p := prices[i]
				return []any{p.SecurityCode, p.Price, p.SDate}, nil
			}))
		if err != nil {
			return nil, fmt.Errorf("failed to bulk insert settlement prices: %w", err)
		}
		if copied != int64(len(prices)) {
			return nil, fmt.Errorf("bulk insert wrote %d of %d rows", copied, len(prices))
		}
	}

	rows, err := tx.Query(ctx, `SELECT line FROM import_settlement_prices($1)`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke settlement import: %w", err)
	}

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan import output: %w", err)
		}
		lines = append(lines, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("settlement import failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit settlement load: %w", err)
	}
	return lines, nil
}
