package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/settleops/tradeflow/internal/models"
)

// StagingRepository owns the staging table the posting procedure reads from.
// The truncate → bulk insert → post sequence runs in one transaction under a
// per-table advisory lock, so a failed run leaves the table in its pre-run
// state and two simultaneous uploads cannot interleave on it.
type StagingRepository struct {
	pool  *pgxpool.Pool
	table string
}

// NewStagingRepository creates a new StagingRepository targeting the given
// staging table.
func NewStagingRepository(pool *pgxpool.Pool, table string) *StagingRepository {
	return &StagingRepository{pool: pool, table: table}
}

// LoadAndPost truncates the staging table, bulk-inserts the normalized rows,
// invokes the posting function with the partner code and returns its result
// lines. All steps share a single transaction.
func (r *StagingRepository) LoadAndPost(ctx context.Context, trades []models.StagingTrade, partner string) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize pipeline runs against the same staging table.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, r.table); err != nil {
		return nil, fmt.Errorf("failed to acquire staging lock: %w", err)
	}

	ident := pgx.Identifier{r.table}
	if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+ident.Sanitize()); err != nil {
		return nil, fmt.Errorf("failed to truncate staging table: %w", err)
	}

	if len(trades) > 0 {
		copied, err := tx.CopyFrom(ctx, ident, models.StagingColumns,
			pgx.CopyFromSlice(len(trades), func(i int) ([]any, error) {
				return trades[i].Values(), nil
			}))
		if err != nil {
			return nil, fmt.Errorf("failed to bulk insert trades: %w", err)
		}
		if copied != int64(len(trades)) {
			return nil, fmt.Errorf("bulk insert wrote %d of %d rows", copied, len(trades))
		}
	}

	rows, err := tx.Query(ctx, `SELECT line FROM post_commodity_trades($1)`, partner)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke posting procedure: %w", err)
	}

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan procedure output: %w", err)
		}
		lines = append(lines, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("posting procedure failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit staging load: %w", err)
	}
	return lines, nil
}
