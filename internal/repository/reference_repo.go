package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/settleops/tradeflow/internal/models"
)

var ErrNoReferenceData = errors.New("reference table is empty")

// ReferenceRepository reads the security and client master tables. Both are
// fetched as full snapshots per pipeline run; the resolver works purely in
// memory from there.
type ReferenceRepository struct {
	pool *pgxpool.Pool
}

// NewReferenceRepository creates a new ReferenceRepository
func NewReferenceRepository(pool *pgxpool.Pool) *ReferenceRepository {
	return &ReferenceRepository{pool: pool}
}

// FetchSecurityReferences retrieves the full security master snapshot.
func (r *ReferenceRepository) FetchSecurityReferences(ctx context.Context) ([]models.SecurityReference, error) {
	query := `
		SELECT security_code, security_name,
		       COALESCE(phillip_code, ''), COALESCE(rj_contract_code, ''), COALESCE(cqg_code, ''),
		       tick_value
		FROM security_master_t1
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query security master: %w", err)
	}
	defer rows.Close()

	var result []models.SecurityReference
	for rows.Next() {
		var s models.SecurityReference
		if err := rows.Scan(&s.SecurityCode, &s.SecurityName, &s.PhillipCode, &s.RJContractCode, &s.CQGCode, &s.TickValue); err != nil {
			return nil, fmt.Errorf("failed to scan security reference: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("security master: %w", ErrNoReferenceData)
	}
	return result, nil
}

// FetchClientReferences retrieves the full client master snapshot.
func (r *ReferenceRepository) FetchClientReferences(ctx context.Context) ([]models.ClientReference, error) {
	query := `
		SELECT client_info, client_code
		FROM client_master
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query client master: %w", err)
	}
	defer rows.Close()

	var result []models.ClientReference
	for rows.Next() {
		var c models.ClientReference
		if err := rows.Scan(&c.ClientInfo, &c.ClientCode); err != nil {
			return nil, fmt.Errorf("failed to scan client reference: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
