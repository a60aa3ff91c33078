// Package orgsettings stores per-organization matching configuration: the
// strict and soft weight overrides landlord teams tune per market. Reads go
// through a short-lived Redis cache since every match run needs them.
package orgsettings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rentmatch_backend/internal/matching"
)

// Repo reads and writes organization settings in PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo creates the settings repository.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Weights reads the weight overrides for one strategy. A missing row or a
// null column means "no overrides" and returns an empty map.
func (r *Repo) Weights(ctx context.Context, organizationID uuid.UUID, strategy matching.Strategy) (matching.Weights, error) {
	column := "strict_weights"
	if strategy == matching.StrategySoft {
		column = "soft_weights"
	}
	query := `SELECT ` + column + ` FROM org_settings WHERE organization_id = $1`

	var weights matching.Weights
	err := r.pool.QueryRow(ctx, query, organizationID).Scan(&weights)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return matching.Weights{}, nil
		}
		return nil, fmt.Errorf("read org weights: %w", err)
	}
	if weights == nil {
		weights = matching.Weights{}
	}
	return weights, nil
}

// SaveWeights upserts the weight overrides for one strategy.
func (r *Repo) SaveWeights(ctx context.Context, organizationID uuid.UUID, strategy matching.Strategy, weights matching.Weights) error {
	column := "strict_weights"
	if strategy == matching.StrategySoft {
		column = "soft_weights"
	}
	query := `
		INSERT INTO org_settings (organization_id, ` + column + `)
		VALUES ($1, $2)
		ON CONFLICT (organization_id)
		DO UPDATE SET ` + column + ` = EXCLUDED.` + column + `, updated_at = now()`

	if _, err := r.pool.Exec(ctx, query, organizationID, weights); err != nil {
		return fmt.Errorf("save org weights: %w", err)
	}
	return nil
}
