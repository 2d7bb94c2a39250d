package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// DayRepository handles day marker database operations
type DayRepository struct {
	db *Database
}

// Exists reports whether a marker exists for the given day. This is
// the idempotence check for ingestion; the table carries no
// uniqueness constraint of its own.
func (r *DayRepository) Exists(ctx context.Context, dayID time.Time) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM days WHERE day_id = $1)`

	var exists bool
	err := r.db.Pool.QueryRow(ctx, query, dayID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check day marker: %w", err)
	}

	return exists, nil
}

// Create inserts a marker for the given day
func (r *DayRepository) Create(ctx context.Context, dayID time.Time) error {
	query := `INSERT INTO days (day_id) VALUES ($1)`

	_, err := r.db.Pool.Exec(ctx, query, dayID)
	if err != nil {
		return fmt.Errorf("failed to create day marker: %w", err)
	}

	log.Debug().Time("day_id", dayID).Msg("Day marker created")
	return nil
}
