package repository

import (
	"context"
	"errors"
	"fmt"

	"mlb_byte/scoreboard/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// CacheRepository handles live cache database operations
type CacheRepository struct {
	db *Database
}

// Create inserts a new live cache and fills in its id
func (r *CacheRepository) Create(ctx context.Context, cache *models.GameCache) error {
	query := `
		INSERT INTO game_caches (
			home_team_runs, away_team_runs, inning, top_inning, status, refresh_time
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		cache.HomeTeamRuns, cache.AwayTeamRuns, cache.Inning,
		cache.TopInning, cache.Status, cache.RefreshTime,
	).Scan(&cache.ID, &cache.CreatedAt, &cache.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create live cache: %w", err)
	}

	log.Debug().
		Int("id", cache.ID).
		Str("status", cache.Status).
		Msg("Live cache created")

	return nil
}

// GetByID retrieves a live cache by id
func (r *CacheRepository) GetByID(ctx context.Context, id int) (*models.GameCache, error) {
	query := `
		SELECT id, home_team_runs, away_team_runs, inning, top_inning, status,
		       refresh_time, created_at, updated_at
		FROM game_caches
		WHERE id = $1
	`

	var cache models.GameCache
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&cache.ID, &cache.HomeTeamRuns, &cache.AwayTeamRuns, &cache.Inning,
		&cache.TopInning, &cache.Status, &cache.RefreshTime,
		&cache.CreatedAt, &cache.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get live cache: %w", err)
	}

	return &cache, nil
}

// Update writes a refreshed live cache back in place
func (r *CacheRepository) Update(ctx context.Context, cache *models.GameCache) error {
	query := `
		UPDATE game_caches
		SET home_team_runs = $1, away_team_runs = $2, inning = $3,
		    top_inning = $4, status = $5, refresh_time = $6, updated_at = NOW()
		WHERE id = $7
	`

	result, err := r.db.Pool.Exec(
		ctx, query,
		cache.HomeTeamRuns, cache.AwayTeamRuns, cache.Inning,
		cache.TopInning, cache.Status, cache.RefreshTime, cache.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update live cache: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("live cache not found: id=%d", cache.ID)
	}

	return nil
}
